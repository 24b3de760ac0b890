package notifications

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Producer queues order confirmations for asynchronous delivery.
type Producer interface {
	PublishConfirmation(ctx context.Context, confirmation *OrderConfirmation) error
	Close() error
}

// ProducerConfig contains configuration for the Kafka confirmation producer
type ProducerConfig struct {
	Brokers          []string
	Topic            string
	RetryMax         int
	TimeoutMs        int
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
}

// DefaultProducerConfig returns a default producer configuration
func DefaultProducerConfig(brokers []string, topic string) *ProducerConfig {
	return &ProducerConfig{
		Brokers:          brokers,
		Topic:            topic,
		RetryMax:         3,
		TimeoutMs:        10000,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
	}
}

type kafkaProducer struct {
	producer sarama.SyncProducer
	config   *ProducerConfig
}

// NewKafkaProducer creates a Kafka-backed confirmation producer
func NewKafkaProducer(config *ProducerConfig) (Producer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Producer.Return.Successes = true
	saramaConfig.Producer.Return.Errors = true
	saramaConfig.Producer.RequiredAcks = config.RequiredAcks
	saramaConfig.Producer.Compression = config.CompressionType
	saramaConfig.Producer.Retry.Max = config.RetryMax
	saramaConfig.Producer.Timeout = time.Duration(config.TimeoutMs) * time.Millisecond
	saramaConfig.Producer.Idempotent = config.IdempotentWrites
	if config.IdempotentWrites {
		saramaConfig.Net.MaxOpenRequests = 1
	}

	// Hash partitioner keeps one recipient on one partition
	saramaConfig.Producer.Partitioner = sarama.NewHashPartitioner

	producer, err := sarama.NewSyncProducer(config.Brokers, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	log.Printf("Kafka confirmation producer created")
	return &kafkaProducer{producer: producer, config: config}, nil
}

func (p *kafkaProducer) PublishConfirmation(ctx context.Context, confirmation *OrderConfirmation) error {
	messageBytes, err := confirmation.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal confirmation: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.config.Topic,
		Key:       sarama.StringEncoder(confirmation.PartitionKey()),
		Value:     sarama.ByteEncoder(messageBytes),
		Timestamp: confirmation.CreatedAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send confirmation to Kafka: %w", err)
	}

	log.Printf("Confirmation queued - Topic: %s, Partition: %d, Offset: %d, Order: %s",
		p.config.Topic, partition, offset, confirmation.OrderNumber)
	return nil
}

func (p *kafkaProducer) Close() error {
	return p.producer.Close()
}

// logProducer stands in when Kafka is disabled. Confirmations are logged
// and dropped; the sale itself is already durable.
type logProducer struct{}

func NewLogProducer() Producer {
	return &logProducer{}
}

func (p *logProducer) PublishConfirmation(ctx context.Context, confirmation *OrderConfirmation) error {
	log.Printf("Confirmation (kafka disabled) - Order: %s, Recipient: %s",
		confirmation.OrderNumber, confirmation.RecipientEmail)
	return nil
}

func (p *logProducer) Close() error {
	return nil
}

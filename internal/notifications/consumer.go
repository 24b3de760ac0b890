package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Consumer drains the confirmation topic and hands each message to the
// email service.
type Consumer interface {
	Run(ctx context.Context) error
	Close() error
}

type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topics           []string
	SessionTimeoutMs int
	HeartbeatMs      int
	OffsetOldest     bool
	MaxRetries       int
	RetryBackoff     time.Duration
}

func DefaultConsumerConfig(brokers []string, topic string) *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          brokers,
		GroupID:          "ticketly-confirmation-workers",
		Topics:           []string{topic},
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		OffsetOldest:     false,
		MaxRetries:       3,
		RetryBackoff:     time.Second,
	}
}

type kafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	emailService  EmailService
}

func NewKafkaConsumer(config *ConsumerConfig, emailService EmailService) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &kafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		emailService:  emailService,
	}, nil
}

// Run blocks consuming confirmation messages until ctx is cancelled.
func (c *kafkaConsumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.consumerGroup.Errors() {
			log.Printf("Consumer group error: %v", err)
		}
	}()

	handler := &confirmationHandler{consumer: c}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := c.consumerGroup.Consume(ctx, c.config.Topics, handler); err != nil {
				log.Printf("Error consuming confirmation messages: %v", err)
				time.Sleep(time.Second)
			}
		}
	}
}

func (c *kafkaConsumer) Close() error {
	return c.consumerGroup.Close()
}

type confirmationHandler struct {
	consumer *kafkaConsumer
}

func (h *confirmationHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Printf("Confirmation consumer session started")
	return nil
}

func (h *confirmationHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Printf("Confirmation consumer session ended")
	return nil
}

func (h *confirmationHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message := <-claim.Messages():
			if message == nil {
				return nil
			}
			if err := h.processMessage(session.Context(), message); err != nil {
				log.Printf("Error processing confirmation: %v", err)
			}
			session.MarkMessage(message, "")

		case <-session.Context().Done():
			return nil
		}
	}
}

func (h *confirmationHandler) processMessage(ctx context.Context, message *sarama.ConsumerMessage) error {
	var confirmation OrderConfirmation
	if err := json.Unmarshal(message.Value, &confirmation); err != nil {
		return fmt.Errorf("failed to unmarshal confirmation: %w", err)
	}

	return h.sendWithRetry(ctx, &confirmation)
}

func (h *confirmationHandler) sendWithRetry(ctx context.Context, confirmation *OrderConfirmation) error {
	maxRetries := h.consumer.config.MaxRetries
	backoff := h.consumer.config.RetryBackoff

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := h.consumer.emailService.SendConfirmation(ctx, confirmation)
		if err == nil {
			return nil
		}

		if attempt == maxRetries {
			return fmt.Errorf("failed to send confirmation after %d attempts: %w", maxRetries, err)
		}

		// Exponential backoff
		delay := backoff * time.Duration(1<<attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

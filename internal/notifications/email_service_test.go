package notifications

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"ticketly/internal/shared/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validEmailConfig() config.EmailConfig {
	return config.EmailConfig{
		SMTPHost:  "smtp.example.com",
		SMTPPort:  587,
		FromEmail: "tickets@example.com",
	}
}

func sampleConfirmation() *OrderConfirmation {
	return &OrderConfirmation{
		OrderID:        "11111111-1111-1111-1111-111111111111",
		OrderNumber:    "TKT-20260825-ABCDEF",
		EventID:        "22222222-2222-2222-2222-222222222222",
		CustomerName:   "Ada Lovelace",
		RecipientEmail: "ada@example.com",
		Tickets: []TicketInfo{
			{SeatID: "A-R1-S1", TicketCode: "TIX-AAAA111111", Price: 50.00},
			{SeatID: "A-R1-S2", TicketCode: "TIX-BBBB222222", Price: 50.00},
		},
		Total:     113.00,
		Currency:  "USD",
		CreatedAt: time.Now().UTC(),
	}
}

func TestNewSMTPEmailService_ValidatesConfig(t *testing.T) {
	_, err := NewSMTPEmailService(validEmailConfig())
	require.NoError(t, err)

	cfg := validEmailConfig()
	cfg.SMTPHost = ""
	_, err = NewSMTPEmailService(cfg)
	assert.Error(t, err)

	cfg = validEmailConfig()
	cfg.SMTPPort = 0
	_, err = NewSMTPEmailService(cfg)
	assert.Error(t, err)

	cfg = validEmailConfig()
	cfg.FromEmail = ""
	_, err = NewSMTPEmailService(cfg)
	assert.Error(t, err)
}

func TestConfirmationTemplate_RendersOrderDetails(t *testing.T) {
	svc, err := NewSMTPEmailService(validEmailConfig())
	require.NoError(t, err)

	var body bytes.Buffer
	confirmation := sampleConfirmation()
	require.NoError(t, svc.template.Execute(&body, confirmation))

	html := body.String()
	assert.Contains(t, html, "Ada Lovelace")
	assert.Contains(t, html, "TKT-20260825-ABCDEF")
	assert.Contains(t, html, "A-R1-S1")
	assert.Contains(t, html, "TIX-AAAA111111")
	assert.Contains(t, html, "113.00 USD")
}

func TestBuildMessage_HasMIMEHeaders(t *testing.T) {
	svc, err := NewSMTPEmailService(validEmailConfig())
	require.NoError(t, err)

	msg := string(svc.buildMessage("ada@example.com", "Your tickets", "<p>hi</p>"))

	assert.True(t, strings.HasPrefix(msg, "From: Ticketly <tickets@example.com>\r\n"))
	assert.Contains(t, msg, "To: ada@example.com\r\n")
	assert.Contains(t, msg, "Subject: Your tickets\r\n")
	assert.Contains(t, msg, "Content-Type: text/html; charset=\"UTF-8\"\r\n")
	assert.True(t, strings.HasSuffix(msg, "\r\n<p>hi</p>"))
}

func TestOrderConfirmation_PartitionKey(t *testing.T) {
	confirmation := sampleConfirmation()
	assert.Equal(t, "ada@example.com", confirmation.PartitionKey())

	data, err := confirmation.ToJSON()
	require.NoError(t, err)
	assert.Contains(t, string(data), `"order_number":"TKT-20260825-ABCDEF"`)
}

package notifications

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log"
	"net/smtp"
	"strings"

	"ticketly/internal/shared/config"
)

// EmailService delivers order confirmation emails.
type EmailService interface {
	SendConfirmation(ctx context.Context, confirmation *OrderConfirmation) error
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	cfg      config.EmailConfig
	template *template.Template
}

const confirmationTemplate = `
<html>
<body style="font-family: Arial, sans-serif; color: #222;">
  <h2>Your tickets are confirmed</h2>
  <p>Hi {{.CustomerName}},</p>
  <p>Order <strong>{{.OrderNumber}}</strong> is paid and your seats are locked in.</p>
  <table cellpadding="6" style="border-collapse: collapse;">
    <tr><th align="left">Seat</th><th align="left">Ticket Code</th><th align="right">Price</th></tr>
    {{range .Tickets}}
    <tr><td>{{.SeatID}}</td><td>{{.TicketCode}}</td><td align="right">{{printf "%.2f" .Price}}</td></tr>
    {{end}}
  </table>
  <p><strong>Total: {{printf "%.2f" .Total}} {{.Currency}}</strong></p>
  <p>See you at the event!</p>
</body>
</html>`

// NewSMTPEmailService creates a new SMTP email service
func NewSMTPEmailService(cfg config.EmailConfig) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(cfg); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}

	tmpl, err := template.New("confirmation").Parse(confirmationTemplate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse confirmation template: %w", err)
	}

	return &SMTPEmailService{cfg: cfg, template: tmpl}, nil
}

func validateSMTPConfig(cfg config.EmailConfig) error {
	if cfg.SMTPHost == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if cfg.SMTPPort <= 0 || cfg.SMTPPort > 65535 {
		return fmt.Errorf("SMTP port must be between 1 and 65535")
	}
	if cfg.FromEmail == "" {
		return fmt.Errorf("from email is required")
	}
	return nil
}

func (s *SMTPEmailService) SendConfirmation(ctx context.Context, confirmation *OrderConfirmation) error {
	var body bytes.Buffer
	if err := s.template.Execute(&body, confirmation); err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	subject := fmt.Sprintf("Your tickets for order %s", confirmation.OrderNumber)
	message := s.buildMessage(confirmation.RecipientEmail, subject, body.String())

	var auth smtp.Auth
	if s.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	if err := smtp.SendMail(addr, auth, s.cfg.FromEmail, []string{confirmation.RecipientEmail}, message); err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}

	log.Printf("Confirmation email sent to %s for order %s", confirmation.RecipientEmail, confirmation.OrderNumber)
	return nil
}

func (s *SMTPEmailService) buildMessage(to, subject, htmlBody string) []byte {
	var msg strings.Builder
	msg.WriteString(fmt.Sprintf("From: Ticketly <%s>\r\n", s.cfg.FromEmail))
	msg.WriteString(fmt.Sprintf("To: %s\r\n", to))
	msg.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(htmlBody)
	return []byte(msg.String())
}

// logEmailService logs instead of sending; used when SMTP is unconfigured.
type logEmailService struct{}

func NewLogEmailService() EmailService {
	return &logEmailService{}
}

func (s *logEmailService) SendConfirmation(ctx context.Context, confirmation *OrderConfirmation) error {
	log.Printf("Confirmation email (smtp disabled) - Order: %s, Recipient: %s",
		confirmation.OrderNumber, confirmation.RecipientEmail)
	return nil
}

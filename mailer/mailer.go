package mailer

import (
	"fmt"
	"log"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/lojak57/baseform-api/models"
)

// Mailer sends transactional mail. Order confirmation is best-effort: a
// failed send is logged, never surfaced to the shopper.
type Mailer interface {
	SendOrderConfirmation(order *models.Order) error
}

// SendGridMailer sends through the SendGrid API.
type SendGridMailer struct {
	apiKey   string
	from     string
	fromName string
}

func NewSendGridMailer() *SendGridMailer {
	return &SendGridMailer{
		apiKey:   os.Getenv("SENDGRID_API_KEY"),
		from:     os.Getenv("MAIL_FROM"),
		fromName: "BaseForm",
	}
}

func (m *SendGridMailer) SendOrderConfirmation(order *models.Order) error {
	if m.apiKey == "" || m.from == "" {
		return fmt.Errorf("sendgrid not configured")
	}

	body := fmt.Sprintf("Thanks for your order, %s!\n\nOrder %s\n\n", order.CustomerName, order.OrderRef)
	for _, it := range order.Items {
		body += fmt.Sprintf("  %s (%s) × %d — $%.2f\n", it.Name, it.FabricCode, it.Quantity, it.Price*float64(it.Quantity))
	}
	body += fmt.Sprintf("\nTotal: $%.2f\n", order.TotalAmount)

	msg := mail.NewSingleEmail(
		mail.NewEmail(m.fromName, m.from),
		"Your BaseForm order "+order.OrderRef,
		mail.NewEmail(order.CustomerName, order.CustomerEmail),
		body,
		fmt.Sprintf("<pre>%s</pre>", body),
	)

	resp, err := sendgrid.NewSendClient(m.apiKey).Send(msg)
	if err != nil {
		return fmt.Errorf("sendgrid send error: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	log.Printf("✅ Confirmation mail sent for order %s", order.OrderRef)
	return nil
}

package services

import (
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/rindra/farm-market-api/internal/models"
)

// EmailService sends transactional mail through SendGrid. With no API key
// configured it stays disabled and checkout proceeds without mail.
type EmailService struct {
	client *sendgrid.Client
	sender string
}

func NewEmailService(apiKey, sender string) *EmailService {
	es := &EmailService{sender: sender}
	if apiKey != "" {
		es.client = sendgrid.NewSendClient(apiKey)
	}
	return es
}

func (es *EmailService) Enabled() bool {
	return es.client != nil
}

// SendOrderConfirmation mails the buyer a summary of their order.
func (es *EmailService) SendOrderConfirmation(user models.User, order models.Order, total float64) error {
	if !es.Enabled() {
		return nil
	}

	from := mail.NewEmail("Farm Market", es.sender)
	to := mail.NewEmail(fmt.Sprintf("%s %s", user.First, user.Last), user.Email)
	subject := "Order Confirmation"
	html := fmt.Sprintf(
		"<strong>Dear %s,</strong><br><br>Thank you for your purchase! Your order (ID: %s) has been placed successfully and will ship to <strong>%s</strong>.<br><br>Total Amount: <strong>$%.2f</strong><br><br>Thank you for shopping with us!",
		user.First, order.ID, order.ShipAddress, total,
	)
	plain := fmt.Sprintf("Dear %s, your order %s has been placed. Total: $%.2f", user.First, order.ID, total)

	message := mail.NewSingleEmail(from, subject, to, plain, html)
	if _, err := es.client.Send(message); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	return nil
}

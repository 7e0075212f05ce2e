// utils/email.go
package utils

import (
	"fmt"
	"log"
	"os"

	"github.com/keighl/postmark"

	"github.com/aarthurcreis/hungryhub-proto/models"
)

// EmailService handles sending emails using Postmark. When no API token is
// configured the service is disabled and sends become no-ops, so local
// runs work without a Postmark account.
type EmailService struct {
	client *postmark.Client
}

// NewEmailService initializes and returns a new EmailService instance
func NewEmailService() *EmailService {
	apiToken := os.Getenv("POSTMARK_API_TOKEN")
	if apiToken == "" {
		log.Println("POSTMARK_API_TOKEN not set. Email sending disabled.")
		return &EmailService{}
	}
	return &EmailService{
		client: postmark.NewClient(apiToken, ""),
	}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(toEmail, subject, htmlContent string) error {
	if es.client == nil {
		return nil
	}
	_, err := es.client.SendEmail(postmark.Email{
		From:     os.Getenv("EMAIL_SENDER"),
		To:       toEmail,
		Subject:  subject,
		HtmlBody: htmlContent,
		TextBody: htmlContent,
	})

	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail sends an order confirmation email to the customer
func (es *EmailService) SendOrderConfirmationEmail(toEmail string, order models.Order) error {
	subject := "Pedido Confirmado - HungryHub"
	htmlContent := fmt.Sprintf(
		"<strong>Obrigado pelo seu pedido!</strong><br><br>Seu pedido %s foi recebido e está sendo preparado.<br><br>Total: <strong>R$ %.2f</strong><br>Endereço de entrega: %s<br><br>Acompanhe a entrega pelo aplicativo.",
		order.OrderNumber,
		order.Total,
		order.Address,
	)

	return es.SendEmail(toEmail, subject, htmlContent)
}

// utils/email.go
package utils

import (
	"context"
	"fmt"
	"log/slog"

	"aruth-api/models"

	"github.com/keighl/postmark"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
)

// Mailer delivers a single email
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// PostmarkMailer sends through the Postmark API
type PostmarkMailer struct {
	client *postmark.Client
	from   string
}

// NewPostmarkMailer initializes a Postmark client for the server token
func NewPostmarkMailer(serverToken, from string) *PostmarkMailer {
	return &PostmarkMailer{client: postmark.NewClient(serverToken, ""), from: from}
}

func (m *PostmarkMailer) Send(_ context.Context, to, subject, html string) error {
	_, err := m.client.SendEmail(postmark.Email{
		From:     m.from,
		To:       to,
		Subject:  subject,
		HtmlBody: html,
		TextBody: html,
	})
	if err != nil {
		return fmt.Errorf("postmark: %w", err)
	}
	return nil
}

// SendgridMailer sends through the SendGrid v3 API
type SendgridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

// NewSendgridMailer initializes a SendGrid client for the API key
func NewSendgridMailer(apiKey, from string) *SendgridMailer {
	return &SendgridMailer{client: sendgrid.NewSendClient(apiKey), from: mail.NewEmail("Aruth", from)}
}

func (m *SendgridMailer) Send(_ context.Context, to, subject, html string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), html, html)
	resp, err := m.client.Send(message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, resp.Body)
	}
	return nil
}

// LogMailer only logs the emails it is asked to send
type LogMailer struct {
	Logger *slog.Logger
}

func (m LogMailer) Send(_ context.Context, to, subject, _ string) error {
	log := m.Logger
	if log == nil {
		log = slog.Default()
	}
	log.Info("email not sent, log mail driver", "to", to, "subject", subject)
	return nil
}

// EmailService renders the order notifications and hands them to a Mailer
type EmailService struct {
	mailer Mailer
}

// NewEmailService returns an EmailService delivering through mailer
func NewEmailService(mailer Mailer) *EmailService {
	return &EmailService{mailer: mailer}
}

// SendEmail sends a basic email to the specified recipient
func (es *EmailService) SendEmail(ctx context.Context, toEmail, subject, htmlContent string) error {
	if err := es.mailer.Send(ctx, toEmail, subject, htmlContent); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// SendOrderConfirmationEmail tells the customer the order was placed
func (es *EmailService) SendOrderConfirmationEmail(ctx context.Context, order models.Order) error {
	subject := fmt.Sprintf("Order %s confirmed", order.OrderNum)
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>Thank you for your purchase! Your order <strong>%s</strong> (%d x %s) has been placed successfully.<br><br>Total Amount: <strong>$%.2f</strong><br><br>Thank you for shopping with us!",
		order.OrderNum,
		order.ProductQuantity,
		order.ProductName,
		order.Total,
	)
	return es.SendEmail(ctx, order.Email, subject, htmlContent)
}

// SendOrderStatusEmail tells the customer an admin changed the order status
func (es *EmailService) SendOrderStatusEmail(ctx context.Context, order models.Order) error {
	subject := fmt.Sprintf("Order %s is %s", order.OrderNum, order.Status)
	htmlContent := fmt.Sprintf(
		"<strong>Dear Customer,</strong><br><br>The status of your order <strong>%s</strong> has been updated to '<strong>%s</strong>'.<br><br>Thank you for shopping with us!",
		order.OrderNum,
		order.Status,
	)
	return es.SendEmail(ctx, order.Email, subject, htmlContent)
}

package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/resend/resend-go/v2"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
	isDev     bool
	clientURL string
	appName   string
}

func NewEmailService(apiKey, fromEmail, clientURL, appName string, isDev bool) *EmailService {
	var client *resend.Client
	if apiKey != "" && !isDev {
		client = resend.NewClient(apiKey)
	}

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
		isDev:     isDev,
		clientURL: clientURL,
		appName:   appName,
	}
}

func (s *EmailService) SendVerificationEmail(email, name, code string) error {
	subject, body := verificationEmailTemplate(name, code, s.appName)
	return s.send("verification", email, subject, body)
}

func (s *EmailService) SendWelcomeEmail(email, name string) error {
	subject, body := welcomeEmailTemplate(name, s.clientURL, s.appName)
	return s.send("welcome", email, subject, body)
}

func (s *EmailService) SendPasswordResetEmail(email, name, token string) error {
	resetURL := fmt.Sprintf("%s/reset-password/%s", s.clientURL, token)
	subject, body := passwordResetEmailTemplate(name, resetURL, s.appName)
	return s.send("password_reset", email, subject, body)
}

func (s *EmailService) SendPasswordChangedEmail(email, name string) error {
	subject, body := passwordChangedEmailTemplate(name, s.appName)
	return s.send("password_changed", email, subject, body)
}

func (s *EmailService) send(emailType, to, subject, body string) error {
	if s.isDev {
		slog.Info("email sent (dev mode)", "type", emailType, "to", to, "subject", subject, "body", body)
		return nil
	}

	if s.client == nil {
		return fmt.Errorf("email service not configured (missing RESEND_API_KEY)")
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{to},
		Subject: subject,
		Text:    body,
	}

	_, err := s.client.Emails.SendWithContext(context.Background(), params)
	if err == nil {
		slog.Info("email sent", "type", emailType, "to", to)
	}
	return err
}

// Package email delivers the transactional signup and cancellation
// messages over SMTP.
package email

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wneessen/go-mail"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) SendWelcome(ctx context.Context, email, name string) error {
	subject := fmt.Sprintf("Thanks for joining in, %s!", name)
	body := fmt.Sprintf("Welcome to the app, %s. Let me know how you get along with the app.", name)
	return s.send(ctx, email, subject, body)
}

func (s *SMTPSender) SendCancellation(ctx context.Context, email, name string) error {
	subject := fmt.Sprintf("Sorry for letting you down, %s!", name)
	body := fmt.Sprintf("We're sorry to see you leave, %s. Join us again whenever you want!", name)
	return s.send(ctx, email, subject, body)
}

func (s *SMTPSender) send(ctx context.Context, to, subject, body string) error {
	msg := mail.NewMsg()
	if err := msg.From(s.from); err != nil {
		return fmt.Errorf("invalid from address: %w", err)
	}
	if err := msg.To(to); err != nil {
		return fmt.Errorf("invalid recipient address: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextPlain, body)

	if err := s.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

// NopSender is used when SMTP is not configured; it only logs what would
// have been sent.
type NopSender struct {
	Log *slog.Logger
}

func (s *NopSender) SendWelcome(ctx context.Context, email, name string) error {
	s.Log.Info("email sending disabled, skipping welcome email", "email", email)
	return nil
}

func (s *NopSender) SendCancellation(ctx context.Context, email, name string) error {
	s.Log.Info("email sending disabled, skipping cancellation email", "email", email)
	return nil
}

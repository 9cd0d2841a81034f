package notify

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/spec-kit/trailer-admin/internal/config"
)

// Email is an outbound HTML message.
type Email struct {
	To      []string
	Subject string
	HTML    string
}

// Mailer delivers email.
type Mailer interface {
	Send(ctx context.Context, email Email) error
}

var (
	// ErrNoRecipients is returned when an email has nobody to go to.
	ErrNoRecipients = errors.New("email has no recipients")
	// ErrNoChannel is returned when a notification has no delivering channel enabled.
	ErrNoChannel = errors.New("no notification channel enabled")
)

// SMTPMailer sends through an SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPMailer builds a mailer for the configured relay.
func NewSMTPMailer(cfg config.SMTPConfig) *SMTPMailer {
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipients
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email.To...)
	msg.SetHeader("Subject", email.Subject)
	msg.SetBody("text/html", email.HTML)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send email %q: %w", email.Subject, err)
	}
	return nil
}

// LogMailer only logs messages. Used when no SMTP relay is configured.
type LogMailer struct {
	logger *zap.Logger
}

// NewLogMailer constructs a LogMailer.
func NewLogMailer(logger *zap.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	if len(email.To) == 0 {
		return ErrNoRecipients
	}
	m.logger.Info("email delivery disabled; dropping message",
		zap.Strings("to", email.To),
		zap.String("subject", email.Subject),
	)
	return nil
}

// NewMailer picks the SMTP mailer when a relay is configured.
func NewMailer(cfg config.SMTPConfig, logger *zap.Logger) Mailer {
	if cfg.Enabled() {
		return NewSMTPMailer(cfg)
	}
	return NewLogMailer(logger)
}

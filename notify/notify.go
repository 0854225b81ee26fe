// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/smtp"
	"time"

	"github.com/jordan-wright/email"

	"github.com/danielhkuo/vault/cliparse"
)

// Notifier tells account owners about changes to their account
type Notifier interface {
	PasswordChanged(ctx context.Context, to, username string) error
}

// Nop drops every notification. Used when no SMTP relay is configured.
type Nop struct{}

func (Nop) PasswordChanged(ctx context.Context, to, username string) error {
	return nil
}

type sendFunc func(e *email.Email, addr string, a smtp.Auth) error

// SMTPNotifier sends plain-text mail through an SMTP relay
type SMTPNotifier struct {
	cfg  cliparse.Config
	send sendFunc
	now  func() time.Time
}

func NewSMTPNotifier(cfg cliparse.Config) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:  cfg,
		send: func(e *email.Email, addr string, a smtp.Auth) error { return e.Send(addr, a) },
		now:  time.Now,
	}
}

// New picks the SMTP notifier when a relay is configured and Nop otherwise
func New(cfg cliparse.Config) Notifier {
	if cfg.NotificationsEnabled() {
		return NewSMTPNotifier(cfg)
	}
	return Nop{}
}

// PasswordChanged mails the owner after a successful password reset
func (n *SMTPNotifier) PasswordChanged(ctx context.Context, to, username string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = n.cfg.SMTPFrom
	e.To = []string{to}
	e.Subject = "Your Vault password was changed"

	body := fmt.Sprintf("Dear %s,\n\n", username)
	body += fmt.Sprintf(
		"The password for your account was reset on %s.\n"+
			"If you did not do this, reset it again right away and check your account details.\n",
		n.now().UTC().Format("2006-01-02 15:04:05 MST"),
	)
	body += "\nBest regards,\nVault"
	e.Text = []byte(body)

	addr := fmt.Sprintf("%s:%s", n.cfg.SMTPHost, n.cfg.SMTPPort)
	var auth smtp.Auth
	if n.cfg.SMTPUsername != "" {
		auth = smtp.PlainAuth("", n.cfg.SMTPUsername, n.cfg.SMTPPassword, n.cfg.SMTPHost)
	}

	if err := n.send(e, addr, auth); err != nil {
		return fmt.Errorf("failed to send password notice: %w", err)
	}

	slog.Info("email sent", "to", to, "subject", e.Subject)
	return nil
}

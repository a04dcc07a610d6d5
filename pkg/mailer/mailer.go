// Package mailer sends transactional email over SMTP. Sending is best effort
// at the call sites; a store registration never fails because the welcome
// email could not go out.
package mailer

import (
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/emilianovazquez/pedilo-backend/pkg/config"
)

// Sender delivers a single message.
type Sender interface {
	Send(to string, subject string, htmlBody string) error
}

// Mailer sends mail through a configured SMTP relay.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// New builds a Mailer from SMTP configuration. Returns nil when mail is not
// configured so callers can skip sending.
func New(cfg config.MailConfig) *Mailer {
	if !cfg.Enabled() {
		return nil
	}
	return &Mailer{
		dialer: gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass),
		from:   cfg.DefaultFrom,
	}
}

// Send delivers one HTML message.
func (m *Mailer) Send(to string, subject string, htmlBody string) error {
	if m == nil {
		return fmt.Errorf("mailer is not configured")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	return nil
}

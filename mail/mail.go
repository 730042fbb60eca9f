// Package mail is the outgoing-mail collaborator. The engine only ever
// sees the Sender interface; delivery problems stay on this side of it.
package mail

import (
	"log/slog"

	"gopkg.in/gomail.v2"
)

// Sender delivers one message to a set of mailboxes.
type Sender interface {
	Send(to []string, subject, htmlBody string) error
}

// SMTPSender sends through a plain SMTP account.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) Send(to []string, subject, htmlBody string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)
	return s.dialer.DialAndSend(m)
}

// LogSender logs instead of sending. Used when smtp.dry_run is set, so
// a staging deploy can run full scan passes without mailing anyone.
type LogSender struct{}

func (LogSender) Send(to []string, subject, htmlBody string) error {
	slog.Info("mail suppressed (dry run)", "to", to, "subject", subject)
	return nil
}

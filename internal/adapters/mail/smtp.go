// Package mail delivers the rendered report over SMTP with SSL, the way the
// department's Gmail account expects it.
package mail

import (
	"context"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

type SMTPMailer struct {
	host     string
	port     int
	sender   string
	password string
}

func NewSMTPMailer(host string, port int, sender, password string) *SMTPMailer {
	if host == "" {
		host = "smtp.gmail.com"
	}
	if port == 0 {
		port = 465
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		sender:   sender,
		password: password,
	}
}

func (m *SMTPMailer) Send(ctx context.Context, recipient, subject, body, attachmentPath string) error {
	msg := gomail.NewMsg()
	if err := msg.From(m.sender); err != nil {
		return fmt.Errorf("mail sender %q: %w", m.sender, err)
	}
	if err := msg.To(recipient); err != nil {
		return fmt.Errorf("mail recipient %q: %w", recipient, err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, body)
	if attachmentPath != "" {
		msg.AttachFile(attachmentPath)
	}

	client, err := gomail.NewClient(m.host,
		gomail.WithPort(m.port),
		gomail.WithSSL(),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.sender),
		gomail.WithPassword(m.password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

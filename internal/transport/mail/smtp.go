package mail

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

type SMTPTransport struct {
	host     string
	username string
	from     string
	dialer   *gomail.Dialer
	send     func(d *gomail.Dialer, m *gomail.Message) error
}

// NewSMTPTransport sends through host:port. useTLS selects implicit TLS
// (usually port 465); otherwise STARTTLS is used when the server offers it.
func NewSMTPTransport(host string, port int, username, password, from string, useTLS bool) *SMTPTransport {
	host = strings.TrimSpace(host)
	d := gomail.NewDialer(host, port, username, password)
	if useTLS {
		d.SSL = true
	}
	return &SMTPTransport{
		host:     host,
		username: username,
		from:     strings.TrimSpace(from),
		dialer:   d,
		send: func(d *gomail.Dialer, m *gomail.Message) error {
			return d.DialAndSend(m)
		},
	}
}

func (t *SMTPTransport) Send(ctx context.Context, msg Message) error {
	if t.host == "" || t.from == "" {
		return ErrNotConfigured
	}
	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Text)
	if msg.HTML != "" {
		m.AddAlternative("text/html", msg.HTML)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := t.send(t.dialer, m); err != nil {
		return fmt.Errorf("smtp: %w", err)
	}
	return nil
}

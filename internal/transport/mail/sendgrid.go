package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/hirehub/hirehub-backend/internal/repository/ports"
)

// ErrNotConfigured is returned when credentials or the sender address are
// missing.
var ErrNotConfigured = fmt.Errorf("mail: %w", ports.ErrNotConfigured)

type sendGridClient interface {
	SendWithContext(ctx context.Context, email *sgmail.SGMailV3) (*rest.Response, error)
}

type SendGridTransport struct {
	client    sendGridClient
	fromEmail string
	fromName  string
}

// NewSendGridTransport builds a transport even without credentials; Send then
// fails with ErrNotConfigured.
func NewSendGridTransport(apiKey, fromEmail, fromName string) *SendGridTransport {
	t := &SendGridTransport{
		fromEmail: strings.TrimSpace(fromEmail),
		fromName:  strings.TrimSpace(fromName),
	}
	if key := strings.TrimSpace(apiKey); key != "" {
		t.client = sendgrid.NewSendClient(key)
	}
	return t
}

func (t *SendGridTransport) Send(ctx context.Context, msg Message) error {
	if t.client == nil || t.fromEmail == "" {
		return ErrNotConfigured
	}
	html := msg.HTML
	if html == "" {
		html = msg.Text
	}
	email := sgmail.NewSingleEmail(
		sgmail.NewEmail(t.fromName, t.fromEmail),
		msg.Subject,
		sgmail.NewEmail("", msg.To),
		msg.Text,
		html,
	)
	resp, err := t.client.SendWithContext(ctx, email)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid: status %d: %s", resp.StatusCode, strings.TrimSpace(resp.Body))
	}
	return nil
}

package mail

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/hirehub/hirehub-backend/internal/domain"
)

// Message is one outgoing email. HTML falls back to Text when empty.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

type Transport interface {
	Send(ctx context.Context, msg Message) error
}

var (
	otpHTML = template.Must(template.New("otp").Parse(
		`<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto; padding: 16px;">` +
			`<h2>{{.Heading}}</h2><p>{{.Lead}}</p>` +
			`<div style="font-size: 28px; font-weight: bold; letter-spacing: 3px;">{{.Code}}</div>` +
			`<p>The code is valid for {{.Minutes}} minutes. If you did not request it, ignore this email.</p></div>`))
	replyHTML = template.Must(template.New("reply").Parse(
		`<div style="font-family: Arial, sans-serif; max-width: 520px; margin: 0 auto; padding: 16px;">` +
			`<p>Hi {{.Name}},</p><p style="white-space: pre-line;">{{.Reply}}</p><p>The HireHub team</p></div>`))
)

type otpCopy struct {
	subject string
	heading string
	lead    string
}

var otpCopies = map[domain.OTPPurpose]otpCopy{
	domain.OTPPurposeVerification:  {"Your Verification Code", "Email Verification", "Your verification code is:"},
	domain.OTPPurposeResend:        {"Your New Verification OTP", "Email Verification", "Your new OTP code is:"},
	domain.OTPPurposePasswordReset: {"Password Reset OTP", "Password Reset", "Your OTP for password reset is:"},
}

// Mailer renders the application's emails and hands them to a Transport.
type Mailer struct {
	transport  Transport
	otpMinutes int
}

func NewMailer(transport Transport, otpMinutes int) *Mailer {
	if otpMinutes <= 0 {
		otpMinutes = 10
	}
	return &Mailer{transport: transport, otpMinutes: otpMinutes}
}

func (m *Mailer) SendOTP(ctx context.Context, email, code string, purpose domain.OTPPurpose) error {
	if m == nil {
		return ErrNotConfigured
	}
	c, ok := otpCopies[purpose]
	if !ok {
		c = otpCopies[domain.OTPPurposeVerification]
	}
	var html bytes.Buffer
	err := otpHTML.Execute(&html, map[string]any{
		"Heading": c.heading,
		"Lead":    c.lead,
		"Code":    code,
		"Minutes": m.otpMinutes,
	})
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}
	return m.send(ctx, Message{
		To:      email,
		Subject: c.subject,
		Text:    fmt.Sprintf("%s %s", c.lead, code),
		HTML:    html.String(),
	})
}

func (m *Mailer) SendContactReply(ctx context.Context, email, name, reply string) error {
	if m == nil {
		return ErrNotConfigured
	}
	var html bytes.Buffer
	if err := replyHTML.Execute(&html, map[string]string{"Name": name, "Reply": reply}); err != nil {
		return fmt.Errorf("render reply email: %w", err)
	}
	return m.send(ctx, Message{
		To:      email,
		Subject: "Re: your message to HireHub",
		Text:    fmt.Sprintf("Hi %s,\n\n%s", name, reply),
		HTML:    html.String(),
	})
}

func (m *Mailer) send(ctx context.Context, msg Message) error {
	if m.transport == nil {
		return ErrNotConfigured
	}
	if strings.TrimSpace(msg.To) == "" {
		return fmt.Errorf("mail: empty recipient")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}
	return m.transport.Send(ctx, msg)
}

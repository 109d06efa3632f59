package mailer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"mendizabala/dual/internal/config"
)

var ErrNotConfigured = errors.New("smtp_not_configured")

const otpSubject = "Tu código de acceso a Mendizabala LHII"

var otpTemplate = template.Must(template.New("otp").Parse(`<h2>Acceso a Mendizabala LHII</h2>
<p>Usa este código para iniciar sesión (válido por {{.Minutes}} minutos):</p>
<h1 style="color: #1e5a96; font-size: 32px; letter-spacing: 5px;">{{.Code}}</h1>
<p style="color: #666; font-size: 12px;">Si no solicitaste este código, ignora este email.</p>
`))

// Dialer is satisfied by *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type Mailer struct {
	from   string
	ttl    time.Duration
	dialer Dialer
	logger zerolog.Logger
}

// New returns a mailer for cfg. A blank host yields a mailer whose sends
// fail with ErrNotConfigured.
func New(cfg config.SMTP, ttl time.Duration, logger zerolog.Logger) *Mailer {
	var dialer Dialer
	if cfg.Host != "" {
		d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
		d.SSL = cfg.Port == 465
		dialer = d
	}
	return NewWithDialer(cfg.From, ttl, dialer, logger)
}

func NewWithDialer(from string, ttl time.Duration, dialer Dialer, logger zerolog.Logger) *Mailer {
	return &Mailer{from: from, ttl: ttl, dialer: dialer, logger: logger}
}

func (m *Mailer) SendOTP(ctx context.Context, email, code string) error {
	if m.dialer == nil {
		return ErrNotConfigured
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var body bytes.Buffer
	err := otpTemplate.Execute(&body, struct {
		Code    string
		Minutes int
	}{Code: code, Minutes: int(m.ttl / time.Minute)})
	if err != nil {
		return fmt.Errorf("render otp email: %w", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", otpSubject)
	msg.SetBody("text/html", body.String())

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.logger.Error().Err(err).Str("to", email).Msg("otp email delivery failed")
		return err
	}
	m.logger.Debug().Str("to", email).Msg("otp email sent")
	return nil
}

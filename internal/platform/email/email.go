// Package email is the delivery backend behind the notifications outbox. The
// dispatcher owns retry and backoff, so Send reports a single attempt and
// leaves the message queued on failure.
package email

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"hrms/internal/domain/notifications"
	"hrms/internal/platform/config"
)

const dialTimeout = 10 * time.Second

type noopMailer struct{}

func (noopMailer) Send(context.Context, string, string, string, string) error {
	return nil
}

type smtpMailer struct {
	host   string
	addr   string
	useTLS bool
	auth   smtp.Auth
}

// New returns an SMTP-backed mailer, or a noop one when delivery is disabled
// or no host is configured, so the dispatcher can run unconditionally.
func New(cfg config.Config) notifications.Mailer {
	if !cfg.EmailEnabled || cfg.SMTPHost == "" {
		return noopMailer{}
	}
	m := &smtpMailer{
		host:   cfg.SMTPHost,
		addr:   net.JoinHostPort(cfg.SMTPHost, strconv.Itoa(cfg.SMTPPort)),
		useTLS: cfg.SMTPUseTLS,
	}
	if cfg.SMTPUser != "" {
		m.auth = smtp.PlainAuth("", cfg.SMTPUser, cfg.SMTPPassword, cfg.SMTPHost)
	}
	return m
}

func (m *smtpMailer) Send(ctx context.Context, from, to, subject, body string) error {
	to = strings.TrimSpace(to)
	if to == "" {
		return nil
	}

	client, err := m.connect(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	if err := client.Mail(from); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(message(from, to, subject, body)); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

func (m *smtpMailer) connect(ctx context.Context) (*smtp.Client, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", m.addr)
	if err != nil {
		return nil, err
	}
	client, err := smtp.NewClient(conn, m.host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	if m.useTLS {
		if err := client.StartTLS(&tls.Config{ServerName: m.host}); err != nil {
			client.Close()
			return nil, err
		}
	}
	if m.auth != nil {
		if err := client.Auth(m.auth); err != nil {
			client.Close()
			return nil, err
		}
	}
	return client, nil
}

func message(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

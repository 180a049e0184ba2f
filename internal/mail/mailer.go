package mail

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/magazine-service/internal/config"
)

// Mailer delivers outbound email. Implementations are best-effort: callers
// log failures and move on, they never retry or block on delivery.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// Sandbox relay used when no SMTP host is configured, mirroring the
// development setup this service ships with.
const (
	sandboxHost = "smtp.ethereal.email"
	sandboxPort = "587"
)

// SMTPMailer sends mail over plain SMTP with optional auth.
type SMTPMailer struct {
	host     string
	port     string
	username string
	password string
	from     string
	logger   *zap.Logger
}

// NewSMTPMailer builds a mailer from config, falling back to the sandbox
// relay when no host is set.
func NewSMTPMailer(cfg config.MailConfig, logger *zap.Logger) *SMTPMailer {
	host, port := cfg.Host, cfg.Port
	if host == "" {
		host, port = sandboxHost, sandboxPort
		logger.Info("no SMTP host configured; using sandbox relay", zap.String("host", host))
	}
	return &SMTPMailer{
		host:     host,
		port:     port,
		username: cfg.Username,
		password: cfg.Password,
		from:     cfg.From,
		logger:   logger,
	}
}

// Send delivers a single HTML message.
func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := buildMessage(m.from, to, subject, html)

	var auth smtp.Auth
	if m.username != "" {
		auth = smtp.PlainAuth("", m.username, m.password, m.host)
	}

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}
	m.logger.Debug("email sent", zap.String("to", to), zap.String("subject", subject))
	return nil
}

func buildMessage(from, to, subject, html string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(html)
	return []byte(b.String())
}

// RenderTemplate wraps a title and body in the shared HTML shell.
func RenderTemplate(title, body string) string {
	return fmt.Sprintf(`<!doctype html><html><body style="font-family:system-ui,Arial,sans-serif">
<h2>%s</h2>
<p>%s</p>
</body></html>`, title, body)
}

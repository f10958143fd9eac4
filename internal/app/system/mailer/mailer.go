// Package mailer sends transactional email over SMTP.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"

	"go.uber.org/zap"
)

// Email is one outbound message. TextBody is required; HTMLBody is
// optional and sent as a multipart alternative when present.
type Email struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Mailer delivers email through a configured SMTP relay.
type Mailer struct {
	host     string
	port     int
	user     string
	pass     string
	from     string
	fromName string
	log      *zap.Logger
}

// New constructs a Mailer. With an empty user, authentication is
// skipped (local dev relays like Mailpit).
func New(host string, port int, user, pass, from, fromName string, logger *zap.Logger) *Mailer {
	return &Mailer{
		host:     host,
		port:     port,
		user:     user,
		pass:     pass,
		from:     from,
		fromName: fromName,
		log:      logger,
	}
}

// Send delivers the email synchronously.
func (m *Mailer) Send(e Email) error {
	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	msg := m.buildMessage(e)
	if err := smtp.SendMail(addr, auth, m.from, []string{e.To}, msg); err != nil {
		m.log.Error("smtp send failed",
			zap.String("to", e.To),
			zap.String("subject", e.Subject),
			zap.Error(err))
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func (m *Mailer) buildMessage(e Email) []byte {
	var b strings.Builder

	from := m.from
	if m.fromName != "" {
		from = fmt.Sprintf("%s <%s>", m.fromName, m.from)
	}

	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", e.To)
	fmt.Fprintf(&b, "Subject: %s\r\n", e.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")

	if e.HTMLBody == "" {
		b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
		b.WriteString(e.TextBody)
		return []byte(b.String())
	}

	const boundary = "lectern-mail-boundary"
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n\r\n", boundary)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.TextBody)
	fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, e.HTMLBody)
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/smtp"

	"github.com/rs/zerolog/log"
)

// SMTPNotifier implements domain.Notifier over plain SMTP. When the
// host is unconfigured, Send logs a warning and reports success so the
// calling workflow keeps its best-effort semantics.
type SMTPNotifier struct {
	Host   string
	Port   string
	User   string
	Pass   string
	Sender string
}

func NewSMTP(host, port, user, pass, sender string) *SMTPNotifier {
	return &SMTPNotifier{Host: host, Port: port, User: user, Pass: pass, Sender: sender}
}

func (n *SMTPNotifier) Send(_ context.Context, recipient, subject, body string) error {
	if n.Host == "" || n.User == "" || n.Pass == "" {
		log.Warn().Str("to", recipient).Msg("SMTP not configured, skipping notification")
		return nil
	}
	var buf bytes.Buffer
	_, _ = fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	_, _ = fmt.Fprintf(&buf, "From: %s\r\n", n.Sender)
	_, _ = fmt.Fprintf(&buf, "To: %s\r\n", recipient)
	buf.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n")
	buf.WriteString(body)
	buf.WriteString("\r\n")
	addr := n.Host + ":" + n.Port
	auth := smtp.PlainAuth("", n.User, n.Pass, n.Host)
	if err := smtp.SendMail(addr, auth, n.Sender, []string{recipient}, buf.Bytes()); err != nil {
		log.Error().Err(err).Str("to", recipient).Msg("email send")
		return err
	}
	return nil
}

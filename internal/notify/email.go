package notify

import (
	"context"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Email sends messages over SMTP with PLAIN auth.
type Email struct {
	Host        string
	Port        int
	Account     string // sender and SMTP user
	AppPassword string
	To          string
	Send        SendFunc // defaults to smtp.SendMail
}

// Notify sends the message as a plain-text email.
func (e *Email) Notify(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	to := e.To
	if to == "" {
		to = e.Account
	}

	send := e.Send
	if send == nil {
		send = smtp.SendMail
	}
	addr := net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
	auth := smtp.PlainAuth("", e.Account, e.AppPassword, e.Host)

	if err := send(addr, auth, e.Account, []string{to}, FormatEmail(e.Account, to, msg)); err != nil {
		return fmt.Errorf("sending email: %w", err)
	}
	return nil
}

// FormatEmail builds an RFC 5322 message with CRLF line endings.
func FormatEmail(from, to string, msg Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", msg.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(msg.Body, "\n", "\r\n"))
	return []byte(b.String())
}

// Package mailer sends plain-text notification mail over SMTP.  When the
// SMTP settings are incomplete the mailer silently does nothing, so callers
// never need to guard sends.
package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer holds SMTP settings and defaults.
type Mailer struct {
	Host      string
	Port      int
	User      string
	Password  string
	From      string
	DefaultTo string
}

func New(host string, port int, user, password, from, defaultTo string) *Mailer {
	return &Mailer{Host: host, Port: port, User: user, Password: password, From: from, DefaultTo: defaultTo}
}

// configured reports whether enough settings are present to attempt a send.
func (m *Mailer) configured() bool {
	return m != nil && m.Host != "" && m.User != "" && m.Password != ""
}

// Send delivers one message.  An empty to falls back to the default
// recipient.  Unconfigured SMTP is not an error.
func (m *Mailer) Send(subject, body, to string) error {
	if !m.configured() {
		return nil
	}
	if to == "" {
		to = m.DefaultTo
	}
	if to == "" {
		return nil
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", m.From)
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n")
	msg.WriteString(body)
	msg.WriteString("\r\n")

	addr := fmt.Sprintf("%s:%d", m.Host, m.Port)
	auth := smtp.PlainAuth("", m.User, m.Password, m.Host)
	// smtp.SendMail negotiates STARTTLS when the server offers it.
	return smtp.SendMail(addr, auth, m.From, []string{to}, []byte(msg.String()))
}

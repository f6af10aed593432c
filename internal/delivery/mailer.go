package delivery

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"
)

// Mailer emails a copy of each accepted plan to the pilots on watch.
type Mailer struct {
	Addr string // SMTP host:port
	From string
	To   []string

	// send is a hook for tests; nil means smtp.SendMail.
	send func(addr, from string, to []string, msg []byte) error
}

func (m *Mailer) Name() string { return "mailer" }

// Deliver sends the document as a plain-text message.
func (m *Mailer) Deliver(_ context.Context, glider, doc string) error {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", m.From)
	fmt.Fprintf(&b, "To: %s\r\n", strings.Join(m.To, ","))
	fmt.Fprintf(&b, "Subject: Goto file for %s\r\n", glider)
	b.WriteString("\r\n")
	b.WriteString(doc)

	send := m.send
	if send == nil {
		send = func(addr, from string, to []string, msg []byte) error {
			return smtp.SendMail(addr, nil, from, to, msg)
		}
	}
	if err := send(m.Addr, m.From, m.To, []byte(b.String())); err != nil {
		return fmt.Errorf("mailing goto file for %s: %w", glider, err)
	}
	return nil
}

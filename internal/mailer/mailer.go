package mailer

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	gomail "gopkg.in/gomail.v2"
)

// Message is a fully rendered email ready for delivery.
type Message struct {
	From        string
	To          []string
	Subject     string
	HTMLBody    string
	Attachments []string
}

// Sender delivers a rendered message. Implemented by SMTPMailer in
// production and by fakes in tests.
type Sender interface {
	Send(msg *Message) error
}

// SMTPMailer sends mail through a single SMTP endpoint using the configured
// credentials. Each Send dials a fresh connection.
type SMTPMailer struct {
	Host     string
	Port     int
	Username string
	Password string
	Timeout  time.Duration
	Log      *logrus.Logger
}

func (m *SMTPMailer) Send(msg *Message) error {
	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To...)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/html", msg.HTMLBody)
	for _, path := range msg.Attachments {
		gm.Attach(path)
	}

	dialer := gomail.NewDialer(m.Host, m.Port, m.Username, m.Password)

	timeout := m.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	// gomail has no dial timeout, so the send runs on its own goroutine and
	// we bound the wait here.
	errc := make(chan error, 1)
	go func() {
		errc <- dialer.DialAndSend(gm)
	}()

	select {
	case err := <-errc:
		if err != nil {
			return fmt.Errorf("smtp send to %v: %w", msg.To, err)
		}
		m.Log.WithField("to", msg.To).Debug("smtp send ok")
		return nil
	case <-time.After(timeout):
		return fmt.Errorf("smtp send to %v: timed out after %s", msg.To, timeout)
	}
}

var _ Sender = (*SMTPMailer)(nil)

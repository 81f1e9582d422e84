package mail

import (
	"context"
	"fmt"

	"ketpa-backend/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// Message is a single outgoing email. Text is an optional plain-text
// alternative to HTML.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// NewMailer returns an SMTP mailer, or a logging mailer when no SMTP host is
// configured.
func NewMailer(cfg config.MailConfig, log *logrus.Logger) Mailer {
	if !cfg.Enabled() {
		log.Warn("SMTP_HOST not set, emails will be logged instead of sent")
		return &logMailer{log: log}
	}
	return &smtpMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

type smtpMailer struct {
	dialer *gomail.Dialer
	from   string
}

func (m *smtpMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	if msg.Text != "" {
		gm.SetBody("text/plain", msg.Text)
		gm.AddAlternative("text/html", msg.HTML)
	} else {
		gm.SetBody("text/html", msg.HTML)
	}

	if err := m.dialer.DialAndSend(gm); err != nil {
		return fmt.Errorf("send mail to %s: %w", msg.To, err)
	}
	return nil
}

type logMailer struct {
	log *logrus.Logger
}

func (m *logMailer) Send(_ context.Context, msg Message) error {
	m.log.WithFields(logrus.Fields{
		"to":      msg.To,
		"subject": msg.Subject,
	}).Info("Email not sent, SMTP disabled")
	return nil
}

package mailer

import (
	"context"
	"fmt"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

const mailgunTimeout = 10 * time.Second

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	Domain string
	APIKey string
	Sender string

	client *mg.MailgunImpl
}

func NewMailgun(domain, apiKey, sender string) *Mailgun {
	m := &Mailgun{Domain: domain, APIKey: apiKey, Sender: sender}
	if domain != "" && apiKey != "" {
		m.client = mg.NewMailgun(domain, apiKey)
	}
	return m
}

func (m *Mailgun) Send(ctx context.Context, to, subject, text, html string) error {
	if m.client == nil {
		return fmt.Errorf("mailgun: domain and api key are required")
	}
	msg := m.client.NewMessage(m.Sender, subject, text, to)
	if html != "" {
		msg.SetHtml(html)
	}
	if err := msg.AddTag("account"); err != nil {
		return err
	}

	c, cancel := context.WithTimeout(ctx, mailgunTimeout)
	defer cancel()
	if _, _, err := m.client.Send(c, msg); err != nil {
		return fmt.Errorf("mailgun send to %s: %w", to, err)
	}
	return nil
}

package mailer

import (
	"context"
	"time"

	mg "github.com/mailgun/mailgun-go/v4"
)

// Mailgun delivers messages through the Mailgun HTTP API.
type Mailgun struct {
	client  *mg.MailgunImpl
	Timeout time.Duration
}

func NewMailgun(domain, apiKey string) *Mailgun {
	return &Mailgun{client: mg.NewMailgun(domain, apiKey), Timeout: 10 * time.Second}
}

// Send sends msg via Mailgun. When both parts are set Mailgun builds a
// multipart/alternative body.
func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	if err := checkCharset(msg.Charset); err != nil {
		return err
	}
	message := m.client.NewMessage(msg.From, msg.Subject, msg.Text, msg.To)
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}
	c, cancel := context.WithTimeout(ctx, m.Timeout)
	defer cancel()
	_, _, err := m.client.Send(c, message)
	return err
}

package mailer

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-otp-registration/pkg/helpers"
)

// Message is a rendered email. Text and HTML together form a multipart
// alternative body; either may be empty but not both.
type Message struct {
	From    string
	To      string
	Subject string
	Text    string
	HTML    string
	Charset string
}

// UTF-8 is the only charset the transports deliver. An empty Charset means
// UTF-8.
func checkCharset(charset string) error {
	switch strings.ToLower(strings.ReplaceAll(charset, "-", "")) {
	case "", "utf8":
		return nil
	}
	return errors.New("unsupported charset " + charset)
}

// Transport hands a rendered message to a delivery mechanism.
type Transport interface {
	Send(ctx context.Context, msg Message) error
}

var ErrSendFailed = errors.New("email send failed")

// SendError is the single failure kind surfaced by the dispatcher. It keeps
// the underlying cause as text only so transport error types never leak.
type SendError struct {
	Stage  string // render or transport
	Reason string
}

func (e *SendError) Error() string {
	return "send email (" + e.Stage + "): " + e.Reason
}

func (e *SendError) Is(target error) bool { return target == ErrSendFailed }

func sendFailure(stage string, err error) error {
	return &SendError{Stage: stage, Reason: err.Error()}
}

// Publisher is the subset of helpers.RabbitPublisher the queue transport needs.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// QueueTransport defers delivery to the email worker through RabbitMQ.
type QueueTransport struct {
	Pub Publisher
}

func (q QueueTransport) Send(ctx context.Context, msg Message) error {
	job := JobFromMessage(msg)
	if err := job.Validate(); err != nil {
		return err
	}
	return q.Pub.PublishJSON(ctx, job)
}

// LogTransport is used when sending is disabled or unconfigured: it records that a mail
// would have been sent without its body, which carries the passcode.
type LogTransport struct {
	Logger *logrus.Logger
}

func (l LogTransport) Send(_ context.Context, msg Message) error {
	if l.Logger != nil {
		l.Logger.WithFields(logrus.Fields{
			"to":      helpers.MaskEmail(msg.To),
			"subject": msg.Subject,
		}).Info("mail sending disabled; message dropped")
	}
	return nil
}

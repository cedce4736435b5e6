package mailer

import "errors"

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Content is fully rendered before publishing; the worker only delivers it.
type EmailJob struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Subject string `json:"subject"`
	Text    string `json:"text,omitempty"`
	HTML    string `json:"html,omitempty"`
	Charset string `json:"charset,omitempty"`
}

func JobFromMessage(m Message) EmailJob {
	return EmailJob{To: m.To, From: m.From, Subject: m.Subject, Text: m.Text, HTML: m.HTML, Charset: m.Charset}
}

func (j EmailJob) Message() Message {
	return Message{To: j.To, From: j.From, Subject: j.Subject, Text: j.Text, HTML: j.HTML, Charset: j.Charset}
}

// Validate rejects jobs the worker could never deliver.
func (j EmailJob) Validate() error {
	switch {
	case j.To == "":
		return errors.New("email job: missing recipient")
	case j.From == "":
		return errors.New("email job: missing sender")
	case j.Text == "" && j.HTML == "":
		return errors.New("email job: empty body")
	}
	if err := checkCharset(j.Charset); err != nil {
		return errors.New("email job: " + err.Error())
	}
	return nil
}

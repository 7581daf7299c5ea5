package mailer

import (
	"context"

	"gopkg.in/gomail.v2"
)

// Sender delivers one rendered mail. The mail worker is the only caller.
type Sender interface {
	Send(ctx context.Context, to, subject, body string) error
}

type GomailSender struct {
	from   string
	dialer *gomail.Dialer
}

func NewGomailSender(host string, port int, username, password, from string) *GomailSender {
	return &GomailSender{
		from:   from,
		dialer: gomail.NewDialer(host, port, username, password),
	}
}

func (s *GomailSender) Send(_ context.Context, to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

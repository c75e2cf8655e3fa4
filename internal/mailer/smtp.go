package mailer

import (
	"context"
	"errors"
	"fmt"
	"time"

	gomail "gopkg.in/mail.v2"
)

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SMTPClient struct {
	from   string
	dialer *gomail.Dialer
}

func NewSMTPClient(cfg SMTPConfig) (*SMTPClient, error) {
	if cfg.Host == "" {
		return nil, errors.New("smtp host is required")
	}
	if cfg.From == "" {
		return nil, errors.New("from address is required")
	}

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	d.Timeout = 10 * time.Second
	return &SMTPClient{from: cfg.From, dialer: d}, nil
}

// Send renders the template and delivers it, retrying with a linear backoff.
func (c *SMTPClient) Send(ctx context.Context, templateFile, username, email string, data any) error {
	msg, err := Render(templateFile, data)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", c.from, FromName)
	m.SetAddressHeader("To", email, username)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/plain", msg.Plain)
	m.AddAlternative("text/html", msg.HTML)

	var retryErr error
	for i := 0; i < maxRetires; i++ {
		if retryErr = c.dialer.DialAndSend(m); retryErr == nil {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second * time.Duration(i+1)):
		}
	}

	return fmt.Errorf("failed to send email after %d attempts, error: %v", maxRetires, retryErr)
}

package mailer

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

// Sender delivers one rendered email.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

// LoggingSender writes emails to the log instead of sending them. Used when
// no transport is configured.
type LoggingSender struct {
	Logger *logrus.Logger
}

func (s *LoggingSender) Send(ctx context.Context, to, subject, text, html string) error {
	if s.Logger == nil {
		return nil
	}
	s.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Info("email (logged only)")
	s.Logger.Debug(text)
	return nil
}

// NewSender picks a transport by driver name: "smtp", "mailgun" or "log".
func NewSender(driver string, smtpCfg SMTPConfig, mg *Mailgun, logger *logrus.Logger) (Sender, error) {
	switch strings.ToLower(driver) {
	case "smtp":
		if smtpCfg.Host == "" {
			return nil, fmt.Errorf("smtp driver requires SMTP_HOST")
		}
		return NewSMTP(smtpCfg), nil
	case "mailgun":
		if mg == nil || mg.Domain == "" || mg.APIKey == "" || mg.Sender == "" {
			return nil, fmt.Errorf("mailgun driver requires MAILGUN_DOMAIN, MAILGUN_API_KEY and MAILGUN_SENDER")
		}
		return mg, nil
	case "", "log":
		return &LoggingSender{Logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown mail driver %q", driver)
	}
}

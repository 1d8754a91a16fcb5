package mailer

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bienesraices/pkg/mailer/templates"
)

// Publisher puts a job on a queue (RabbitMQ in production).
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// Dispatcher hands email jobs to the queue when one is configured and
// otherwise renders and sends them in-process.
type Dispatcher struct {
	Pub     Publisher
	Sender  Sender
	Enabled bool
	Logger  *logrus.Logger
}

func NewDispatcher(pub Publisher, sender Sender, enabled bool, logger *logrus.Logger) *Dispatcher {
	return &Dispatcher{Pub: pub, Sender: sender, Enabled: enabled, Logger: logger}
}

func (d *Dispatcher) Dispatch(ctx context.Context, job EmailJob) error {
	if d == nil {
		return errors.New("mail dispatcher not configured")
	}
	if err := job.Validate(); err != nil {
		return err
	}
	if !d.Enabled {
		if d.Logger != nil {
			d.Logger.WithFields(logrus.Fields{"to": job.To, "template": job.Template}).Info("mail sending disabled; job dropped")
		}
		return nil
	}
	if d.Pub != nil {
		if err := d.Pub.PublishJSON(ctx, job); err != nil {
			return fmt.Errorf("enqueue email: %w", err)
		}
		return nil
	}
	if d.Sender == nil {
		return errors.New("no mail sender configured")
	}
	return Deliver(ctx, d.Sender, job)
}

// Deliver renders a job (when it names a template) and sends it.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if err := job.Validate(); err != nil {
		return err
	}
	subject, text, html := job.Subject, job.Text, job.HTML
	if job.Template != "" {
		var err error
		subject, text, html, err = templates.Render(job.Template, job.Data)
		if err != nil {
			return err
		}
	}
	if subject == "" || (text == "" && html == "") {
		return ErrEmptyJob
	}
	return s.Send(ctx, job.To, subject, text, html)
}

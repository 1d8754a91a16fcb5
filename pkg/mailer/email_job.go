package mailer

import "errors"

var (
	ErrNoRecipient = errors.New("email job without recipient")
	ErrEmptyJob    = errors.New("email job needs a template or a subject with text/html")
)

// EmailJob travels through the queue as JSON. A job names a template (with
// its Data) or carries a ready subject and body.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"`
	Data     map[string]any `json:"data,omitempty"`
}

// TemplateJob builds a job rendered from one of the embedded templates.
func TemplateJob(to, template string, data map[string]any) EmailJob {
	return EmailJob{To: to, Template: template, Data: data}
}

// Validate checks the job can be delivered without rendering it.
func (j EmailJob) Validate() error {
	if j.To == "" {
		return ErrNoRecipient
	}
	if j.Template == "" && (j.Subject == "" || (j.Text == "" && j.HTML == "")) {
		return ErrEmptyJob
	}
	return nil
}

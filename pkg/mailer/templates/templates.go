package templates

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	htmpl "html/template"
	"reflect"
	"strings"
	"sync"
	texttpl "text/template"
	"time"
)

//go:embed *.tmpl
var FS embed.FS

// Template names. Each has <name>.subject.tmpl, <name>.text.tmpl and
// <name>.html.tmpl in FS.
const (
	ConfirmAccount = "confirm_account"
	ResetPassword  = "reset_password"
)

var ErrUnknownTemplate = errors.New("unknown email template")

// EmailData is the data every account email template receives.
type EmailData struct {
	Name      string `json:"Name"`
	Email     string `json:"Email"`
	AppName   string `json:"AppName"`
	ActionURL string `json:"ActionURL"`
	Year      int    `json:"Year"`
}

// ToMap converts EmailData to the map carried by EmailJob.Data.
func ToMap(d EmailData) map[string]any {
	b, _ := json.Marshal(d)
	var m map[string]any
	_ = json.Unmarshal(b, &m)
	return m
}

// defaultFn backs {{ .Value | default "Fallback" }}.
func defaultFn(fallback any, value any) any {
	switch x := value.(type) {
	case nil:
		return fallback
	case string:
		if strings.TrimSpace(x) == "" {
			return fallback
		}
		return x
	}
	if rv := reflect.ValueOf(value); !rv.IsValid() || rv.IsZero() {
		return fallback
	}
	return value
}

func funcs() map[string]any {
	return map[string]any{
		"year":    func() int { return time.Now().Year() },
		"upper":   strings.ToUpper,
		"default": defaultFn,
	}
}

type set struct {
	subject *texttpl.Template
	text    *texttpl.Template
	html    *htmpl.Template
}

var (
	loadOnce sync.Once
	sets     map[string]set
	loadErr  error
)

func load() {
	sets = make(map[string]set)
	for _, name := range []string{ConfirmAccount, ResetPassword} {
		var s set
		if s.subject, loadErr = parseText(name + ".subject.tmpl"); loadErr != nil {
			return
		}
		if s.text, loadErr = parseText(name + ".text.tmpl"); loadErr != nil {
			return
		}
		file := name + ".html.tmpl"
		s.html, loadErr = htmpl.New(file).Funcs(htmpl.FuncMap(funcs())).Option("missingkey=zero").ParseFS(FS, file)
		if loadErr != nil {
			loadErr = fmt.Errorf("parse %q: %w", file, loadErr)
			return
		}
		sets[name] = s
	}
}

func parseText(file string) (*texttpl.Template, error) {
	t, err := texttpl.New(file).Funcs(texttpl.FuncMap(funcs())).Option("missingkey=zero").ParseFS(FS, file)
	if err != nil {
		return nil, fmt.Errorf("parse %q: %w", file, err)
	}
	return t, nil
}

// Render produces the subject (trimmed), plain-text and HTML bodies of a
// named template. Templates are parsed once, on first use.
func Render(name string, data any) (subject, text, html string, err error) {
	loadOnce.Do(load)
	if loadErr != nil {
		return "", "", "", loadErr
	}
	s, ok := sets[name]
	if !ok {
		return "", "", "", fmt.Errorf("%w: %q", ErrUnknownTemplate, name)
	}

	var buf bytes.Buffer
	if err = s.subject.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s subject: %w", name, err)
	}
	subject = strings.TrimSpace(buf.String())

	buf.Reset()
	if err = s.text.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s text: %w", name, err)
	}
	text = buf.String()

	buf.Reset()
	if err = s.html.Execute(&buf, data); err != nil {
		return "", "", "", fmt.Errorf("exec %s html: %w", name, err)
	}
	return subject, text, buf.String(), nil
}

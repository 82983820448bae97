package core

import (
	"bytes"
	htmltmpl "html/template"
	"io"
	"io/fs"
	"net/mail"
	"path"
	"strings"
	"sync"
	texttmpl "text/template"

	"github.com/pkg/errors"
)

var (
	templatesMu sync.RWMutex
	templates   = make(map[string]emailTemplate) // by name, without ext
	frontendURL string
)

type (
	// emailTemplate holds the parsed variants of one template; either may be nil.
	emailTemplate struct {
		text *texttmpl.Template
		html *htmltmpl.Template
	}

	EmailMessage struct {
		To      []mail.Address
		Cc      []mail.Address
		Bcc     []mail.Address
		Subject string
		BodyStr string // simple text/plain, non-templated content

		// templated contents
		TemplateName string // without ext
		TemplateData interface{}
		TextContent  string
		HTMLContent  string
	}

	ContextData struct {
		FrontendBaseURL string
		Data            interface{}
	}

	// EmailService is any service that can send emails
	EmailService interface {
		// SendMessages sends messages concurrently
		SendMessages(messages ...*EmailMessage)
	}
)

func lookupTemplate(name string) (emailTemplate, ContextData, bool) {
	templatesMu.RLock()
	defer templatesMu.RUnlock()
	tmpl, ok := templates[name]
	return tmpl, ContextData{FrontendBaseURL: frontendURL}, ok
}

type executor interface {
	Execute(w io.Writer, data interface{}) error
}

func execute(tmpl executor, data ContextData) (string, error) {
	var buff bytes.Buffer
	if err := tmpl.Execute(&buff, data); err != nil {
		return "", err
	}
	return buff.String(), nil
}

// Render fills TextContent and HTMLContent; BodyStr takes precedence over the text template.
func (m *EmailMessage) Render() error {
	if m.BodyStr != "" {
		m.TextContent = m.BodyStr
	}
	if m.TemplateName == "" {
		return nil
	}
	tmpl, data, ok := lookupTemplate(m.TemplateName)
	if !ok {
		return nil
	}
	data.Data = m.TemplateData

	var err error
	if tmpl.text != nil && m.BodyStr == "" {
		if m.TextContent, err = execute(tmpl.text, data); err != nil {
			return errors.Wrap(err, "rendering text")
		}
	}
	if tmpl.html != nil {
		if m.HTMLContent, err = execute(tmpl.html, data); err != nil {
			return errors.Wrap(err, "rendering html")
		}
	}
	return nil
}

func (m *EmailMessage) HasRecipients() bool { return len(m.To) > 0 }
func (m *EmailMessage) HasContent() bool    { return (m.TextContent != "") || (m.HTMLContent != "") }

// ParseEmailTemplates parses the `<name>.txt` and `<name>.gohtml` templates found in `dir` of fsys.
// Files starting with "_" are base layouts included in every template of the same extension.
func ParseEmailTemplates(fsys fs.FS, dir, frontendBaseURL string, strict bool, logger Logger) {
	fps, err := fs.Glob(fsys, path.Join(dir, "*"))
	if err != nil {
		logger.Error("parsing email templates", err)
		return
	}

	parsed := make(map[string]emailTemplate)
	for _, fp := range fps {
		fname := path.Base(fp)
		ext := path.Ext(fname)
		if strings.HasPrefix(fname, "_") {
			continue
		}
		name := strings.TrimSuffix(fname, ext)
		entry := parsed[name]

		var err error
		switch ext {
		case ".txt":
			entry.text, err = texttmpl.ParseFS(fsys, path.Join(dir, "_base.txt"), fp)
			if err == nil && strict {
				entry.text = entry.text.Option("missingkey=error")
			}
		case ".gohtml":
			entry.html, err = htmltmpl.ParseFS(fsys, path.Join(dir, "_base.gohtml"), fp)
			if err == nil && strict {
				entry.html = entry.html.Option("missingkey=error")
			}
		default:
			continue
		}
		if err != nil {
			logger.Error("parsing email template "+fname, err)
			continue
		}
		parsed[name] = entry
	}

	templatesMu.Lock()
	templates = parsed
	frontendURL = frontendBaseURL
	templatesMu.Unlock()
}

// Package emailsvc sends the emails of the application through the configured backend.
package emailsvc

import "github.com/skillbridge/portal/core"

// New returns the email service of the configured backend.
func New(conf *core.Config, logger core.Logger) core.EmailService {
	switch conf.Email.Backend {
	case "sendgrid":
		return NewSendgridService(conf, logger)
	case "smtp":
		return NewSMTPService(conf, logger)
	default:
		return NewConsoleService(conf, logger)
	}
}

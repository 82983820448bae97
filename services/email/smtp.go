package emailsvc

import (
	"net/mail"

	"gopkg.in/gomail.v2"

	"github.com/skillbridge/portal/core"
)

type smtpService struct {
	dialer     *gomail.Dialer
	from       mail.Address
	subjPrefix string
	logger     core.Logger
}

var _ core.EmailService = (*smtpService)(nil)

func NewSMTPService(conf *core.Config, logger core.Logger) core.EmailService {
	ec := conf.Email
	return &smtpService{
		dialer:     gomail.NewDialer(ec.SMTPHost, ec.SMTPPort, ec.SMTPUser, ec.SMTPPassword),
		from:       ec.DefaultFromEmail,
		subjPrefix: "[" + conf.AppName + "] ",
		logger:     logger,
	}
}

func (svc smtpService) SendMessages(messages ...*core.EmailMessage) {
	go func() {
		prepared := make([]*gomail.Message, 0, len(messages))
		for _, msg := range messages {
			if err := msg.Render(); err != nil {
				svc.logger.Error("rendering email", err)
				continue
			}
			if msg.HasRecipients() && msg.HasContent() {
				prepared = append(prepared, svc.prepare(*msg))
			}
		}
		if len(prepared) == 0 {
			return
		}
		// one connection for the whole batch
		if err := svc.dialer.DialAndSend(prepared...); err != nil {
			svc.logger.Error("sending email", err)
		}
	}()
}

func (svc smtpService) prepare(msg core.EmailMessage) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(svc.from.Address, svc.from.Name))
	m.SetHeader("To", formatAddresses(m, msg.To)...)
	if len(msg.Cc) > 0 {
		m.SetHeader("Cc", formatAddresses(m, msg.Cc)...)
	}
	if len(msg.Bcc) > 0 {
		m.SetHeader("Bcc", formatAddresses(m, msg.Bcc)...)
	}
	m.SetHeader("Subject", svc.subjPrefix+msg.Subject)
	m.SetBody("text/plain", msg.TextContent)
	if msg.HTMLContent != "" {
		m.AddAlternative("text/html", msg.HTMLContent)
	}
	return m
}

func formatAddresses(m *gomail.Message, addrs []mail.Address) []string {
	formatted := make([]string, 0, len(addrs))
	for _, a := range addrs {
		formatted = append(formatted, m.FormatAddress(a.Address, a.Name))
	}
	return formatted
}

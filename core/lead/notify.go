package lead

import (
	"context"
	"net/mail"

	"github.com/skillbridge/portal/core"
)

const stageChangedTemplate = "stage_changed"

// OwnerNotifier emails the owner of a lead when someone else moves it.
type OwnerNotifier struct {
	mailer core.EmailService
}

var _ Observer = (*OwnerNotifier)(nil)

func NewOwnerNotifier(mailer core.EmailService) *OwnerNotifier {
	return &OwnerNotifier{mailer: mailer}
}

func (n *OwnerNotifier) StageChanged(_ context.Context, t Transition) error {
	owner, err := mail.ParseAddress(t.Owner)
	if err != nil || core.SameIdentity(owner.Address, t.Actor) {
		// owners are not always emails
		return nil
	}
	n.mailer.SendMessages(&core.EmailMessage{
		To:           []mail.Address{*owner},
		Subject:      t.LeadName + " moved to " + t.To.Title(),
		TemplateName: stageChangedTemplate,
		TemplateData: map[string]string{
			"OwnerName": ownerName(*owner),
			"Actor":     t.Actor,
			"LeadName":  t.LeadName,
			"From":      t.From.Title(),
			"To":        t.To.Title(),
		},
	})
	return nil
}

func ownerName(addr mail.Address) string {
	if addr.Name != "" {
		return addr.Name
	}
	return addr.Address
}

package lead

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/portal/core"
)

type recordingMailer struct {
	messages []*core.EmailMessage
}

func (m *recordingMailer) SendMessages(messages ...*core.EmailMessage) {
	m.messages = append(m.messages, messages...)
}

func TestOwnerNotifier(t *testing.T) {
	tr := Transition{LeadID: "1", LeadName: "Amina", From: StageOffer, To: StageLeadDump, Actor: "lead@x.com"}

	tests := []struct {
		name     string
		owner    string
		wantSent bool
	}{
		{"owner moved by someone else", "a@x.com", true},
		{"owner moved their own lead", "LEAD@x.com", false},
		{"unassigned", "", false},
		{"owner is not an email", "u42", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mailer := new(recordingMailer)
			tr := tr
			tr.Owner = tt.owner

			require.NoError(t, NewOwnerNotifier(mailer).StageChanged(context.Background(), tr))
			if !tt.wantSent {
				assert.Empty(t, mailer.messages)
				return
			}
			require.Len(t, mailer.messages, 1)
			msg := mailer.messages[0]
			assert.Equal(t, tt.owner, msg.To[0].Address)
			assert.Equal(t, stageChangedTemplate, msg.TemplateName)
			assert.Equal(t, "Amina moved to Lead Dump", msg.Subject)
		})
	}
}

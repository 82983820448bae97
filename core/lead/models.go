package lead

import (
	"strings"
	"time"

	"github.com/skillbridge/portal/core"
)

// Stage is a step of the sales pipeline.
type Stage string

// Pipeline stages, in board order.
const (
	// StageUnassigned is the board column of leads without an owner. It is never stored on a lead.
	StageUnassigned Stage = "unassigned"

	StagePrimaryScreening         Stage = "primary_screening"
	StageMeetAndCall              Stage = "meet_and_call"
	StageDemoAndMentorScreening   Stage = "demo_and_mentor_screening"
	StageAssessments              Stage = "assessments"
	StageOffer                    Stage = "offer"
	StagePaymentAndFinancialClear Stage = "payment_and_financial_clearance"
	StageOnboardedToLSM           Stage = "onboarded_to_lsm"

	// StageLeadDump is the terminal side-stage, reachable from every other stage.
	StageLeadDump Stage = "lead_dump"

	// DefaultStage is the effective stage of leads with a missing or unknown stage.
	DefaultStage = StagePrimaryScreening
)

var (
	WorkingStages = []Stage{
		StagePrimaryScreening,
		StageMeetAndCall,
		StageDemoAndMentorScreening,
		StageAssessments,
		StageOffer,
		StagePaymentAndFinancialClear,
		StageOnboardedToLSM,
	}

	// Stages are the values a lead's stage may take.
	Stages = append(append([]Stage(nil), WorkingStages...), StageLeadDump)

	stageTitles = map[Stage]string{
		StageUnassigned:               "Unassigned",
		StagePrimaryScreening:         "Primary Screening",
		StageMeetAndCall:              "Meet & Call",
		StageDemoAndMentorScreening:   "Demo & Mentor Screening",
		StageAssessments:              "Assessments",
		StageOffer:                    "Offer",
		StagePaymentAndFinancialClear: "Payment & Financial Clearance",
		StageOnboardedToLSM:           "Onboarded to LSM",
		StageLeadDump:                 "Lead Dump",
	}
)

// IsValid reports whether s may be stored as a lead's stage.
func (s Stage) IsValid() bool {
	for _, stage := range Stages {
		if s == stage {
			return true
		}
	}
	return false
}

func (s Stage) IsTerminal() bool { return s == StageLeadDump }

func (s Stage) Title() string {
	if title, ok := stageTitles[s]; ok {
		return title
	}
	return string(s)
}

// ParseStage parses a stage value in any case.
func ParseStage(s string) (Stage, error) {
	stage := Stage(core.CleanString(s, true /* lower */))
	if !stage.IsValid() {
		return "", ErrInvalidStage
	}
	return stage, nil
}

// Lead is a prospect tracked through the sales pipeline.
type Lead struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Company       string    `json:"company"`
	AssignedTo    string    `json:"assignedTo"` // owner identifier; empty when unassigned
	PipelineStage Stage     `json:"pipelineStage"`
	Value         string    `json:"value"` // display amount
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// EffectiveStage is the stage the lead is shown in: its own stage, or DefaultStage when missing or unknown.
func (l Lead) EffectiveStage() Stage {
	stage := Stage(core.CleanString(string(l.PipelineStage), true /* lower */))
	if !stage.IsValid() {
		return DefaultStage
	}
	return stage
}

func (l Lead) IsUnassigned() bool {
	return core.CleanString(l.AssignedTo) == ""
}

// Matches does a case-insensitive substring match of query on the name and contact fields.
// An empty query matches every lead.
func (l Lead) Matches(query string) bool {
	query = core.CleanString(query, true /* lower */)
	if query == "" {
		return true
	}
	for _, field := range []string{l.Name, l.Email, l.Phone, l.Company} {
		if strings.Contains(strings.ToLower(field), query) {
			return true
		}
	}
	return false
}

// Transition is a confirmed stage change.
type Transition struct {
	ID        string    `json:"id"`
	LeadID    string    `json:"leadId"`
	LeadName  string    `json:"leadName"`
	From      Stage     `json:"from"`
	To        Stage     `json:"to"`
	Actor     string    `json:"actor"`
	ActorRole string    `json:"actorRole"`
	Owner     string    `json:"owner"`
	At        time.Time `json:"at"`
}

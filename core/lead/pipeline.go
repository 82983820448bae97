package lead

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/role"
)

type (
	// Scope is forwarded to the backend when listing leads so it may pre-filter them.
	// Leads are always filtered again locally.
	Scope struct {
		Identity string
		Role     string
		Team     string
	}

	// Repository is the remote store of leads.
	Repository interface {
		ListLeads(ctx context.Context, scope Scope) ([]Lead, error)
		UpdateLeadStage(ctx context.Context, id string, stage Stage) error
	}

	// Observer is notified of every confirmed stage change.
	Observer interface {
		StageChanged(ctx context.Context, t Transition) error
	}

	ObserverFunc func(ctx context.Context, t Transition) error

	BatchFailure struct {
		ID      string `json:"id"`
		Message string `json:"message"`
		Err     error  `json:"-"`
	}

	// BatchResult reports the outcome of a batch move per lead.
	BatchResult struct {
		Moved  []Lead         `json:"moved"`
		Failed []BatchFailure `json:"failed"`
	}
)

func (fn ObserverFunc) StageChanged(ctx context.Context, t Transition) error { return fn(ctx, t) }

func (r BatchResult) OK() bool { return len(r.Failed) == 0 }

// Pipeline is the view model of the sales pipeline of one viewer.
// It holds the leads of the last successful Load; they only change after a move is confirmed by the Repository.
type Pipeline struct {
	repo      Repository
	viewer    Viewer
	observers []Observer
	logger    core.Logger
	now       func() time.Time

	mu     sync.RWMutex
	leads  []Lead
	loaded bool
}

func NewPipeline(repo Repository, viewer Viewer, logger core.Logger, observers ...Observer) *Pipeline {
	return &Pipeline{
		repo:      repo,
		viewer:    viewer,
		observers: observers,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (p *Pipeline) Viewer() Viewer { return p.viewer }

func (p *Pipeline) scope() Scope {
	sess := p.viewer.Session
	return Scope{Identity: sess.Identity(), Role: sess.Role(), Team: sess.Team()}
}

// Load fetches the leads and keeps those the viewer can see. The previous snapshot is kept on failure.
func (p *Pipeline) Load(ctx context.Context) error {
	leads, err := p.repo.ListLeads(ctx, p.scope())
	if err != nil {
		return errors.Wrap(err, "listing leads")
	}
	visible := Visible(leads, p.viewer)

	p.mu.Lock()
	p.leads = visible
	p.loaded = true
	p.mu.Unlock()
	return nil
}

func (p *Pipeline) Loaded() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.loaded
}

// Leads returns a copy of the current snapshot.
func (p *Pipeline) Leads() []Lead {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]Lead(nil), p.leads...)
}

// Lead returns the lead identified by id if the viewer can see it.
func (p *Pipeline) Lead(id string) (Lead, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	i := p.indexOf(id)
	if i < 0 {
		return Lead{}, false
	}
	return p.leads[i], true
}

// must hold p.mu
func (p *Pipeline) indexOf(id string) int {
	for i, l := range p.leads {
		if l.ID == id {
			return i
		}
	}
	return -1
}

// Board groups the snapshot and keeps the cards matching query.
func (p *Pipeline) Board(query string) Board {
	return Group(p.Leads(), p.viewer).Filter(query)
}

// Cards returns every lead of the snapshot with its permitted actions.
func (p *Pipeline) Cards() []Card {
	leads := p.Leads()
	cards := make([]Card, 0, len(leads))
	for _, l := range leads {
		cards = append(cards, newCard(l, p.viewer))
	}
	return cards
}

// MoveLead asks the Repository to move a lead to target and, once confirmed, applies the move to the snapshot.
// Read-only viewers are rejected before anything is sent. Moving a lead to its effective stage is a no-op.
func (p *Pipeline) MoveLead(ctx context.Context, id string, target Stage) (Lead, error) {
	if !p.viewer.CanMutate() {
		return Lead{}, ErrReadOnly
	}
	if !target.IsValid() {
		return Lead{}, core.NewFieldError("stage", ErrInvalidStage)
	}
	l, ok := p.Lead(id)
	if !ok {
		return Lead{}, ErrNotFound
	}
	if l.EffectiveStage() == target {
		return l, nil
	}

	if err := p.repo.UpdateLeadStage(ctx, id, target); err != nil {
		return Lead{}, errors.Wrap(err, "updating lead stage")
	}

	p.mu.Lock()
	i := p.indexOf(id)
	if i < 0 { // the snapshot was reloaded without the lead in the meantime
		p.mu.Unlock()
		return Lead{}, ErrNotFound
	}
	from := p.leads[i].EffectiveStage()
	p.leads[i].PipelineStage = target
	p.leads[i].UpdatedAt = p.now()
	moved := p.leads[i]
	p.mu.Unlock()

	p.notify(ctx, Transition{
		ID:        uuid.NewString(),
		LeadID:    moved.ID,
		LeadName:  moved.Name,
		From:      from,
		To:        target,
		Actor:     p.viewer.Session.Identity(),
		ActorRole: p.viewer.Session.Role(),
		Owner:     moved.AssignedTo,
		At:        moved.UpdatedAt,
	})
	return moved, nil
}

// MoveToDump moves a lead to the lead dump.
func (p *Pipeline) MoveToDump(ctx context.Context, id string) (Lead, error) {
	if !p.viewer.CanMutate() {
		return Lead{}, ErrReadOnly
	}
	l, ok := p.Lead(id)
	if !ok {
		return Lead{}, ErrNotFound
	}
	if l.EffectiveStage().IsTerminal() {
		return Lead{}, ErrAlreadyDumped
	}
	return p.MoveLead(ctx, id, StageLeadDump)
}

// MoveLeadsBatch moves every lead of ids to target, one after the other, and reports the outcome per lead.
// A failed move does not stop the batch; a cancelled ctx fails every remaining lead.
func (p *Pipeline) MoveLeadsBatch(ctx context.Context, ids []string, target Stage) (BatchResult, error) {
	if !p.viewer.CanMutate() {
		return BatchResult{}, ErrReadOnly
	}
	if p.viewer.Tier != role.TierTeamLead {
		return BatchResult{}, ErrForbidden
	}
	if len(ids) == 0 {
		return BatchResult{}, core.NewFieldError("ids", ErrNoLeads)
	}
	if !target.IsValid() {
		return BatchResult{}, core.NewFieldError("stage", ErrInvalidStage)
	}

	res := BatchResult{Moved: []Lead{}, Failed: []BatchFailure{}}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true

		var (
			l   Lead
			err = ctx.Err()
		)
		if err == nil {
			l, err = p.MoveLead(ctx, id, target)
		}
		if err != nil {
			res.Failed = append(res.Failed, BatchFailure{ID: id, Message: errors.Cause(err).Error(), Err: err})
			continue
		}
		res.Moved = append(res.Moved, l)
	}
	return res, nil
}

// notify runs the observers once a move is confirmed. Their failures are logged only.
func (p *Pipeline) notify(ctx context.Context, t Transition) {
	ctx = context.WithoutCancel(ctx)
	for _, obs := range p.observers {
		if err := obs.StageChanged(ctx, t); err != nil && p.logger != nil {
			p.logger.Error("notifying stage change", errors.Wrapf(err, "lead %s", t.LeadID), p.viewer.Session)
		}
	}
}

package lead

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/role"
	"github.com/skillbridge/portal/core/session"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) ListLeads(ctx context.Context, scope Scope) ([]Lead, error) {
	args := m.Called(ctx, scope)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Lead), args.Error(1)
}

func (m *mockRepository) UpdateLeadStage(ctx context.Context, id string, stage Stage) error {
	return m.Called(ctx, id, stage).Error(0)
}

type testLogger struct {
	mu     sync.Mutex
	errors []string
}

var _ core.Logger = (*testLogger)(nil)

func (l *testLogger) Debug(string, ...interface{}) {}
func (l *testLogger) Info(string, ...interface{})  {}
func (l *testLogger) Warn(string, ...interface{})  {}
func (l *testLogger) Fatal(string, ...interface{}) {}
func (l *testLogger) Error(msg string, _ ...interface{}) {
	l.mu.Lock()
	l.errors = append(l.errors, msg)
	l.mu.Unlock()
}

var (
	agentSess = session.New("a@x.com", role.SalesAgent, "north", "Ade")
	leadSess  = session.New("lead@x.com", role.SalesLead, "north", "Lena")
	headSess  = session.New("head@x.com", role.SalesHead, "", "Hana")

	errBackend = errors.New("backend is down")
)

func testLeads() []Lead {
	return []Lead{
		newLead("1", "a@x.com", StagePrimaryScreening),
		newLead("2", "b@x.com", StagePrimaryScreening),
		newLead("3", "", ""),
		newLead("4", "a@x.com", StageLeadDump),
	}
}

func openPipeline(t *testing.T, viewer Viewer, observers ...Observer) (*Pipeline, *mockRepository, *testLogger) {
	repo := new(mockRepository)
	repo.On("ListLeads", mock.Anything, mock.Anything).Return(testLeads(), nil).Once()
	logger := new(testLogger)
	p := NewPipeline(repo, viewer, logger, observers...)
	require.NoError(t, p.Load(context.Background()))
	return p, repo, logger
}

func TestPipeline_Load(t *testing.T) {
	repo := new(mockRepository)
	scope := Scope{Identity: "a@x.com", Role: role.SalesAgent, Team: "north"}
	repo.On("ListLeads", mock.Anything, scope).Return(testLeads(), nil).Once()
	repo.On("ListLeads", mock.Anything, scope).Return(nil, errBackend).Once()

	p := NewPipeline(repo, NewViewer(agentSess), nil)
	assert.False(t, p.Loaded())
	require.NoError(t, p.Load(context.Background()))
	assert.True(t, p.Loaded())
	assert.Len(t, p.Leads(), 2, "only the agent's leads are kept")

	err := p.Load(context.Background())
	assert.Equal(t, errBackend, errors.Cause(err))
	assert.Len(t, p.Leads(), 2, "a failed load keeps the snapshot")
	repo.AssertExpectations(t)
}

func TestPipeline_MoveLead(t *testing.T) {
	var transitions []Transition
	obs := ObserverFunc(func(_ context.Context, tr Transition) error {
		transitions = append(transitions, tr)
		return nil
	})
	p, repo, _ := openPipeline(t, NewViewer(agentSess), obs)
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }
	repo.On("UpdateLeadStage", mock.Anything, "1", StageOffer).Return(nil).Once()

	before := p.Board("")
	moved, err := p.MoveLead(context.Background(), "1", StageOffer)
	require.NoError(t, err)

	assert.Equal(t, StageOffer, moved.PipelineStage)
	assert.Equal(t, now, moved.UpdatedAt)
	after := p.Board("")
	assert.Equal(t, []string{"1"}, columnIDs(after, StageOffer))
	assert.Empty(t, columnIDs(after, StagePrimaryScreening))
	assert.Equal(t, columnIDs(before, StageLeadDump), columnIDs(after, StageLeadDump), "other leads are not affected")

	require.Len(t, transitions, 1)
	tr := transitions[0]
	assert.NotEmpty(t, tr.ID)
	assert.Equal(t, "1", tr.LeadID)
	assert.Equal(t, StagePrimaryScreening, tr.From)
	assert.Equal(t, StageOffer, tr.To)
	assert.Equal(t, "a@x.com", tr.Actor)
	assert.Equal(t, role.SalesAgent, tr.ActorRole)
	assert.Equal(t, now, tr.At)
	repo.AssertExpectations(t)
}

func TestPipeline_MoveLead_ReadOnly(t *testing.T) {
	p, repo, _ := openPipeline(t, NewViewer(headSess))
	before := p.Leads()

	_, err := p.MoveLead(context.Background(), "1", StageOffer)
	assert.Equal(t, ErrReadOnly, err)
	_, err = p.MoveToDump(context.Background(), "2")
	assert.Equal(t, ErrReadOnly, err)
	_, err = p.MoveLeadsBatch(context.Background(), []string{"1", "2"}, StageOffer)
	assert.Equal(t, ErrReadOnly, err)

	repo.AssertNotCalled(t, "UpdateLeadStage", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, before, p.Leads())
}

func TestPipeline_MoveLead_Rejections(t *testing.T) {
	p, repo, _ := openPipeline(t, NewViewer(agentSess))

	tests := []struct {
		name    string
		id      string
		target  Stage
		wantErr error
	}{
		{"unknown stage", "1", "won", ErrInvalidStage},
		{"unassigned column", "1", StageUnassigned, ErrInvalidStage},
		{"someone else's lead", "2", StageOffer, ErrNotFound},
		{"unknown lead", "42", StageOffer, ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := p.MoveLead(context.Background(), tt.id, tt.target)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
		})
	}
	repo.AssertNotCalled(t, "UpdateLeadStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_MoveLead_InvalidStageIsValidationError(t *testing.T) {
	p, _, _ := openPipeline(t, NewViewer(agentSess))
	_, err := p.MoveLead(context.Background(), "1", "won")
	var vErr *core.ValidationError
	require.True(t, errors.As(err, &vErr))
	assert.Equal(t, "stage", vErr.Fields[0].Field)
}

func TestPipeline_MoveLead_BackendFailure(t *testing.T) {
	called := false
	obs := ObserverFunc(func(context.Context, Transition) error { called = true; return nil })
	p, repo, _ := openPipeline(t, NewViewer(agentSess), obs)
	repo.On("UpdateLeadStage", mock.Anything, "1", StageOffer).Return(errBackend).Once()
	before := p.Leads()

	_, err := p.MoveLead(context.Background(), "1", StageOffer)
	assert.Equal(t, errBackend, errors.Cause(err))
	assert.Equal(t, before, p.Leads(), "the snapshot is unchanged")
	assert.False(t, called, "observers only hear of confirmed moves")
}

func TestPipeline_MoveLead_SameStage(t *testing.T) {
	p, repo, _ := openPipeline(t, NewViewer(agentSess))

	l, err := p.MoveLead(context.Background(), "1", StagePrimaryScreening)
	require.NoError(t, err)
	assert.Equal(t, StagePrimaryScreening, l.PipelineStage)
	repo.AssertNotCalled(t, "UpdateLeadStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_MoveLead_DefaultStage(t *testing.T) {
	notified := false
	obs := ObserverFunc(func(context.Context, Transition) error {
		notified = true
		return nil
	})
	viewer := NewViewer(leadSess)
	p, repo, _ := openPipeline(t, viewer, obs)

	// lead 3 has no stage, so it already is in primary screening
	l, err := p.MoveLead(context.Background(), "3", StagePrimaryScreening)
	require.NoError(t, err)
	assert.Equal(t, "3", l.ID)
	repo.AssertNotCalled(t, "UpdateLeadStage", mock.Anything, mock.Anything, mock.Anything)
	assert.False(t, notified)
}

func TestPipeline_MoveLead_UnassignedStaysUnassigned(t *testing.T) {
	p, repo, _ := openPipeline(t, NewViewer(leadSess))
	repo.On("UpdateLeadStage", mock.Anything, "3", StageOffer).Return(nil).Once()

	l, err := p.MoveLead(context.Background(), "3", StageOffer)
	require.NoError(t, err)
	assert.Equal(t, StageOffer, l.PipelineStage)

	board := p.Board("")
	assert.Contains(t, columnIDs(board, StageUnassigned), "3", "unassigned leads stay in the unassigned column")
	assert.NotContains(t, columnIDs(board, StageOffer), "3")
	col, _ := board.Column(StageUnassigned)
	for _, card := range col.Cards {
		if card.ID == "3" {
			assert.Equal(t, StageOffer, card.PipelineStage)
		}
	}
	repo.AssertExpectations(t)
}

func TestPipeline_MoveLead_ObserverFailure(t *testing.T) {
	failing := ObserverFunc(func(ctx context.Context, _ Transition) error {
		assert.NoError(t, ctx.Err(), "observers run even if the request is gone")
		return errors.New("broker unreachable")
	})
	p, repo, logger := openPipeline(t, NewViewer(agentSess), failing)
	repo.On("UpdateLeadStage", mock.Anything, "1", StageOffer).Return(nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cancelling := ObserverFunc(func(context.Context, Transition) error { cancel(); return nil })
	p.observers = append([]Observer{cancelling}, p.observers...)

	moved, err := p.MoveLead(ctx, "1", StageOffer)
	require.NoError(t, err)
	assert.Equal(t, StageOffer, moved.PipelineStage)
	assert.Equal(t, []string{"notifying stage change"}, logger.errors)
}

func TestPipeline_MoveToDump(t *testing.T) {
	p, repo, _ := openPipeline(t, NewViewer(agentSess))
	repo.On("UpdateLeadStage", mock.Anything, "1", StageLeadDump).Return(nil).Once()

	l, err := p.MoveToDump(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, StageLeadDump, l.PipelineStage)

	_, err = p.MoveToDump(context.Background(), "4")
	assert.Equal(t, ErrAlreadyDumped, err)
	_, err = p.MoveToDump(context.Background(), "2")
	assert.Equal(t, ErrNotFound, err)
	repo.AssertExpectations(t)
}

func TestPipeline_MoveLeadsBatch(t *testing.T) {
	viewer := NewViewer(leadSess, "a@x.com")
	p, repo, _ := openPipeline(t, viewer)
	repo.On("UpdateLeadStage", mock.Anything, "1", StageOffer).Return(nil).Once()
	repo.On("UpdateLeadStage", mock.Anything, "3", StageOffer).Return(errBackend).Once()

	res, err := p.MoveLeadsBatch(context.Background(), []string{"1", "2", "3", "1"}, StageOffer)
	require.NoError(t, err)
	assert.False(t, res.OK())

	require.Len(t, res.Moved, 1)
	assert.Equal(t, "1", res.Moved[0].ID)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "2", res.Failed[0].ID)
	assert.Equal(t, ErrNotFound.Error(), res.Failed[0].Message)
	assert.Equal(t, "3", res.Failed[1].ID)
	assert.Equal(t, errBackend.Error(), res.Failed[1].Message)

	l, _ := p.Lead("3")
	assert.Equal(t, Stage(""), l.PipelineStage, "failed moves leave the lead untouched")
	repo.AssertExpectations(t)
}

func TestPipeline_MoveLeadsBatch_Rejections(t *testing.T) {
	agent, _, _ := openPipeline(t, NewViewer(agentSess))
	_, err := agent.MoveLeadsBatch(context.Background(), []string{"1"}, StageOffer)
	assert.Equal(t, ErrForbidden, err)

	lead, repo, _ := openPipeline(t, NewViewer(leadSess))
	_, err = lead.MoveLeadsBatch(context.Background(), nil, StageOffer)
	assert.True(t, errors.Is(err, ErrNoLeads))
	_, err = lead.MoveLeadsBatch(context.Background(), []string{"3"}, "won")
	assert.True(t, errors.Is(err, ErrInvalidStage))
	repo.AssertNotCalled(t, "UpdateLeadStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_MoveLeadsBatch_Cancelled(t *testing.T) {
	p, repo, _ := openPipeline(t, NewViewer(leadSess))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := p.MoveLeadsBatch(ctx, []string{"3"}, StageOffer)
	require.NoError(t, err)
	require.Len(t, res.Failed, 1)
	assert.Equal(t, context.Canceled, res.Failed[0].Err)
	repo.AssertNotCalled(t, "UpdateLeadStage", mock.Anything, mock.Anything, mock.Anything)
}

func TestPipeline_Cards(t *testing.T) {
	p, _, _ := openPipeline(t, NewViewer(leadSess))
	cards := p.Cards()
	require.Len(t, cards, 1) // a@x.com is not in the team
	assert.Equal(t, "3", cards[0].ID)
	assert.True(t, cards[0].CanMove)
	assert.True(t, cards[0].CanDump)
}

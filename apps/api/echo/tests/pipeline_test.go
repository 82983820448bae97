package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skillbridge/portal/core/lead"
	"github.com/skillbridge/portal/core/role"
	emailsvc "github.com/skillbridge/portal/services/email"
)

func Test_pipelineApi_board(t *testing.T) {
	env := setup(t)

	tests := []struct {
		name         string
		email, r     string
		team         string
		search       string
		wantTier     role.Tier
		wantReadOnly bool
		wantColumns  map[lead.Stage][]string
	}{
		{
			name: "individual contributor", email: "agent@skillbridge.dev", r: role.SalesAgent, team: "north",
			wantTier: role.TierIndividual,
			wantColumns: map[lead.Stage][]string{
				lead.StagePrimaryScreening: {"l1"},
				lead.StageMeetAndCall:      {"l2"},
			},
		},
		{
			name: "team lead", email: "lead@skillbridge.dev", r: role.SalesLead, team: "north",
			wantTier: role.TierTeamLead,
			wantColumns: map[lead.Stage][]string{
				lead.StageUnassigned:       {"l4", "l7"},
				lead.StagePrimaryScreening: {"l1"},
				lead.StageMeetAndCall:      {"l2"},
				lead.StageOffer:            {"l3"},
				lead.StageLeadDump:         {"l6"},
			},
		},
		{
			name: "aggregator", email: "head@skillbridge.dev", r: role.SalesHead,
			wantTier: role.TierAggregator, wantReadOnly: true,
			wantColumns: map[lead.Stage][]string{
				lead.StageUnassigned:       {"l4", "l7"},
				lead.StagePrimaryScreening: {"l1"},
				lead.StageMeetAndCall:      {"l2"},
				lead.StageAssessments:      {"l5"},
				lead.StageOffer:            {"l3"},
				lead.StageLeadDump:         {"l6"},
			},
		},
		{
			name: "search", email: "head@skillbridge.dev", r: role.SalesHead, search: "DEMIR",
			wantTier: role.TierAggregator, wantReadOnly: true,
			wantColumns: map[lead.Stage][]string{
				lead.StageAssessments: {"l5"},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := "/v1/pipeline"
			if tt.search != "" {
				path += "?search=" + tt.search
			}
			rec := env.serve(http.MethodGet, path, getToken(t, env.conf, tt.email, tt.r, tt.team))
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

			var board lead.Board
			unmarchall(t, rec, &board)
			assert.Equal(t, tt.wantTier, board.Tier)
			assert.Equal(t, tt.wantReadOnly, board.ReadOnly)
			assert.Equal(t, tt.wantColumns, columnIDs(t, board))

			_, hasUnassigned := board.Column(lead.StageUnassigned)
			assert.Equal(t, tt.wantTier != role.TierIndividual, hasUnassigned)
			for _, col := range board.Columns {
				for _, card := range col.Cards {
					assert.Equal(t, !tt.wantReadOnly, card.CanMove)
					assert.Equal(t, !tt.wantReadOnly && col.Stage != lead.StageLeadDump, card.CanDump)
				}
			}
		})
	}

	runHTTPTests(t, env, []httpTest{
		{name: "Auth required", path: "/v1/pipeline", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "No pipeline access", path: "/v1/pipeline", token: getToken(t, env.conf, "kid@skillbridge.dev", role.Student, ""),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: lead.ErrForbidden.Error()}),
		},
	})
}

func Test_pipelineApi_move(t *testing.T) {
	env := setup(t)
	agentToken := getToken(t, env.conf, "agent@skillbridge.dev", role.SalesAgent, "north")
	leadToken := getToken(t, env.conf, "lead@skillbridge.dev", role.SalesLead, "north")
	headToken := getToken(t, env.conf, "head@skillbridge.dev", role.SalesHead, "")

	tests := []httpTest{
		{
			name: "Invalid stage", method: http.MethodPut, path: "/v1/pipeline/leads/l1/stage", token: agentToken,
			body: []byte(`{"stage": "won"}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"stage": "must be a valid pipeline stage"}`),
		},
		{
			name: "Missing stage", method: http.MethodPut, path: "/v1/pipeline/leads/l1/stage", token: agentToken,
			body: []byte(`{}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"stage": "this field is required"}`),
		},
		{
			name: "Read-only", method: http.MethodPut, path: "/v1/pipeline/leads/l1/stage", token: headToken,
			body: []byte(`{"stage": "offer"}`), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: lead.ErrReadOnly.Error()}),
		},
		{
			name: "Someone else's lead", method: http.MethodPut, path: "/v1/pipeline/leads/l5/stage", token: agentToken,
			body: []byte(`{"stage": "offer"}`), wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Error: lead.ErrNotFound.Error()}),
		},
		{
			name: "Already dumped", method: http.MethodPost, path: "/v1/pipeline/leads/l6/dump", token: leadToken,
			wantCode: http.StatusConflict, wantData: marchallObj(t, httpErr{Error: lead.ErrAlreadyDumped.Error()}),
		},
	}
	runHTTPTests(t, env, tests)
	assert.Equal(t, 0, env.backend.Updates(), "rejected moves never reach the backend")

	t.Run("rejected writers never reach the backend", func(t *testing.T) {
		studentToken := getToken(t, env.conf, "student@skillbridge.dev", role.Student, "")
		lists := env.backend.Lists()

		runHTTPTests(t, env, []httpTest{
			{
				name: "Read-only invalid stage", method: http.MethodPut, path: "/v1/pipeline/leads/l1/stage", token: headToken,
				body: []byte(`{"stage": "won"}`), wantCode: http.StatusForbidden,
				wantData: marchallObj(t, httpErr{Error: lead.ErrReadOnly.Error()}),
			},
			{
				name: "Read-only dump", method: http.MethodPost, path: "/v1/pipeline/leads/l1/dump", token: headToken,
				wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: lead.ErrReadOnly.Error()}),
			},
			{
				name: "Read-only batch", method: http.MethodPost, path: "/v1/pipeline/leads/batch-stage", token: headToken,
				body: []byte(`{"ids": [], "stage": "won"}`), wantCode: http.StatusForbidden,
				wantData: marchallObj(t, httpErr{Error: lead.ErrReadOnly.Error()}),
			},
			{
				name: "No pipeline access", method: http.MethodPut, path: "/v1/pipeline/leads/l1/stage", token: studentToken,
				body: []byte(`{"stage": "offer"}`), wantCode: http.StatusForbidden,
				wantData: marchallObj(t, httpErr{Error: lead.ErrForbidden.Error()}),
			},
		})
		assert.Equal(t, lists, env.backend.Lists(), "no leads were listed")
		assert.Equal(t, 0, env.backend.Updates())
	})

	t.Run("own lead", func(t *testing.T) {
		rec := env.serve(http.MethodPut, "/v1/pipeline/leads/l1/stage", agentToken, []byte(`{"stage": "Offer"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var l lead.Lead
		unmarchall(t, rec, &l)
		assert.Equal(t, "l1", l.ID)
		assert.Equal(t, lead.StageOffer, l.PipelineStage)
		assert.Equal(t, 1, env.backend.Updates())
		assert.Empty(t, emailsvc.LastSentMessages(), "owners are not notified of their own moves")
	})

	t.Run("team member's lead to dump", func(t *testing.T) {
		rec := env.serve(http.MethodPost, "/v1/pipeline/leads/l3/dump", leadToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var l lead.Lead
		unmarchall(t, rec, &l)
		assert.Equal(t, lead.StageLeadDump, l.PipelineStage)

		sent := emailsvc.LastSentMessages()
		require.Len(t, sent, 1)
		assert.Equal(t, "bo@skillbridge.dev", sent[0].To[0].Address)
		assert.Equal(t, "Chloe Martin moved to Lead Dump", sent[0].Subject)
	})

	t.Run("backend failure", func(t *testing.T) {
		env.backend.SetUpdateError(errors.New("connection reset"))
		defer env.backend.SetUpdateError(nil)

		rec := env.serve(http.MethodPut, "/v1/pipeline/leads/l2/stage", agentToken, []byte(`{"stage": "offer"}`))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.NotEmpty(t, env.logger.Errors())

		// the lead did not move
		rec = env.serve(http.MethodGet, "/v1/pipeline", agentToken)
		var board lead.Board
		unmarchall(t, rec, &board)
		col, _ := board.Column(lead.StageMeetAndCall)
		require.Len(t, col.Cards, 1)
		assert.Equal(t, "l2", col.Cards[0].ID)
	})

	t.Run("history", func(t *testing.T) {
		rec := env.serve(http.MethodGet, "/v1/pipeline/leads/l1/history", agentToken)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var transitions []lead.Transition
		unmarchall(t, rec, &transitions)
		require.Len(t, transitions, 1)
		assert.Equal(t, lead.StagePrimaryScreening, transitions[0].From)
		assert.Equal(t, lead.StageOffer, transitions[0].To)
		assert.Equal(t, "agent@skillbridge.dev", transitions[0].Actor)
		assert.Equal(t, role.SalesAgent, transitions[0].ActorRole)

		rec = env.serve(http.MethodGet, "/v1/pipeline/leads/l3/history", agentToken)
		assert.Equal(t, http.StatusNotFound, rec.Code, "history of invisible leads is hidden")
	})
}

func Test_pipelineApi_moveBatch(t *testing.T) {
	env := setup(t)
	leadToken := getToken(t, env.conf, "lead@skillbridge.dev", role.SalesLead, "north")
	agentToken := getToken(t, env.conf, "agent@skillbridge.dev", role.SalesAgent, "north")
	headToken := getToken(t, env.conf, "head@skillbridge.dev", role.SalesHead, "")
	path := "/v1/pipeline/leads/batch-stage"

	runHTTPTests(t, env, []httpTest{
		{
			name: "Individual contributor", method: http.MethodPost, path: path, token: agentToken,
			body: []byte(`{"ids": ["l1"], "stage": "offer"}`), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: lead.ErrForbidden.Error()}),
		},
		{
			name: "Read-only", method: http.MethodPost, path: path, token: headToken,
			body: []byte(`{"ids": ["l1"], "stage": "offer"}`), wantCode: http.StatusForbidden,
			wantData: marchallObj(t, httpErr{Error: lead.ErrReadOnly.Error()}),
		},
		{
			name: "No leads", method: http.MethodPost, path: path, token: leadToken,
			body: []byte(`{"ids": [], "stage": "offer"}`), wantCode: http.StatusBadRequest,
			wantData: []byte(`{"ids": "no leads selected"}`),
		},
	})

	rec := env.serve(http.MethodPost, path, leadToken, []byte(`{"ids": ["l1", "l4", "l5", "l1", "nope"], "stage": "assessments"}`))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var res struct {
		Moved  []lead.Lead `json:"moved"`
		Failed []struct {
			ID      string `json:"id"`
			Message string `json:"message"`
		} `json:"failed"`
	}
	unmarchall(t, rec, &res)

	movedIDs := make([]string, 0, len(res.Moved))
	for _, l := range res.Moved {
		assert.Equal(t, lead.StageAssessments, l.PipelineStage)
		movedIDs = append(movedIDs, l.ID)
	}
	assert.Equal(t, []string{"l1", "l4"}, movedIDs)
	require.Len(t, res.Failed, 2)
	assert.Equal(t, "l5", res.Failed[0].ID, "leads of other teams are not visible")
	assert.Equal(t, lead.ErrNotFound.Error(), res.Failed[0].Message)
	assert.Equal(t, "nope", res.Failed[1].ID)
	assert.Equal(t, 2, env.backend.Updates())

	history, err := env.audit.QueryTransitions(context.Background(), "l4")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "", history[0].Owner)
}

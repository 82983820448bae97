package sqlxrepos

import (
	"context"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/skillbridge/portal/core"
	"github.com/skillbridge/portal/core/lead"
)

var transitionOrderings = map[string]string{
	"at":   "created_at",
	"from": "from_stage",
	"to":   "to_stage",
}

type transitionRow struct {
	ID        string      `db:"id"`
	LeadID    string      `db:"lead_id"`
	LeadName  string      `db:"lead_name"`
	FromStage null.String `db:"from_stage"`
	ToStage   string      `db:"to_stage"`
	Actor     string      `db:"actor"`
	ActorRole string      `db:"actor_role"`
	Owner     null.String `db:"owner"`
	CreatedAt time.Time   `db:"created_at"`
}

type transitionRepository struct {
	exec core.DBExecutor
}

func NewTransitionRepository(exec core.DBExecutor) lead.TransitionRepository {
	return &transitionRepository{exec: exec}
}

func (repo transitionRepository) toRow(t lead.Transition) transitionRow {
	return transitionRow{
		ID:        t.ID,
		LeadID:    t.LeadID,
		LeadName:  t.LeadName,
		FromStage: null.NewString(string(t.From), t.From != ""),
		ToStage:   string(t.To),
		Actor:     t.Actor,
		ActorRole: t.ActorRole,
		Owner:     null.NewString(t.Owner, t.Owner != ""),
		CreatedAt: t.At.UTC(),
	}
}

func (repo transitionRepository) fromRow(row transitionRow) lead.Transition {
	return lead.Transition{
		ID:        row.ID,
		LeadID:    row.LeadID,
		LeadName:  row.LeadName,
		From:      lead.Stage(row.FromStage.String),
		To:        lead.Stage(row.ToStage),
		Actor:     row.Actor,
		ActorRole: row.ActorRole,
		Owner:     row.Owner.String,
		At:        row.CreatedAt.UTC(),
	}
}

func (repo transitionRepository) CreateTransition(ctx context.Context, t lead.Transition) error {
	q := `INSERT INTO stage_transitions (id, lead_id, lead_name, from_stage, to_stage, actor, actor_role, owner, created_at)
		VALUES (:id, :lead_id, :lead_name, :from_stage, :to_stage, :actor, :actor_role, :owner, :created_at)`
	if _, err := repo.exec.NamedExecContext(ctx, q, repo.toRow(t)); err != nil {
		return errors.Wrap(err, "inserting stage transition")
	}
	return nil
}

// QueryTransitions returns the transitions of a lead, oldest first unless ordered otherwise.
// Orderings on unknown fields are ignored.
func (repo transitionRepository) QueryTransitions(ctx context.Context, leadID string, ordering ...core.DBOrdering) ([]lead.Transition, error) {
	ordering = core.FilterOrderings(ordering, transitionOrderings)
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "created_at", Ascending: true}}
	}
	orderBy := make([]string, 0, len(ordering))
	for _, ord := range ordering {
		orderBy = append(orderBy, ord.String())
	}

	q := repo.exec.Rebind(`SELECT id, lead_id, lead_name, from_stage, to_stage, actor, actor_role, owner, created_at
		FROM stage_transitions WHERE lead_id = ? ORDER BY ` + strings.Join(orderBy, ", "))
	var rows []transitionRow
	if err := repo.exec.SelectContext(ctx, &rows, q, leadID); err != nil {
		return nil, errors.Wrap(err, "querying stage transitions")
	}

	transitions := make([]lead.Transition, 0, len(rows))
	for _, row := range rows {
		transitions = append(transitions, repo.fromRow(row))
	}
	return transitions, nil
}

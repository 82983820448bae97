package lead

import "github.com/skillbridge/portal/core/role"

type (
	// Card is a lead as rendered on the board, with the actions the viewer may take on it.
	Card struct {
		Lead
		CanMove bool `json:"canMove"`
		CanDump bool `json:"canDump"`
	}

	Column struct {
		Stage Stage  `json:"stage"`
		Title string `json:"title"`
		Count int    `json:"count"`
		Cards []Card `json:"cards"`
	}

	Board struct {
		Tier     role.Tier `json:"tier"`
		ReadOnly bool      `json:"readOnly"`
		Total    int       `json:"total"`
		Columns  []Column  `json:"columns"`
	}
)

func newCard(l Lead, v Viewer) Card {
	canMove := v.CanMutate()
	return Card{
		Lead:    l,
		CanMove: canMove,
		CanDump: canMove && !l.EffectiveStage().IsTerminal(),
	}
}

func columnStages(v Viewer) []Stage {
	stages := make([]Stage, 0, len(Stages)+1)
	if v.ShowsUnassigned() {
		stages = append(stages, StageUnassigned)
	}
	return append(stages, Stages...)
}

// Group applies the access policy of v to leads and partitions what is left into board columns.
// Unassigned leads go to the unassigned column whatever their stage; every other lead goes to the
// column of its effective stage. Input order is kept within a column.
func Group(leads []Lead, v Viewer) Board {
	stages := columnStages(v)
	index := make(map[Stage]int, len(stages))
	board := Board{
		Tier:     v.Tier,
		ReadOnly: !v.CanMutate(),
		Columns:  make([]Column, len(stages)),
	}
	for i, stage := range stages {
		index[stage] = i
		board.Columns[i] = Column{Stage: stage, Title: stage.Title(), Cards: []Card{}}
	}

	for _, l := range Visible(leads, v) {
		stage := l.EffectiveStage()
		if l.IsUnassigned() && v.ShowsUnassigned() {
			stage = StageUnassigned
		}
		col := &board.Columns[index[stage]]
		col.Cards = append(col.Cards, newCard(l, v))
	}
	return board.count()
}

func (b Board) count() Board {
	b.Total = 0
	for i := range b.Columns {
		b.Columns[i].Count = len(b.Columns[i].Cards)
		b.Total += b.Columns[i].Count
	}
	return b
}

// Filter returns a copy of the board keeping only the cards matching query. Every column is kept.
func (b Board) Filter(query string) Board {
	filtered := b
	filtered.Columns = make([]Column, len(b.Columns))
	for i, col := range b.Columns {
		cards := make([]Card, 0, len(col.Cards))
		for _, card := range col.Cards {
			if card.Matches(query) {
				cards = append(cards, card)
			}
		}
		col.Cards = cards
		filtered.Columns[i] = col
	}
	return filtered.count()
}

// Column returns the column of stage.
func (b Board) Column(stage Stage) (Column, bool) {
	for _, col := range b.Columns {
		if col.Stage == stage {
			return col, true
		}
	}
	return Column{}, false
}

// Leads returns the leads of every column, in board order.
func (b Board) Leads() []Lead {
	leads := make([]Lead, 0, b.Total)
	for _, col := range b.Columns {
		for _, card := range col.Cards {
			leads = append(leads, card.Lead)
		}
	}
	return leads
}

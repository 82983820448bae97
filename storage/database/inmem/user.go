package inmemdb

import (
	"context"

	"github.com/skillbridge/portal/core/user"
)

type memberRepository struct {
	db *memberTable
}

func NewMemberRepository(db *DB) user.Repository {
	return &memberRepository{db: db.member}
}

func (repo *memberRepository) ListTeamMembers(ctx context.Context) ([]user.TeamMember, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]user.TeamMember(nil), repo.db.table...), nil
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/studyipl/tournament-api/internal/domain/player"
	"github.com/studyipl/tournament-api/internal/domain/roster"
	qb "github.com/studyipl/tournament-api/internal/platform/querybuilder"
)

// RosterRepository stores the ordered player id list; reads resolve ids
// against the static pool so ratings never go stale in storage.
type RosterRepository struct {
	db      *sqlx.DB
	players player.Repository
}

func NewRosterRepository(db *sqlx.DB, players player.Repository) *RosterRepository {
	return &RosterRepository{db: db, players: players}
}

func (r *RosterRepository) GetByUser(ctx context.Context, userID string) (roster.Roster, bool, error) {
	query, args, err := qb.Select("*").
		From("rosters").
		Where(qb.Eq("user_id", userID)).
		ToSQL()
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("build get roster query: %w", err)
	}

	var row rosterTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return roster.Roster{}, false, nil
		}
		return roster.Roster{}, false, fmt.Errorf("get roster: %w", err)
	}

	players, err := r.players.GetByIDs(ctx, append([]string(nil), row.PlayerIDs...))
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("resolve roster players: %w", err)
	}

	return roster.Roster{
		UserID:    row.UserID,
		Players:   players,
		UpdatedAt: row.UpdatedAt,
	}, true, nil
}

func (r *RosterRepository) Save(ctx context.Context, item roster.Roster) error {
	playerIDs := make([]string, 0, len(item.Players))
	for _, p := range item.Players {
		playerIDs = append(playerIDs, p.ID)
	}

	insertModel := rosterTableModel{
		UserID:    item.UserID,
		PlayerIDs: pq.StringArray(playerIDs),
		UpdatedAt: item.UpdatedAt,
	}

	query, args, err := qb.InsertModel("rosters", insertModel, `ON CONFLICT (user_id)
DO UPDATE SET
    player_ids = EXCLUDED.player_ids,
    updated_at = EXCLUDED.updated_at`)
	if err != nil {
		return fmt.Errorf("build roster upsert query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}

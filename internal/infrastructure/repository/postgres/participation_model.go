package postgres

import (
	"time"

	"github.com/lib/pq"
)

type participationTableModel struct {
	ID              string         `db:"id"`
	TournamentID    string         `db:"tournament_id"`
	UserID          string         `db:"user_id"`
	LineupPlayerIDs pq.StringArray `db:"lineup_player_ids"`
	Points          int            `db:"points"`
	Answers         []byte         `db:"answers"`
	JoinedAt        time.Time      `db:"joined_at"`
}

type participationInsertModel struct {
	ID              string         `db:"id"`
	TournamentID    string         `db:"tournament_id"`
	UserID          string         `db:"user_id"`
	LineupPlayerIDs pq.StringArray `db:"lineup_player_ids"`
	Points          int            `db:"points"`
	Answers         []byte         `db:"answers"`
	JoinedAt        time.Time      `db:"joined_at"`
}

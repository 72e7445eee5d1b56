package postgres

import (
	"time"

	"github.com/lib/pq"
)

type rosterTableModel struct {
	UserID    string         `db:"user_id"`
	PlayerIDs pq.StringArray `db:"player_ids"`
	UpdatedAt time.Time      `db:"updated_at"`
}

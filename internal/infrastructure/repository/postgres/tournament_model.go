package postgres

import "time"

type tournamentTableModel struct {
	ID           string    `db:"id"`
	Name         string    `db:"name"`
	Status       string    `db:"status"`
	StartTime    time.Time `db:"start_time"`
	SubjectFocus string    `db:"subject_focus"`
	PrizePool    int64     `db:"prize_pool"`
	Description  string    `db:"description"`
	MatchFormat  string    `db:"match_format"`
	PlayerCount  int       `db:"player_count"`
	CreatedAt    time.Time `db:"created_at"`
}

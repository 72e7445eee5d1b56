package participation

import (
	"time"

	"github.com/studyipl/tournament-api/internal/domain/player"
)

// Record is a user's membership in one tournament. At most one record
// exists per (tournament, user) pair; RecordID derives the storage key.
type Record struct {
	TournamentID string
	UserID       string
	Lineup       []player.Player
	Points       int
	// Answers maps question id to the submitted option index.
	Answers  map[string]int
	JoinedAt time.Time
}

// RecordID builds the composite document key for a join record.
func RecordID(tournamentID, userID string) string {
	return tournamentID + "_" + userID
}

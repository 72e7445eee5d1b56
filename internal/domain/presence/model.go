package presence

import "time"

// Entry records that a user is (or recently was) online inside a
// tournament room. One entry per tournament/user pair.
type Entry struct {
	TournamentID string
	UserID       string
	DisplayName  string
	Online       bool
	LastSeen     time.Time
}

// EntryID keys the presence document for one user in one tournament.
func EntryID(tournamentID, userID string) string {
	return tournamentID + "_" + userID
}

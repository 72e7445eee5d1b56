package presence

import "context"

// Repository stores presence heartbeats. Upsert overwrites the user's entry
// for the tournament; listings return newest-first by LastSeen.
type Repository interface {
	Upsert(ctx context.Context, item Entry) error
	ListByTournament(ctx context.Context, tournamentID string, limit int) ([]Entry, error)
}

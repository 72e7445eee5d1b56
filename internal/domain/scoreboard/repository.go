package scoreboard

import "context"

// Repository reads and replaces scoreboard snapshots. Publish merges into
// the live document so partial syncs do not wipe fields the scorer did not
// send.
type Repository interface {
	GetByTournament(ctx context.Context, tournamentID string) (Snapshot, bool, error)
	Publish(ctx context.Context, item Snapshot) error
}

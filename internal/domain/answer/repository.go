package answer

import "context"

// Repository persists answer submissions with last-write-wins semantics on
// the composite key.
type Repository interface {
	Upsert(ctx context.Context, item Submission) error
	GetByID(ctx context.Context, tournamentID, matchID, userID, questionID string) (Submission, bool, error)
}

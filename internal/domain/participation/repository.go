package participation

import (
	"context"
	"errors"
)

// Join failure modes surfaced by repositories. Both are checked inside the
// same transaction that would create the record, so a failed join writes
// nothing.
var (
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrTournamentClosed   = errors.New("tournament is completed")
)

// Repository persists join records.
type Repository interface {
	// Join atomically verifies the tournament exists and is not completed,
	// then creates the record if absent. A second join for the same
	// (tournament, user) pair is a no-op that returns the stored record:
	// points, answers and lineup are never reset.
	Join(ctx context.Context, item Record) (Record, error)
	GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (Record, bool, error)
	// ListByUser returns the user's records ordered by join time descending,
	// capped at limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]Record, error)
	// AddPoints is the hook for the external scoring process; delta must be
	// non-negative so point totals stay monotonically non-decreasing.
	AddPoints(ctx context.Context, tournamentID, userID string, delta int) error
}

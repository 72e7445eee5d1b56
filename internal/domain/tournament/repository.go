package tournament

import "context"

// Repository exposes tournament persistence operations.
type Repository interface {
	GetByID(ctx context.Context, tournamentID string) (Tournament, bool, error)
	// ListActive returns tournaments in {live, upcoming} ordered by start
	// time ascending, capped at limit.
	ListActive(ctx context.Context, limit int) ([]Tournament, error)
	Create(ctx context.Context, item Tournament) error
	UpdateStatus(ctx context.Context, tournamentID string, next Status) error
}

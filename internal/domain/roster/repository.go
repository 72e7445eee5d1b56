package roster

import "context"

// Repository persists saved rosters. Save replaces the stored roster
// wholesale: the last save from any session wins.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (Roster, bool, error)
	Save(ctx context.Context, item Roster) error
}

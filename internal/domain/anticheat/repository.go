package anticheat

import "context"

// Repository persists monitored sessions and their raw event stream.
// UpdateSession applies fn to the stored session atomically, so concurrent
// counter bumps never lose increments; the second result is false when no
// session exists. RecordEvent appends to an audit trail and never
// overwrites.
type Repository interface {
	StartSession(ctx context.Context, item Session) error
	GetSession(ctx context.Context, tournamentID, userID string) (Session, bool, error)
	UpdateSession(ctx context.Context, tournamentID, userID string, fn func(Session) Session) (Session, bool, error)
	RecordEvent(ctx context.Context, item Event) error
}

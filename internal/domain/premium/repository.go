package premium

import "context"

// Repository stores premium membership records keyed by user.
type Repository interface {
	GetByUser(ctx context.Context, userID string) (Status, bool, error)
	Save(ctx context.Context, item Status) error
}

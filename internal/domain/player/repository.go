package player

import "context"

// Repository exposes the static player pool to use cases.
type Repository interface {
	ListAll(ctx context.Context) ([]Player, error)
	GetByIDs(ctx context.Context, playerIDs []string) ([]Player, error)
}

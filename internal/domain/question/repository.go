package question

import "context"

// Repository manages the question bank and each tournament's live question
// document.
type Repository interface {
	Add(ctx context.Context, item Question) (Question, error)
	// GetActive returns the question currently broadcast to a tournament.
	GetActive(ctx context.Context, tournamentID string) (Active, bool, error)
	// PublishActive replaces the tournament's live question wholesale.
	PublishActive(ctx context.Context, item Active) error
}

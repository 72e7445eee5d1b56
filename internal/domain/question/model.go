package question

import (
	"fmt"
	"time"
)

// Question is one quiz item from the bank.
type Question struct {
	ID            string
	Prompt        string
	Options       []string
	CorrectOption int
	CreatedAt     time.Time
}

func (q Question) Validate() error {
	if q.Prompt == "" {
		return fmt.Errorf("question prompt is required")
	}
	if len(q.Options) < 2 {
		return fmt.Errorf("question needs at least two options, got %d", len(q.Options))
	}
	if q.CorrectOption < 0 || q.CorrectOption >= len(q.Options) {
		return fmt.Errorf("correct option %d out of range", q.CorrectOption)
	}

	return nil
}

// Active is the question currently broadcast to a tournament, with its
// answer window.
type Active struct {
	TournamentID string
	Question     Question
	MatchID      string
	ExpiresAt    time.Time
	PublishedAt  time.Time
}

package answer

import (
	"strings"
	"time"
)

// Submission is one answer to one question in one match. The composite key
// makes submissions idempotent: resubmitting overwrites, never duplicates.
type Submission struct {
	TournamentID string
	MatchID      string
	UserID       string
	QuestionID   string
	OptionIndex  int
	SubmittedAt  time.Time
}

// SubmissionID builds the composite document key for a submission.
func SubmissionID(tournamentID, matchID, userID, questionID string) string {
	return strings.Join([]string{tournamentID, matchID, userID, questionID}, "_")
}

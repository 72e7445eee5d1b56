package postgres

import "time"

type answerTableModel struct {
	ID           string    `db:"id"`
	TournamentID string    `db:"tournament_id"`
	MatchID      string    `db:"match_id"`
	UserID       string    `db:"user_id"`
	QuestionID   string    `db:"question_id"`
	OptionIndex  int       `db:"option_index"`
	SubmittedAt  time.Time `db:"submitted_at"`
}

package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/studyipl/tournament-api/internal/domain/answer"
	"github.com/studyipl/tournament-api/internal/domain/participation"
	qb "github.com/studyipl/tournament-api/internal/platform/querybuilder"
)

type AnswerRepository struct {
	db *sqlx.DB
}

func NewAnswerRepository(db *sqlx.DB) *AnswerRepository {
	return &AnswerRepository{db: db}
}

// Upsert overwrites the submission row (last write wins) and mirrors the
// choice into the join record's answers document in the same transaction.
func (r *AnswerRepository) Upsert(ctx context.Context, item answer.Submission) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin answer transaction: %w", err)
	}
	defer tx.Rollback()

	insertModel := answerTableModel{
		ID:           answer.SubmissionID(item.TournamentID, item.MatchID, item.UserID, item.QuestionID),
		TournamentID: item.TournamentID,
		MatchID:      item.MatchID,
		UserID:       item.UserID,
		QuestionID:   item.QuestionID,
		OptionIndex:  item.OptionIndex,
		SubmittedAt:  item.SubmittedAt,
	}

	query, args, err := qb.InsertModel("answers", insertModel, `ON CONFLICT (id)
DO UPDATE SET
    option_index = EXCLUDED.option_index,
    submitted_at = EXCLUDED.submitted_at`)
	if err != nil {
		return fmt.Errorf("build answer upsert query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}

	const mirror = `UPDATE participations SET answers = answers || jsonb_build_object($1::text, $2::int) WHERE id = $3`
	recordID := participation.RecordID(item.TournamentID, item.UserID)
	if _, err := tx.ExecContext(ctx, mirror, item.QuestionID, item.OptionIndex, recordID); err != nil {
		return fmt.Errorf("mirror answer into participation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit answer transaction: %w", err)
	}
	return nil
}

func (r *AnswerRepository) GetByID(ctx context.Context, tournamentID, matchID, userID, questionID string) (answer.Submission, bool, error) {
	query, args, err := qb.Select("*").
		From("answers").
		Where(qb.Eq("id", answer.SubmissionID(tournamentID, matchID, userID, questionID))).
		ToSQL()
	if err != nil {
		return answer.Submission{}, false, fmt.Errorf("build get answer query: %w", err)
	}

	var row answerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return answer.Submission{}, false, nil
		}
		return answer.Submission{}, false, fmt.Errorf("get answer: %w", err)
	}

	return answer.Submission{
		TournamentID: row.TournamentID,
		MatchID:      row.MatchID,
		UserID:       row.UserID,
		QuestionID:   row.QuestionID,
		OptionIndex:  row.OptionIndex,
		SubmittedAt:  row.SubmittedAt,
	}, true, nil
}

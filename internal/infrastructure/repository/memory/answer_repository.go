package memory

import (
	"context"
	"fmt"

	"github.com/studyipl/tournament-api/internal/domain/answer"
	"github.com/studyipl/tournament-api/internal/domain/participation"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type AnswerRepository struct {
	store *docstore.Store
}

func NewAnswerRepository(store *docstore.Store) *AnswerRepository {
	return &AnswerRepository{store: store}
}

// Upsert overwrites the submission document and mirrors the choice into the
// join record's answers map, both in one transaction.
func (r *AnswerRepository) Upsert(ctx context.Context, item answer.Submission) error {
	key := answer.SubmissionID(item.TournamentID, item.MatchID, item.UserID, item.QuestionID)
	recordKey := participation.RecordID(item.TournamentID, item.UserID)

	err := r.store.RunTransaction(ctx, func(tx *docstore.Tx) error {
		tx.Upsert(collAnswers, key, docstore.Document{
			"tournamentId": item.TournamentID,
			"matchId":      item.MatchID,
			"userId":       item.UserID,
			"questionId":   item.QuestionID,
			"optionIndex":  item.OptionIndex,
			"submittedAt":  item.SubmittedAt,
		}, false)

		// Top-level merge replaces the answers map wholesale, so rebuild it
		// from the stored record before writing.
		if record, ok := tx.Get(collParticipations, recordKey); ok {
			answers := docMap(record, "answers")
			if answers == nil {
				answers = docstore.Document{}
			}
			answers[item.QuestionID] = item.OptionIndex
			tx.Upsert(collParticipations, recordKey, docstore.Document{"answers": answers}, true)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}
	return nil
}

func (r *AnswerRepository) GetByID(ctx context.Context, tournamentID, matchID, userID, questionID string) (answer.Submission, bool, error) {
	key := answer.SubmissionID(tournamentID, matchID, userID, questionID)
	doc, ok, err := r.store.Get(ctx, collAnswers, key)
	if err != nil {
		return answer.Submission{}, false, fmt.Errorf("get answer: %w", err)
	}
	if !ok {
		return answer.Submission{}, false, nil
	}

	return answer.Submission{
		TournamentID: docString(doc, "tournamentId"),
		MatchID:      docString(doc, "matchId"),
		UserID:       docString(doc, "userId"),
		QuestionID:   docString(doc, "questionId"),
		OptionIndex:  docInt(doc, "optionIndex"),
		SubmittedAt:  docTime(doc, "submittedAt"),
	}, true, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/answer"
	"github.com/studyipl/tournament-api/internal/domain/user"
)

// AnswerService records quiz answers. Submissions are idempotent on the
// (tournament, match, user, question) tuple; the last write wins.
type AnswerService struct {
	repo answer.Repository
	now  func() time.Time
}

func NewAnswerService(repo answer.Repository) *AnswerService {
	return &AnswerService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *AnswerService) Submit(ctx context.Context, principal user.Principal, tournamentID, matchID, questionID string, optionIndex int) (answer.Submission, error) {
	ctx, span := startUsecaseSpan(ctx, "AnswerService.Submit")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	matchID = strings.TrimSpace(matchID)
	questionID = strings.TrimSpace(questionID)

	if strings.TrimSpace(principal.UserID) == "" {
		return answer.Submission{}, fmt.Errorf("%w: sign in to submit answers", ErrUnauthorized)
	}
	if tournamentID == "" || matchID == "" || questionID == "" {
		return answer.Submission{}, fmt.Errorf("%w: tournament_id, match_id and question_id are required", ErrInvalidInput)
	}
	if optionIndex < 0 {
		return answer.Submission{}, fmt.Errorf("%w: option index must be non-negative", ErrInvalidInput)
	}

	item := answer.Submission{
		TournamentID: tournamentID,
		MatchID:      matchID,
		UserID:       principal.UserID,
		QuestionID:   questionID,
		OptionIndex:  optionIndex,
		SubmittedAt:  s.now().UTC(),
	}
	if err := s.repo.Upsert(ctx, item); err != nil {
		return answer.Submission{}, fmt.Errorf("%w: submit answer: %v", ErrDependencyUnavailable, err)
	}

	return item, nil
}

package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/question"
	"github.com/studyipl/tournament-api/internal/domain/user"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type PublishQuestionInput struct {
	TournamentID  string
	MatchID       string
	QuestionID    string
	Prompt        string
	Options       []string
	CorrectOption int
	ExpiresAt     time.Time
}

// QuestionService manages the question bank and each tournament's live
// question document.
type QuestionService struct {
	repo question.Repository
	now  func() time.Time
}

func NewQuestionService(repo question.Repository) *QuestionService {
	return &QuestionService{
		repo: repo,
		now:  time.Now,
	}
}

func (s *QuestionService) GetActive(ctx context.Context, tournamentID string) (question.Active, error) {
	ctx, span := startUsecaseSpan(ctx, "QuestionService.GetActive")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return question.Active{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetActive(ctx, tournamentID)
	if err != nil {
		return question.Active{}, fmt.Errorf("get active question: %w", err)
	}
	if !exists {
		return question.Active{}, fmt.Errorf("%w: no active question for tournament=%s", ErrNotFound, tournamentID)
	}

	return item, nil
}

// Watch streams the tournament's live question document: the current one
// first if any, then every publish. Callers own the subscription and must
// Close it. Drivers without change streams report ErrDependencyUnavailable.
func (s *QuestionService) Watch(ctx context.Context, tournamentID string) (*docstore.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "QuestionService.Watch")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	watcher, ok := s.repo.(liveDocumentWatcher)
	if !ok {
		return nil, fmt.Errorf("%w: storage driver does not stream question changes", ErrDependencyUnavailable)
	}
	sub, err := watcher.Watch(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("watch active question: %w", err)
	}
	return sub, nil
}

func (s *QuestionService) AddToBank(ctx context.Context, principal user.Principal, item question.Question) (question.Question, error) {
	ctx, span := startUsecaseSpan(ctx, "QuestionService.AddToBank")
	defer span.End()

	if !principal.Admin {
		return question.Question{}, fmt.Errorf("%w: admin access required", ErrUnauthorized)
	}

	item.Prompt = strings.TrimSpace(item.Prompt)
	item.CreatedAt = s.now().UTC()
	if err := item.Validate(); err != nil {
		return question.Question{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	stored, err := s.repo.Add(ctx, item)
	if err != nil {
		return question.Question{}, fmt.Errorf("add question to bank: %w", err)
	}
	return stored, nil
}

// PublishActive replaces the tournament's live question wholesale.
func (s *QuestionService) PublishActive(ctx context.Context, principal user.Principal, input PublishQuestionInput) (question.Active, error) {
	ctx, span := startUsecaseSpan(ctx, "QuestionService.PublishActive")
	defer span.End()

	if !principal.Admin {
		return question.Active{}, fmt.Errorf("%w: admin access required", ErrUnauthorized)
	}

	input.TournamentID = strings.TrimSpace(input.TournamentID)
	input.MatchID = strings.TrimSpace(input.MatchID)
	if input.TournamentID == "" || input.MatchID == "" {
		return question.Active{}, fmt.Errorf("%w: tournament_id and match_id are required", ErrInvalidInput)
	}

	q := question.Question{
		ID:            strings.TrimSpace(input.QuestionID),
		Prompt:        strings.TrimSpace(input.Prompt),
		Options:       input.Options,
		CorrectOption: input.CorrectOption,
	}
	if err := q.Validate(); err != nil {
		return question.Active{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item := question.Active{
		TournamentID: input.TournamentID,
		Question:     q,
		MatchID:      input.MatchID,
		ExpiresAt:    input.ExpiresAt,
		PublishedAt:  s.now().UTC(),
	}
	if err := s.repo.PublishActive(ctx, item); err != nil {
		return question.Active{}, fmt.Errorf("publish active question: %w", err)
	}

	return item, nil
}

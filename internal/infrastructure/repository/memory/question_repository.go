package memory

import (
	"context"
	"fmt"

	"github.com/studyipl/tournament-api/internal/domain/question"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type QuestionRepository struct {
	store *docstore.Store
}

func NewQuestionRepository(store *docstore.Store) *QuestionRepository {
	return &QuestionRepository{store: store}
}

func (r *QuestionRepository) Add(ctx context.Context, item question.Question) (question.Question, error) {
	options := make([]any, 0, len(item.Options))
	for _, opt := range item.Options {
		options = append(options, opt)
	}

	key, err := r.store.Append(ctx, collQuestionBank, docstore.Document{
		"prompt":        item.Prompt,
		"options":       options,
		"correctOption": item.CorrectOption,
		"createdAt":     item.CreatedAt,
	})
	if err != nil {
		return question.Question{}, fmt.Errorf("add question: %w", err)
	}

	item.ID = key
	return item, nil
}

func (r *QuestionRepository) GetActive(ctx context.Context, tournamentID string) (question.Active, bool, error) {
	doc, ok, err := r.store.Get(ctx, collActiveQuestion, tournamentID)
	if err != nil {
		return question.Active{}, false, fmt.Errorf("get active question: %w", err)
	}
	if !ok {
		return question.Active{}, false, nil
	}

	optionDocs := docSlice(doc, "options")
	options := make([]string, 0, len(optionDocs))
	for _, raw := range optionDocs {
		if opt, ok := raw.(string); ok {
			options = append(options, opt)
		}
	}

	return question.Active{
		TournamentID: tournamentID,
		Question: question.Question{
			ID:            docString(doc, "questionId"),
			Prompt:        docString(doc, "prompt"),
			Options:       options,
			CorrectOption: docInt(doc, "correctOption"),
		},
		MatchID:     docString(doc, "matchId"),
		ExpiresAt:   docTime(doc, "expiresAt"),
		PublishedAt: docTime(doc, "publishedAt"),
	}, true, nil
}

// PublishActive replaces the tournament's live question wholesale.
func (r *QuestionRepository) PublishActive(ctx context.Context, item question.Active) error {
	options := make([]any, 0, len(item.Question.Options))
	for _, opt := range item.Question.Options {
		options = append(options, opt)
	}

	err := r.store.Upsert(ctx, collActiveQuestion, item.TournamentID, docstore.Document{
		"questionId":    item.Question.ID,
		"prompt":        item.Question.Prompt,
		"options":       options,
		"correctOption": item.Question.CorrectOption,
		"matchId":       item.MatchID,
		"expiresAt":     item.ExpiresAt,
		"publishedAt":   item.PublishedAt,
	}, false)
	if err != nil {
		return fmt.Errorf("publish active question: %w", err)
	}
	return nil
}

// Watch opens a change stream over one tournament's active question.
func (r *QuestionRepository) Watch(ctx context.Context, tournamentID string) (*docstore.Subscription, error) {
	return r.store.Subscribe(ctx, collActiveQuestion, tournamentID)
}

package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/studyipl/tournament-api/internal/domain/participation"
	"github.com/studyipl/tournament-api/internal/domain/player"
	"github.com/studyipl/tournament-api/internal/domain/tournament"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type ParticipationRepository struct {
	store *docstore.Store
}

func NewParticipationRepository(store *docstore.Store) *ParticipationRepository {
	return &ParticipationRepository{store: store}
}

// Join runs the whole check-and-create inside one transaction so a failed
// precondition never leaves a partial record behind.
func (r *ParticipationRepository) Join(ctx context.Context, item participation.Record) (participation.Record, error) {
	key := participation.RecordID(item.TournamentID, item.UserID)
	out := item

	err := r.store.RunTransaction(ctx, func(tx *docstore.Tx) error {
		tDoc, ok := tx.Get(collTournaments, item.TournamentID)
		if !ok {
			return participation.ErrTournamentNotFound
		}
		if tournament.Status(docString(tDoc, "status")) == tournament.StatusCompleted {
			return participation.ErrTournamentClosed
		}

		if existing, ok := tx.Get(collParticipations, key); ok {
			out = decodeParticipation(existing)
			return nil
		}

		tx.Upsert(collParticipations, key, encodeParticipation(item), true)
		return nil
	})
	if err != nil {
		if errors.Is(err, participation.ErrTournamentNotFound) || errors.Is(err, participation.ErrTournamentClosed) {
			return participation.Record{}, err
		}
		return participation.Record{}, fmt.Errorf("join tournament: %w", err)
	}

	return out, nil
}

func (r *ParticipationRepository) GetByTournamentAndUser(ctx context.Context, tournamentID, userID string) (participation.Record, bool, error) {
	doc, ok, err := r.store.Get(ctx, collParticipations, participation.RecordID(tournamentID, userID))
	if err != nil {
		return participation.Record{}, false, fmt.Errorf("get participation: %w", err)
	}
	if !ok {
		return participation.Record{}, false, nil
	}

	return decodeParticipation(doc), true, nil
}

func (r *ParticipationRepository) ListByUser(ctx context.Context, userID string, limit int) ([]participation.Record, error) {
	docs, err := r.store.List(ctx, collParticipations)
	if err != nil {
		return nil, fmt.Errorf("list participations: %w", err)
	}

	out := make([]participation.Record, 0, limit)
	for _, kd := range docs {
		item := decodeParticipation(kd.Doc)
		if item.UserID != userID {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].JoinedAt.After(out[j].JoinedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *ParticipationRepository) AddPoints(ctx context.Context, tournamentID, userID string, delta int) error {
	if delta < 0 {
		return fmt.Errorf("points delta must be non-negative, got %d", delta)
	}

	key := participation.RecordID(tournamentID, userID)
	err := r.store.RunTransaction(ctx, func(tx *docstore.Tx) error {
		doc, ok := tx.Get(collParticipations, key)
		if !ok {
			return fmt.Errorf("participation %s not found", key)
		}
		tx.Upsert(collParticipations, key, docstore.Document{
			"points": docInt(doc, "points") + delta,
		}, true)
		return nil
	})
	if err != nil {
		return fmt.Errorf("add points: %w", err)
	}
	return nil
}

func encodeParticipation(item participation.Record) docstore.Document {
	lineup := make([]any, 0, len(item.Lineup))
	for _, p := range item.Lineup {
		lineup = append(lineup, docstore.Document{
			"id":      p.ID,
			"name":    p.Name,
			"role":    p.Role,
			"subject": p.Subject,
			"rating":  p.Rating,
		})
	}

	answers := make(docstore.Document, len(item.Answers))
	for questionID, optionIndex := range item.Answers {
		answers[questionID] = optionIndex
	}

	return docstore.Document{
		"tournamentId": item.TournamentID,
		"userId":       item.UserID,
		"lineup":       lineup,
		"points":       item.Points,
		"answers":      answers,
		"joinedAt":     item.JoinedAt,
	}
}

func decodeParticipation(doc docstore.Document) participation.Record {
	lineupDocs := docSlice(doc, "lineup")
	lineup := make([]player.Player, 0, len(lineupDocs))
	for _, raw := range lineupDocs {
		pd, ok := raw.(docstore.Document)
		if !ok {
			continue
		}
		lineup = append(lineup, player.Player{
			ID:      docString(pd, "id"),
			Name:    docString(pd, "name"),
			Role:    docString(pd, "role"),
			Subject: docString(pd, "subject"),
			Rating:  docInt(pd, "rating"),
		})
	}

	answersDoc := docMap(doc, "answers")
	answers := make(map[string]int, len(answersDoc))
	for questionID := range answersDoc {
		answers[questionID] = docInt(answersDoc, questionID)
	}

	return participation.Record{
		TournamentID: docString(doc, "tournamentId"),
		UserID:       docString(doc, "userId"),
		Lineup:       lineup,
		Points:       docInt(doc, "points"),
		Answers:      answers,
		JoinedAt:     docTime(doc, "joinedAt"),
	}
}

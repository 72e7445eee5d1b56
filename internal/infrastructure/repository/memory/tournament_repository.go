package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/studyipl/tournament-api/internal/domain/tournament"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type TournamentRepository struct {
	store *docstore.Store
}

func NewTournamentRepository(store *docstore.Store) *TournamentRepository {
	return &TournamentRepository{store: store}
}

func (r *TournamentRepository) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, bool, error) {
	doc, ok, err := r.store.Get(ctx, collTournaments, tournamentID)
	if err != nil {
		return tournament.Tournament{}, false, fmt.Errorf("get tournament: %w", err)
	}
	if !ok {
		return tournament.Tournament{}, false, nil
	}

	return decodeTournament(tournamentID, doc), true, nil
}

func (r *TournamentRepository) ListActive(ctx context.Context, limit int) ([]tournament.Tournament, error) {
	docs, err := r.store.List(ctx, collTournaments)
	if err != nil {
		return nil, fmt.Errorf("list tournaments: %w", err)
	}

	out := make([]tournament.Tournament, 0, len(docs))
	for _, kd := range docs {
		item := decodeTournament(kd.Key, kd.Doc)
		if item.Status == tournament.StatusCompleted {
			continue
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTime.Before(out[j].StartTime)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

func (r *TournamentRepository) Create(ctx context.Context, item tournament.Tournament) error {
	if err := r.store.Upsert(ctx, collTournaments, item.ID, encodeTournament(item), false); err != nil {
		return fmt.Errorf("create tournament: %w", err)
	}
	return nil
}

func (r *TournamentRepository) UpdateStatus(ctx context.Context, tournamentID string, next tournament.Status) error {
	err := r.store.RunTransaction(ctx, func(tx *docstore.Tx) error {
		doc, ok := tx.Get(collTournaments, tournamentID)
		if !ok {
			return fmt.Errorf("tournament %s not found", tournamentID)
		}
		current := tournament.Status(docString(doc, "status"))
		if !current.CanTransitionTo(next) {
			return fmt.Errorf("tournament %s cannot move from %s to %s", tournamentID, current, next)
		}
		tx.Upsert(collTournaments, tournamentID, docstore.Document{"status": string(next)}, true)
		return nil
	})
	if err != nil {
		return fmt.Errorf("update tournament status: %w", err)
	}
	return nil
}

func encodeTournament(item tournament.Tournament) docstore.Document {
	return docstore.Document{
		"name":         item.Name,
		"status":       string(item.Status),
		"startTime":    item.StartTime,
		"subjectFocus": item.SubjectFocus,
		"prizePool":    item.PrizePool,
		"description":  item.Description,
		"matchFormat":  item.MatchFormat,
		"playerCount":  item.PlayerCount,
		"createdAt":    item.CreatedAt,
	}
}

func decodeTournament(key string, doc docstore.Document) tournament.Tournament {
	return tournament.Tournament{
		ID:           key,
		Name:         docString(doc, "name"),
		Status:       tournament.Status(docString(doc, "status")),
		StartTime:    docTime(doc, "startTime"),
		SubjectFocus: docString(doc, "subjectFocus"),
		PrizePool:    docInt64(doc, "prizePool"),
		Description:  docString(doc, "description"),
		MatchFormat:  docString(doc, "matchFormat"),
		PlayerCount:  docInt(doc, "playerCount"),
		CreatedAt:    docTime(doc, "createdAt"),
	}
}

package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/studyipl/tournament-api/internal/domain/presence"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type PresenceRepository struct {
	store *docstore.Store
}

func NewPresenceRepository(store *docstore.Store) *PresenceRepository {
	return &PresenceRepository{store: store}
}

func (r *PresenceRepository) Upsert(ctx context.Context, item presence.Entry) error {
	key := presence.EntryID(item.TournamentID, item.UserID)
	err := r.store.Upsert(ctx, collPresence, key, docstore.Document{
		"tournamentId": item.TournamentID,
		"userId":       item.UserID,
		"displayName":  item.DisplayName,
		"online":       item.Online,
		"lastSeen":     item.LastSeen,
	}, true)
	if err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

func (r *PresenceRepository) ListByTournament(ctx context.Context, tournamentID string, limit int) ([]presence.Entry, error) {
	docs, err := r.store.List(ctx, collPresence)
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}

	out := make([]presence.Entry, 0, limit)
	for _, kd := range docs {
		if docString(kd.Doc, "tournamentId") != tournamentID {
			continue
		}
		out = append(out, presence.Entry{
			TournamentID: tournamentID,
			UserID:       docString(kd.Doc, "userId"),
			DisplayName:  docString(kd.Doc, "displayName"),
			Online:       docBool(kd.Doc, "online"),
			LastSeen:     docTime(kd.Doc, "lastSeen"),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastSeen.After(out[j].LastSeen)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

package memory

import (
	"context"
	"fmt"

	"github.com/studyipl/tournament-api/internal/domain/player"
	"github.com/studyipl/tournament-api/internal/domain/roster"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type RosterRepository struct {
	store *docstore.Store
}

func NewRosterRepository(store *docstore.Store) *RosterRepository {
	return &RosterRepository{store: store}
}

func (r *RosterRepository) GetByUser(ctx context.Context, userID string) (roster.Roster, bool, error) {
	doc, ok, err := r.store.Get(ctx, collRosters, userID)
	if err != nil {
		return roster.Roster{}, false, fmt.Errorf("get roster: %w", err)
	}
	if !ok {
		return roster.Roster{}, false, nil
	}

	playerDocs := docSlice(doc, "players")
	players := make([]player.Player, 0, len(playerDocs))
	for _, raw := range playerDocs {
		pd, ok := raw.(docstore.Document)
		if !ok {
			continue
		}
		players = append(players, player.Player{
			ID:      docString(pd, "id"),
			Name:    docString(pd, "name"),
			Role:    docString(pd, "role"),
			Subject: docString(pd, "subject"),
			Rating:  docInt(pd, "rating"),
		})
	}

	return roster.Roster{
		UserID:    userID,
		Players:   players,
		UpdatedAt: docTime(doc, "updatedAt"),
	}, true, nil
}

// Save replaces the stored roster wholesale; the last save wins.
func (r *RosterRepository) Save(ctx context.Context, item roster.Roster) error {
	players := make([]any, 0, len(item.Players))
	for _, p := range item.Players {
		players = append(players, docstore.Document{
			"id":      p.ID,
			"name":    p.Name,
			"role":    p.Role,
			"subject": p.Subject,
			"rating":  p.Rating,
		})
	}

	err := r.store.Upsert(ctx, collRosters, item.UserID, docstore.Document{
		"players":   players,
		"updatedAt": item.UpdatedAt,
	}, false)
	if err != nil {
		return fmt.Errorf("save roster: %w", err)
	}
	return nil
}

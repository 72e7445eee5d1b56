package memory

import (
	"context"
	"sync"

	"github.com/studyipl/tournament-api/internal/domain/player"
)

// PlayerRepository serves the static player pool. Pool order is preserved
// so listings match the published roster order.
type PlayerRepository struct {
	mu      sync.RWMutex
	pool    []player.Player
	indexed map[string]player.Player
}

func NewPlayerRepository(players []player.Player) *PlayerRepository {
	indexed := make(map[string]player.Player, len(players))
	for _, p := range players {
		indexed[p.ID] = p
	}

	return &PlayerRepository{
		pool:    append([]player.Player(nil), players...),
		indexed: indexed,
	}
}

func (r *PlayerRepository) ListAll(_ context.Context) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(r.pool))
	out = append(out, r.pool...)

	return out, nil
}

// GetByIDs resolves pool players preserving the requested order; unknown
// ids are skipped.
func (r *PlayerRepository) GetByIDs(_ context.Context, playerIDs []string) ([]player.Player, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]player.Player, 0, len(playerIDs))
	for _, id := range playerIDs {
		p, ok := r.indexed[id]
		if !ok {
			continue
		}
		out = append(out, p)
	}

	return out, nil
}

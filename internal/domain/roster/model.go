package roster

import (
	"fmt"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/player"
)

// LineupSize is the number of players in a complete lineup. Shorter rosters
// are drafts: they can be held client-side but not saved or submitted.
const LineupSize = 11

// Roster stores one user's saved team. Order is significant: earlier slots
// carry a higher power weight.
type Roster struct {
	UserID    string
	Players   []player.Player
	UpdatedAt time.Time
}

// ValidateComplete rejects rosters that are not an exactly-11, duplicate-free
// lineup.
func ValidateComplete(players []player.Player) error {
	if len(players) != LineupSize {
		return fmt.Errorf("lineup must contain exactly %d players, got %d", LineupSize, len(players))
	}
	return validateNoDuplicates(players)
}

// ValidateDraft allows partial lineups but still rejects duplicates and
// oversized rosters.
func ValidateDraft(players []player.Player) error {
	if len(players) > LineupSize {
		return fmt.Errorf("lineup cannot exceed %d players, got %d", LineupSize, len(players))
	}
	return validateNoDuplicates(players)
}

func validateNoDuplicates(players []player.Player) error {
	seen := make(map[string]struct{}, len(players))
	for _, p := range players {
		if p.ID == "" {
			return fmt.Errorf("lineup player id cannot be empty")
		}
		if _, ok := seen[p.ID]; ok {
			return fmt.Errorf("duplicate player id in lineup: %s", p.ID)
		}
		seen[p.ID] = struct{}{}
	}
	return nil
}

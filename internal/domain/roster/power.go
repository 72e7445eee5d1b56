package roster

import (
	"math"
	"sort"

	"github.com/studyipl/tournament-api/internal/domain/player"
)

// positionWeightStep is the linear decay applied per lineup slot: slot 0
// weighs 1.44, slot 10 weighs 1.04.
const positionWeightStep = 0.04

// Power derives the scalar team strength for an ordered lineup: each rating
// is clamped to [50,99], weighted by 1+(11-idx)*0.04, summed, divided by
// max(len,1) and rounded to the nearest integer. The formula is user-visible
// and compared across teams, so it must stay exactly this.
func Power(players []player.Player) int {
	var sum float64
	for idx, p := range players {
		weight := 1 + float64(LineupSize-idx)*positionWeightStep
		sum += float64(player.ClampRating(p.Rating)) * weight
	}

	size := len(players)
	if size < 1 {
		size = 1
	}

	return int(math.Round(sum / float64(size)))
}

// DefaultLineup picks the 11 highest-rated players from the pool. Ties keep
// pool order, so the selection is deterministic for a fixed pool.
func DefaultLineup(pool []player.Player) []player.Player {
	sorted := append([]player.Player(nil), pool...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rating > sorted[j].Rating
	})

	if len(sorted) > LineupSize {
		sorted = sorted[:LineupSize]
	}

	return sorted
}

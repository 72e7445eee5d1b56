package scoreboard

import (
	"sort"
	"time"
)

// TeamStanding is one team row in a scoreboard snapshot.
type TeamStanding struct {
	Name    string
	Captain string
	Points  int
}

// MVPStanding is one player row in the MVP board.
type MVPStanding struct {
	Name    string
	Subject string
	Points  int
}

// MomentumEvent is one chronological commentary entry.
type MomentumEvent struct {
	Time  string
	Event string
}

// Snapshot is the aggregate standings view for one tournament. It is
// produced wholesale by the external scoring process; this engine only
// ranks and truncates it for display and never owns the point totals.
type Snapshot struct {
	TournamentID string
	Teams        []TeamStanding
	MVPs         []MVPStanding
	Momentum     []MomentumEvent
	UpdatedAt    time.Time
}

// RankTeams orders teams by points descending. The sort is stable so equal
// totals keep snapshot order, and the cap truncates only after ranking.
func RankTeams(teams []TeamStanding, cap int) []TeamStanding {
	ranked := append([]TeamStanding(nil), teams...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	if cap > 0 && len(ranked) > cap {
		ranked = ranked[:cap]
	}
	return ranked
}

// RankMVPs applies the same stable descending rank to the MVP board.
func RankMVPs(mvps []MVPStanding, cap int) []MVPStanding {
	ranked := append([]MVPStanding(nil), mvps...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Points > ranked[j].Points
	})
	if cap > 0 && len(ranked) > cap {
		ranked = ranked[:cap]
	}
	return ranked
}

package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/player"
	"github.com/studyipl/tournament-api/internal/domain/tournament"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

// SeedPlayers is the default Study IPL player pool: one subject specialist
// per exam topic. Order here is the pool's display order.
func SeedPlayers() []player.Player {
	return []player.Player{
		{ID: "player_quant", Name: "Riya Agarwal", Role: "Quant Ace", Subject: "Quantitative Aptitude", Rating: 92},
		{ID: "player_reasoning", Name: "Arjun Mehta", Role: "Logic Strategist", Subject: "Logical Reasoning", Rating: 89},
		{ID: "player_verbal", Name: "Neha Kapoor", Role: "Verbal Maestro", Subject: "Verbal Ability", Rating: 95},
		{ID: "player_gk", Name: "Rahul Nair", Role: "GK Navigator", Subject: "General Awareness", Rating: 87},
		{ID: "player_ds", Name: "Ananya Desai", Role: "Data Sleuth", Subject: "Data Interpretation", Rating: 93},
		{ID: "player_cs", Name: "Kabir Shah", Role: "Code Runner", Subject: "Computer Science", Rating: 90},
		{ID: "player_phy", Name: "Ishita Rao", Role: "Physics Sprinter", Subject: "Physics", Rating: 88},
		{ID: "player_chem", Name: "Sarthak Jain", Role: "Chem Catalyst", Subject: "Chemistry", Rating: 85},
		{ID: "player_bio", Name: "Simran Paul", Role: "Bio Analyst", Subject: "Biology", Rating: 86},
		{ID: "player_math", Name: "Dev Verma", Role: "Math Sniper", Subject: "Mathematics", Rating: 91},
		{ID: "player_history", Name: "Meera Iyer", Role: "History Tracker", Subject: "History", Rating: 84},
		{ID: "player_polity", Name: "Yashwant Rao", Role: "Polity Architect", Subject: "Political Science", Rating: 82},
		{ID: "player_geo", Name: "Harshita Singh", Role: "Geo Mapper", Subject: "Geography", Rating: 83},
		{ID: "player_finance", Name: "Rohit Kulkarni", Role: "Finance Wizard", Subject: "Finance", Rating: 90},
	}
}

// SeedStore loads the starter tournaments into a fresh docstore.
func SeedStore(ctx context.Context, store *docstore.Store) error {
	repo := NewTournamentRepository(store)
	for _, item := range SeedTournaments() {
		if err := repo.Create(ctx, item); err != nil {
			return fmt.Errorf("seed tournament %s: %w", item.ID, err)
		}
	}
	return nil
}

// SeedTournaments provides a starter schedule so a fresh instance has
// something joinable before an admin creates real events.
func SeedTournaments() []tournament.Tournament {
	return []tournament.Tournament{
		{
			ID:           "ipl-aptitude-premier",
			Name:         "Aptitude Premier League",
			Status:       tournament.StatusLive,
			StartTime:    time.Date(2026, 9, 1, 18, 30, 0, 0, time.UTC),
			SubjectFocus: "Quantitative Aptitude",
			PrizePool:    50000,
			Description:  "Fast-paced quant showdown across five matches.",
			MatchFormat:  "Best of 5",
			PlayerCount:  128,
			CreatedAt:    time.Date(2026, 8, 20, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:           "ipl-reasoning-cup",
			Name:         "Reasoning Champions Cup",
			Status:       tournament.StatusUpcoming,
			StartTime:    time.Date(2026, 9, 5, 18, 30, 0, 0, time.UTC),
			SubjectFocus: "Logical Reasoning",
			PrizePool:    30000,
			Description:  "Puzzle-heavy knockout for logic specialists.",
			MatchFormat:  "Knockout",
			PlayerCount:  64,
			CreatedAt:    time.Date(2026, 8, 22, 10, 0, 0, 0, time.UTC),
		},
		{
			ID:           "ipl-verbal-trophy",
			Name:         "Verbal Ability Trophy",
			Status:       tournament.StatusUpcoming,
			StartTime:    time.Date(2026, 9, 12, 18, 30, 0, 0, time.UTC),
			SubjectFocus: "Verbal Ability",
			PrizePool:    20000,
			Description:  "Vocabulary and comprehension marathon.",
			MatchFormat:  "League",
			PlayerCount:  96,
			CreatedAt:    time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC),
		},
	}
}

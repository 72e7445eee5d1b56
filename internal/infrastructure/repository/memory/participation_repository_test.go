package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/participation"
	"github.com/studyipl/tournament-api/internal/domain/roster"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

func seededStore(t *testing.T) *docstore.Store {
	t.Helper()
	store := docstore.New()
	if err := SeedStore(context.Background(), store); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	return store
}

func joinRecord(tournamentID, userID string) participation.Record {
	lineup := roster.DefaultLineup(SeedPlayers())
	return participation.Record{
		TournamentID: tournamentID,
		UserID:       userID,
		Lineup:       lineup,
		Answers:      map[string]int{},
		JoinedAt:     time.Date(2026, 9, 1, 19, 0, 0, 0, time.UTC),
	}
}

func TestParticipationJoin(t *testing.T) {
	store := seededStore(t)
	repo := NewParticipationRepository(store)
	ctx := context.Background()

	got, err := repo.Join(ctx, joinRecord("ipl-aptitude-premier", "u1"))
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if got.TournamentID != "ipl-aptitude-premier" || got.UserID != "u1" {
		t.Fatalf("unexpected record: %+v", got)
	}
	if len(got.Lineup) != roster.LineupSize {
		t.Fatalf("unexpected lineup size: %d", len(got.Lineup))
	}
}

func TestParticipationJoinIsIdempotent(t *testing.T) {
	store := seededStore(t)
	repo := NewParticipationRepository(store)
	ctx := context.Background()

	first, err := repo.Join(ctx, joinRecord("ipl-aptitude-premier", "u1"))
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	if err := repo.AddPoints(ctx, "ipl-aptitude-premier", "u1", 40); err != nil {
		t.Fatalf("add points: %v", err)
	}

	repeat := joinRecord("ipl-aptitude-premier", "u1")
	repeat.JoinedAt = repeat.JoinedAt.Add(time.Hour)
	second, err := repo.Join(ctx, repeat)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}

	if second.Points != 40 {
		t.Fatalf("repeat join reset points: got=%d", second.Points)
	}
	if !second.JoinedAt.Equal(first.JoinedAt) {
		t.Fatalf("repeat join rewrote join time: got=%v want=%v", second.JoinedAt, first.JoinedAt)
	}
}

func TestParticipationJoinCompletedTournament(t *testing.T) {
	store := seededStore(t)
	tournaments := NewTournamentRepository(store)
	ctx := context.Background()

	if err := tournaments.UpdateStatus(ctx, "ipl-aptitude-premier", "completed"); err != nil {
		t.Fatalf("complete tournament: %v", err)
	}

	repo := NewParticipationRepository(store)
	_, err := repo.Join(ctx, joinRecord("ipl-aptitude-premier", "u1"))
	if !errors.Is(err, participation.ErrTournamentClosed) {
		t.Fatalf("expected ErrTournamentClosed, got %v", err)
	}

	if _, ok, _ := repo.GetByTournamentAndUser(ctx, "ipl-aptitude-premier", "u1"); ok {
		t.Fatal("rejected join left a partial record")
	}
}

func TestParticipationJoinUnknownTournament(t *testing.T) {
	store := seededStore(t)
	repo := NewParticipationRepository(store)

	_, err := repo.Join(context.Background(), joinRecord("no-such-tournament", "u1"))
	if !errors.Is(err, participation.ErrTournamentNotFound) {
		t.Fatalf("expected ErrTournamentNotFound, got %v", err)
	}
}

func TestParticipationListByUser(t *testing.T) {
	store := seededStore(t)
	repo := NewParticipationRepository(store)
	ctx := context.Background()

	early := joinRecord("ipl-aptitude-premier", "u1")
	late := joinRecord("ipl-reasoning-cup", "u1")
	late.JoinedAt = early.JoinedAt.Add(time.Hour)
	other := joinRecord("ipl-verbal-trophy", "u2")

	for _, record := range []participation.Record{early, late, other} {
		if _, err := repo.Join(ctx, record); err != nil {
			t.Fatalf("join %s: %v", record.TournamentID, err)
		}
	}

	got, err := repo.ListByUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("unexpected record count: %d", len(got))
	}
	if got[0].TournamentID != "ipl-reasoning-cup" {
		t.Fatalf("expected newest join first, got %s", got[0].TournamentID)
	}

	capped, err := repo.ListByUser(ctx, "u1", 1)
	if err != nil {
		t.Fatalf("capped list: %v", err)
	}
	if len(capped) != 1 {
		t.Fatalf("cap not applied: %d", len(capped))
	}
}

func TestParticipationAddPointsRejectsNegativeDelta(t *testing.T) {
	store := seededStore(t)
	repo := NewParticipationRepository(store)
	ctx := context.Background()

	if _, err := repo.Join(ctx, joinRecord("ipl-aptitude-premier", "u1")); err != nil {
		t.Fatalf("join: %v", err)
	}
	if err := repo.AddPoints(ctx, "ipl-aptitude-premier", "u1", -5); err == nil {
		t.Fatal("expected negative delta to be rejected")
	}
}

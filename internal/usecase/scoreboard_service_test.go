package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/scoreboard"
	"github.com/studyipl/tournament-api/internal/domain/user"
	"github.com/studyipl/tournament-api/internal/infrastructure/repository/memory"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type stubScoreboardRepo struct {
	snapshots map[string]scoreboard.Snapshot
}

func newStubScoreboardRepo() *stubScoreboardRepo {
	return &stubScoreboardRepo{snapshots: make(map[string]scoreboard.Snapshot)}
}

func (r *stubScoreboardRepo) GetByTournament(_ context.Context, tournamentID string) (scoreboard.Snapshot, bool, error) {
	snapshot, ok := r.snapshots[tournamentID]
	return snapshot, ok, nil
}

func (r *stubScoreboardRepo) Publish(_ context.Context, item scoreboard.Snapshot) error {
	r.snapshots[item.TournamentID] = item
	return nil
}

func TestScoreboardGetRankedOrdersTeams(t *testing.T) {
	repo := newStubScoreboardRepo()
	repo.snapshots["t1"] = scoreboard.Snapshot{
		TournamentID: "t1",
		Teams: []scoreboard.TeamStanding{
			{Name: "Thinkers", Points: 40},
			{Name: "Crammers", Points: 90},
			{Name: "Solvers", Points: 90},
			{Name: "Guessers", Points: 10},
		},
		MVPs: []scoreboard.MVPStanding{
			{Name: "Riya", Points: 30},
			{Name: "Arjun", Points: 55},
		},
	}

	svc := NewScoreboardService(repo)
	got, err := svc.GetRanked(context.Background(), "t1")
	if err != nil {
		t.Fatalf("get ranked: %v", err)
	}

	if got.Teams[0].Name != "Crammers" {
		t.Fatalf("expected highest points first, got %s", got.Teams[0].Name)
	}
	// Equal totals keep snapshot order.
	if got.Teams[1].Name != "Solvers" {
		t.Fatalf("tie broke snapshot order: got %s", got.Teams[1].Name)
	}
	if got.Teams[len(got.Teams)-1].Name != "Guessers" {
		t.Fatalf("expected lowest points last, got %s", got.Teams[len(got.Teams)-1].Name)
	}
	if got.MVPs[0].Name != "Arjun" {
		t.Fatalf("mvp board not ranked: got %s", got.MVPs[0].Name)
	}
}

func TestScoreboardGetRankedCapsAfterRanking(t *testing.T) {
	repo := newStubScoreboardRepo()
	teams := make([]scoreboard.TeamStanding, 0, 15)
	for i := 0; i < 15; i++ {
		teams = append(teams, scoreboard.TeamStanding{Name: string(rune('a' + i)), Points: i})
	}
	repo.snapshots["t1"] = scoreboard.Snapshot{TournamentID: "t1", Teams: teams}

	svc := NewScoreboardService(repo)
	got, err := svc.GetRanked(context.Background(), "t1")
	if err != nil {
		t.Fatalf("get ranked: %v", err)
	}

	if len(got.Teams) != 10 {
		t.Fatalf("expected cap of 10, got %d", len(got.Teams))
	}
	// The cap truncates the tail, so the best team survives.
	if got.Teams[0].Points != 14 {
		t.Fatalf("cap removed the top team: %+v", got.Teams[0])
	}
}

func TestScoreboardGetRankedNotFound(t *testing.T) {
	svc := NewScoreboardService(newStubScoreboardRepo())

	_, err := svc.GetRanked(context.Background(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func receiveChange(t *testing.T, sub *docstore.Subscription) docstore.Change {
	t.Helper()
	select {
	case change := <-sub.C:
		return change
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for change")
		return docstore.Change{}
	}
}

func TestScoreboardWatchStreamsPublishes(t *testing.T) {
	repo := memory.NewScoreboardRepository(docstore.New())
	svc := NewScoreboardService(repo)
	ctx := context.Background()
	admin := user.Principal{UserID: "admin", Admin: true}

	first := scoreboard.Snapshot{
		TournamentID: "t1",
		Teams:        []scoreboard.TeamStanding{{Name: "Thinkers", Points: 10}},
	}
	if err := svc.Publish(ctx, admin, first); err != nil {
		t.Fatalf("publish snapshot: %v", err)
	}

	sub, err := svc.Watch(ctx, "t1")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer sub.Close()

	snapshot := receiveChange(t, sub)
	if !snapshot.Exists || snapshot.Key != "t1" {
		t.Fatalf("unexpected initial snapshot: %+v", snapshot)
	}

	// A publish to another tournament must not leak into this stream.
	other := scoreboard.Snapshot{
		TournamentID: "t2",
		Teams:        []scoreboard.TeamStanding{{Name: "Crammers", Points: 5}},
	}
	if err := svc.Publish(ctx, admin, other); err != nil {
		t.Fatalf("publish other tournament: %v", err)
	}

	first.Teams[0].Points = 25
	if err := svc.Publish(ctx, admin, first); err != nil {
		t.Fatalf("publish update: %v", err)
	}

	change := receiveChange(t, sub)
	if change.Key != "t1" {
		t.Fatalf("stream delivered a foreign tournament: %+v", change)
	}
	if _, exists := change.Doc["teams"]; !exists {
		t.Fatalf("change missing updated fields: %v", change.Doc)
	}
}

func TestScoreboardWatchRequiresStreamingDriver(t *testing.T) {
	svc := NewScoreboardService(newStubScoreboardRepo())

	_, err := svc.Watch(context.Background(), "t1")
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected ErrDependencyUnavailable, got %v", err)
	}

	if _, err := svc.Watch(context.Background(), "  "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for blank id, got %v", err)
	}
}

func TestScoreboardPublishRequiresAdmin(t *testing.T) {
	repo := newStubScoreboardRepo()
	svc := NewScoreboardService(repo)

	snapshot := scoreboard.Snapshot{
		TournamentID: "t1",
		Teams:        []scoreboard.TeamStanding{{Name: "Thinkers", Points: 12}},
	}

	err := svc.Publish(context.Background(), user.Principal{UserID: "u1"}, snapshot)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for non-admin, got %v", err)
	}

	if err := svc.Publish(context.Background(), user.Principal{UserID: "admin", Admin: true}, snapshot); err != nil {
		t.Fatalf("admin publish: %v", err)
	}

	stored, ok, _ := repo.GetByTournament(context.Background(), "t1")
	if !ok || stored.UpdatedAt.IsZero() {
		t.Fatalf("publish did not stamp the snapshot: ok=%v %+v", ok, stored)
	}
}

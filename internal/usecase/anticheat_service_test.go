package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/sourcegraph/conc"

	"github.com/studyipl/tournament-api/internal/domain/anticheat"
	"github.com/studyipl/tournament-api/internal/domain/user"
	"github.com/studyipl/tournament-api/internal/infrastructure/repository/memory"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
	"github.com/studyipl/tournament-api/internal/platform/logging"
)

type stubAntiCheatRepo struct {
	mu       sync.Mutex
	sessions map[string]anticheat.Session
	events   []anticheat.Event
}

func newStubAntiCheatRepo() *stubAntiCheatRepo {
	return &stubAntiCheatRepo{sessions: make(map[string]anticheat.Session)}
}

func (r *stubAntiCheatRepo) StartSession(_ context.Context, item anticheat.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[anticheat.SessionID(item.TournamentID, item.UserID)] = item
	return nil
}

func (r *stubAntiCheatRepo) GetSession(_ context.Context, tournamentID, userID string) (anticheat.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[anticheat.SessionID(tournamentID, userID)]
	return session, ok, nil
}

func (r *stubAntiCheatRepo) UpdateSession(_ context.Context, tournamentID, userID string, fn func(anticheat.Session) anticheat.Session) (anticheat.Session, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := anticheat.SessionID(tournamentID, userID)
	session, ok := r.sessions[key]
	if !ok {
		return anticheat.Session{}, false, nil
	}
	session = fn(session)
	r.sessions[key] = session
	return session, true, nil
}

func (r *stubAntiCheatRepo) RecordEvent(_ context.Context, item anticheat.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, item)
	return nil
}

func newAntiCheatServiceForTest(t *testing.T, repo anticheat.Repository) *AntiCheatService {
	t.Helper()
	svc, err := NewAntiCheatService(repo, logging.NewNop())
	if err != nil {
		t.Fatalf("new anti-cheat service: %v", err)
	}
	t.Cleanup(svc.Close)
	return svc
}

func TestAntiCheatStartSessionInitializesCounters(t *testing.T) {
	repo := newStubAntiCheatRepo()
	svc := newAntiCheatServiceForTest(t, repo)
	principal := user.Principal{UserID: "u1"}

	if err := svc.StartSession(context.Background(), "t1", principal); err != nil {
		t.Fatalf("start session: %v", err)
	}

	session, ok, _ := repo.GetSession(context.Background(), "t1", "u1")
	if !ok {
		t.Fatal("session not stored")
	}
	if len(session.Counters) != 4 {
		t.Fatalf("expected all four counters initialized, got %+v", session.Counters)
	}
	if session.Flagged {
		t.Fatal("fresh session must not be flagged")
	}
}

func TestAntiCheatRecordEventFlagsAtThreshold(t *testing.T) {
	repo := newStubAntiCheatRepo()
	svc := newAntiCheatServiceForTest(t, repo)
	ctx := context.Background()
	principal := user.Principal{UserID: "u1"}

	if err := svc.StartSession(ctx, "t1", principal); err != nil {
		t.Fatalf("start session: %v", err)
	}

	var session anticheat.Session
	for i := 0; i < 5; i++ {
		var err error
		session, err = svc.RecordEvent(ctx, principal, "t1", anticheat.FlagTabSwitch, "window blur")
		if err != nil {
			t.Fatalf("record event %d: %v", i, err)
		}
	}

	if session.Counters[anticheat.FlagTabSwitch] != 5 {
		t.Fatalf("unexpected counter: %d", session.Counters[anticheat.FlagTabSwitch])
	}
	if !session.Flagged {
		t.Fatal("session should be flagged once a counter reaches the threshold")
	}
}

func TestAntiCheatRecordEventBelowThresholdNotFlagged(t *testing.T) {
	repo := newStubAntiCheatRepo()
	svc := newAntiCheatServiceForTest(t, repo)
	ctx := context.Background()
	principal := user.Principal{UserID: "u1"}

	if err := svc.StartSession(ctx, "t1", principal); err != nil {
		t.Fatalf("start session: %v", err)
	}

	// Four distinct flags once each: no single counter crosses the line.
	for _, flag := range []string{
		anticheat.FlagTabSwitch,
		anticheat.FlagBlur,
		anticheat.FlagCopy,
		anticheat.FlagSuspiciousKeys,
	} {
		session, err := svc.RecordEvent(ctx, principal, "t1", flag, "")
		if err != nil {
			t.Fatalf("record %s: %v", flag, err)
		}
		if session.Flagged {
			t.Fatalf("session flagged too early after %s", flag)
		}
	}
}

func TestAntiCheatConcurrentEventsKeepEveryIncrement(t *testing.T) {
	repo := memory.NewAntiCheatRepository(docstore.New())
	svc := newAntiCheatServiceForTest(t, repo)
	ctx := context.Background()
	principal := user.Principal{UserID: "u1"}

	if err := svc.StartSession(ctx, "t1", principal); err != nil {
		t.Fatalf("start session: %v", err)
	}

	const events = 12
	var wg conc.WaitGroup
	for i := 0; i < events; i++ {
		wg.Go(func() {
			if _, err := svc.RecordEvent(ctx, principal, "t1", anticheat.FlagBlur, ""); err != nil {
				t.Errorf("record event: %v", err)
			}
		})
	}
	wg.Wait()

	session, ok, err := repo.GetSession(ctx, "t1", "u1")
	if err != nil || !ok {
		t.Fatalf("get session: ok=%v err=%v", ok, err)
	}
	if session.Counters[anticheat.FlagBlur] != events {
		t.Fatalf("lost increments: got %d, want %d", session.Counters[anticheat.FlagBlur], events)
	}
	if !session.Flagged {
		t.Fatal("session should be flagged well past the threshold")
	}
}

func TestAntiCheatRecordEventValidation(t *testing.T) {
	repo := newStubAntiCheatRepo()
	svc := newAntiCheatServiceForTest(t, repo)
	ctx := context.Background()
	principal := user.Principal{UserID: "u1"}

	if _, err := svc.RecordEvent(ctx, principal, "t1", "selfDestruct", ""); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown flag, got %v", err)
	}

	if _, err := svc.RecordEvent(ctx, principal, "t1", anticheat.FlagCopy, ""); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound without a session, got %v", err)
	}

	if _, err := svc.RecordEvent(ctx, user.Principal{}, "t1", anticheat.FlagCopy, ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for anonymous caller, got %v", err)
	}
}

func TestAntiCheatStopSessionMissingIsNoOp(t *testing.T) {
	repo := newStubAntiCheatRepo()
	svc := newAntiCheatServiceForTest(t, repo)

	err := svc.StopSession(context.Background(), user.Principal{UserID: "u1"}, "t1")
	if err != nil {
		t.Fatalf("stop without session should be a no-op, got %v", err)
	}
}

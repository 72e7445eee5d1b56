package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/panjf2000/ants/v2"

	"github.com/studyipl/tournament-api/internal/domain/anticheat"
	"github.com/studyipl/tournament-api/internal/domain/user"
	"github.com/studyipl/tournament-api/internal/platform/logging"
)

const (
	antiCheatWorkerPoolSize = 8
	// antiCheatFlagThreshold marks a session once any single counter
	// reaches it.
	antiCheatFlagThreshold = 5
)

// AntiCheatService tracks monitored quiz sessions. Counter updates go
// through the repository's atomic session update; the append-only event
// trail is written through an async worker pool and failures there are
// logged, never surfaced.
type AntiCheatService struct {
	repo   anticheat.Repository
	pool   *ants.Pool
	logger *logging.Logger
	now    func() time.Time
}

func NewAntiCheatService(repo anticheat.Repository, logger *logging.Logger) (*AntiCheatService, error) {
	if logger == nil {
		logger = logging.Default()
	}

	pool, err := ants.NewPool(antiCheatWorkerPoolSize, ants.WithNonblocking(true))
	if err != nil {
		return nil, fmt.Errorf("create anti-cheat worker pool: %w", err)
	}

	return &AntiCheatService{
		repo:   repo,
		pool:   pool,
		logger: logger,
		now:    time.Now,
	}, nil
}

// Close drains the worker pool; pending event writes are abandoned.
func (s *AntiCheatService) Close() {
	if s.pool != nil {
		s.pool.Release()
	}
}

func (s *AntiCheatService) StartSession(ctx context.Context, tournamentID string, principal user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "AntiCheatService.StartSession")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(principal.UserID) == "" {
		return fmt.Errorf("%w: sign in to start a monitored session", ErrUnauthorized)
	}

	counters := make(map[string]int, 4)
	for _, flag := range []string{
		anticheat.FlagTabSwitch,
		anticheat.FlagBlur,
		anticheat.FlagCopy,
		anticheat.FlagSuspiciousKeys,
	} {
		counters[flag] = 0
	}

	err := s.repo.StartSession(ctx, anticheat.Session{
		TournamentID: tournamentID,
		UserID:       principal.UserID,
		StartedAt:    s.now().UTC(),
		Counters:     counters,
	})
	if err != nil {
		return fmt.Errorf("start anti-cheat session: %w", err)
	}
	return nil
}

// RecordEvent bumps the session counter for the flag and queues the raw
// event for the audit trail.
func (s *AntiCheatService) RecordEvent(ctx context.Context, principal user.Principal, tournamentID, flag, detail string) (anticheat.Session, error) {
	ctx, span := startUsecaseSpan(ctx, "AntiCheatService.RecordEvent")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	flag = strings.TrimSpace(flag)
	if tournamentID == "" {
		return anticheat.Session{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(principal.UserID) == "" {
		return anticheat.Session{}, fmt.Errorf("%w: sign in to report events", ErrUnauthorized)
	}
	if !anticheat.ValidFlag(flag) {
		return anticheat.Session{}, fmt.Errorf("%w: unknown flag %q", ErrInvalidInput, flag)
	}

	session, exists, err := s.repo.UpdateSession(ctx, tournamentID, principal.UserID, func(session anticheat.Session) anticheat.Session {
		if session.Counters == nil {
			session.Counters = make(map[string]int, 4)
		}
		session.Counters[flag]++
		if session.Counters[flag] >= antiCheatFlagThreshold {
			session.Flagged = true
		}
		return session
	})
	if err != nil {
		return anticheat.Session{}, fmt.Errorf("update anti-cheat session: %w", err)
	}
	if !exists {
		return anticheat.Session{}, fmt.Errorf("%w: no monitored session for tournament=%s", ErrNotFound, tournamentID)
	}

	s.queueEvent(ctx, anticheat.Event{
		TournamentID: tournamentID,
		UserID:       principal.UserID,
		Flag:         flag,
		Detail:       strings.TrimSpace(detail),
		OccurredAt:   s.now().UTC(),
	})

	return session, nil
}

// StopSession flushes the final counters as one last audit event. Missing
// sessions are a no-op so client teardown can always fire it.
func (s *AntiCheatService) StopSession(ctx context.Context, principal user.Principal, tournamentID string) error {
	ctx, span := startUsecaseSpan(ctx, "AntiCheatService.StopSession")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(principal.UserID) == "" {
		return fmt.Errorf("%w: sign in to stop a monitored session", ErrUnauthorized)
	}

	session, exists, err := s.repo.GetSession(ctx, tournamentID, principal.UserID)
	if err != nil {
		return fmt.Errorf("get anti-cheat session: %w", err)
	}
	if !exists {
		return nil
	}

	detail := fmt.Sprintf("tabSwitch=%d blur=%d copy=%d suspiciousKeys=%d",
		session.Counters[anticheat.FlagTabSwitch],
		session.Counters[anticheat.FlagBlur],
		session.Counters[anticheat.FlagCopy],
		session.Counters[anticheat.FlagSuspiciousKeys],
	)
	s.queueEvent(ctx, anticheat.Event{
		TournamentID: tournamentID,
		UserID:       principal.UserID,
		Flag:         "sessionStop",
		Detail:       detail,
		OccurredAt:   s.now().UTC(),
	})

	return nil
}

func (s *AntiCheatService) queueEvent(ctx context.Context, event anticheat.Event) {
	submitErr := s.pool.Submit(func() {
		// Detached from the request context: the write should survive the
		// response being sent.
		if err := s.repo.RecordEvent(context.Background(), event); err != nil {
			s.logger.WarnContext(ctx, "anti-cheat event write failed",
				"tournament_id", event.TournamentID,
				"flag", event.Flag,
				"error", err,
			)
		}
	})
	if submitErr != nil {
		s.logger.WarnContext(ctx, "anti-cheat event dropped, worker pool saturated",
			"tournament_id", event.TournamentID,
			"flag", event.Flag,
			"error", submitErr,
		)
	}
}

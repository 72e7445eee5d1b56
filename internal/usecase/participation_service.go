package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/studyipl/tournament-api/internal/domain/participation"
	"github.com/studyipl/tournament-api/internal/domain/player"
	"github.com/studyipl/tournament-api/internal/domain/roster"
	"github.com/studyipl/tournament-api/internal/domain/user"
	"github.com/studyipl/tournament-api/internal/platform/logging"
)

const myTournamentsLimit = 10

// ParticipationService owns the join flow and the user's tournament list.
type ParticipationService struct {
	participationRepo participation.Repository
	playerRepo        player.Repository
	rosterRepo        roster.Repository
	presence          *PresenceService
	antiCheat         *AntiCheatService
	logger            *logging.Logger
	now               func() time.Time
}

func NewParticipationService(
	participationRepo participation.Repository,
	playerRepo player.Repository,
	rosterRepo roster.Repository,
	presence *PresenceService,
	antiCheat *AntiCheatService,
	logger *logging.Logger,
) *ParticipationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ParticipationService{
		participationRepo: participationRepo,
		playerRepo:        playerRepo,
		rosterRepo:        rosterRepo,
		presence:          presence,
		antiCheat:         antiCheat,
		logger:            logger,
		now:               time.Now,
	}
}

// Join enters the user into a tournament with their saved roster, or the
// default lineup when no roster is saved. A repeat join returns the stored
// record untouched. On first join, presence and anti-cheat session start
// run concurrently as best-effort side effects.
func (s *ParticipationService) Join(ctx context.Context, principal user.Principal, tournamentID string) (participation.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "ParticipationService.Join")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return participation.Record{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(principal.UserID) == "" {
		return participation.Record{}, fmt.Errorf("%w: sign in to join a tournament", ErrUnauthorized)
	}

	lineup, err := s.resolveLineup(ctx, principal.UserID)
	if err != nil {
		return participation.Record{}, err
	}

	record, err := s.participationRepo.Join(ctx, participation.Record{
		TournamentID: tournamentID,
		UserID:       principal.UserID,
		Lineup:       lineup,
		Points:       0,
		Answers:      map[string]int{},
		JoinedAt:     s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, participation.ErrTournamentNotFound) {
			return participation.Record{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
		}
		if errors.Is(err, participation.ErrTournamentClosed) {
			return participation.Record{}, fmt.Errorf("%w: tournament=%s", ErrTournamentClosed, tournamentID)
		}
		return participation.Record{}, fmt.Errorf("join tournament: %w", err)
	}

	s.runJoinSideEffects(ctx, tournamentID, principal)

	return record, nil
}

func (s *ParticipationService) runJoinSideEffects(ctx context.Context, tournamentID string, principal user.Principal) {
	var wg conc.WaitGroup
	if s.presence != nil {
		wg.Go(func() {
			if err := s.presence.Update(ctx, tournamentID, principal); err != nil {
				s.logger.WarnContext(ctx, "presence update after join failed",
					"tournament_id", tournamentID,
					"error", err,
				)
			}
		})
	}
	if s.antiCheat != nil {
		wg.Go(func() {
			if err := s.antiCheat.StartSession(ctx, tournamentID, principal); err != nil {
				s.logger.WarnContext(ctx, "anti-cheat session start after join failed",
					"tournament_id", tournamentID,
					"error", err,
				)
			}
		})
	}
	wg.Wait()
}

// ListMine returns the caller's join records, newest first, capped at 10.
func (s *ParticipationService) ListMine(ctx context.Context, principal user.Principal) ([]participation.Record, error) {
	ctx, span := startUsecaseSpan(ctx, "ParticipationService.ListMine")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return nil, fmt.Errorf("%w: sign in to list joined tournaments", ErrUnauthorized)
	}

	records, err := s.participationRepo.ListByUser(ctx, principal.UserID, myTournamentsLimit)
	if err != nil {
		return nil, fmt.Errorf("list joined tournaments: %w", err)
	}
	return records, nil
}

func (s *ParticipationService) resolveLineup(ctx context.Context, userID string) ([]player.Player, error) {
	saved, exists, err := s.rosterRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get saved roster: %w", err)
	}
	if exists && len(saved.Players) == roster.LineupSize {
		return saved.Players, nil
	}

	pool, err := s.playerRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list player pool: %w", err)
	}
	return roster.DefaultLineup(pool), nil
}

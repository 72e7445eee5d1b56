package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/tournament"
	"github.com/studyipl/tournament-api/internal/domain/user"
	"github.com/studyipl/tournament-api/internal/platform/cache"
	"github.com/studyipl/tournament-api/internal/platform/id"
)

const (
	activeTournamentsCacheKey = "tournaments:active"
	activeTournamentsLimit    = 10
)

type CreateTournamentInput struct {
	Name         string
	StartTime    time.Time
	SubjectFocus string
	PrizePool    int64
	Description  string
	MatchFormat  string
	PlayerCount  int
}

type TournamentService struct {
	repo        tournament.Repository
	listCache   *cache.Store
	idGenerator id.Generator
	now         func() time.Time
}

func NewTournamentService(repo tournament.Repository, listCache *cache.Store, idGenerator id.Generator) *TournamentService {
	return &TournamentService{
		repo:        repo,
		listCache:   listCache,
		idGenerator: idGenerator,
		now:         time.Now,
	}
}

func (s *TournamentService) GetByID(ctx context.Context, tournamentID string) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "TournamentService.GetByID")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	item, exists, err := s.repo.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("get tournament: %w", err)
	}
	if !exists {
		return tournament.Tournament{}, fmt.Errorf("%w: tournament=%s", ErrNotFound, tournamentID)
	}

	return item, nil
}

// ListLive returns live and upcoming tournaments ordered by start time,
// capped at 10.
func (s *TournamentService) ListLive(ctx context.Context) ([]tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "TournamentService.ListLive")
	defer span.End()

	if s.listCache == nil {
		return s.repo.ListActive(ctx, activeTournamentsLimit)
	}

	value, err := s.listCache.GetOrLoad(ctx, activeTournamentsCacheKey, func(ctx context.Context) (any, error) {
		return s.repo.ListActive(ctx, activeTournamentsLimit)
	})
	if err != nil {
		return nil, fmt.Errorf("list live tournaments: %w", err)
	}

	items, ok := value.([]tournament.Tournament)
	if !ok {
		return nil, fmt.Errorf("unexpected tournament list cache type %T", value)
	}
	return append([]tournament.Tournament(nil), items...), nil
}

func (s *TournamentService) Create(ctx context.Context, principal user.Principal, input CreateTournamentInput) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "TournamentService.Create")
	defer span.End()

	if !principal.Admin {
		return tournament.Tournament{}, fmt.Errorf("%w: admin access required", ErrUnauthorized)
	}

	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return tournament.Tournament{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if input.StartTime.IsZero() {
		return tournament.Tournament{}, fmt.Errorf("%w: start_time is required", ErrInvalidInput)
	}

	tournamentID, err := s.idGenerator.NewID()
	if err != nil {
		return tournament.Tournament{}, fmt.Errorf("generate tournament id: %w", err)
	}

	item := tournament.Tournament{
		ID:           tournamentID,
		Name:         input.Name,
		Status:       tournament.StatusUpcoming,
		StartTime:    input.StartTime.UTC(),
		SubjectFocus: strings.TrimSpace(input.SubjectFocus),
		PrizePool:    input.PrizePool,
		Description:  strings.TrimSpace(input.Description),
		MatchFormat:  strings.TrimSpace(input.MatchFormat),
		PlayerCount:  input.PlayerCount,
		CreatedAt:    s.now().UTC(),
	}
	if err := item.Validate(); err != nil {
		return tournament.Tournament{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return tournament.Tournament{}, fmt.Errorf("create tournament: %w", err)
	}
	s.invalidateListing(ctx)

	return item, nil
}

// UpdateStatus moves the lifecycle forward only; a completed tournament
// never reopens.
func (s *TournamentService) UpdateStatus(ctx context.Context, principal user.Principal, tournamentID string, next tournament.Status) (tournament.Tournament, error) {
	ctx, span := startUsecaseSpan(ctx, "TournamentService.UpdateStatus")
	defer span.End()

	if !principal.Admin {
		return tournament.Tournament{}, fmt.Errorf("%w: admin access required", ErrUnauthorized)
	}
	if !next.Valid() {
		return tournament.Tournament{}, fmt.Errorf("%w: invalid status %q", ErrInvalidInput, next)
	}

	current, err := s.GetByID(ctx, tournamentID)
	if err != nil {
		return tournament.Tournament{}, err
	}
	if !current.Status.CanTransitionTo(next) {
		return tournament.Tournament{}, fmt.Errorf("%w: cannot move tournament from %s to %s", ErrInvalidInput, current.Status, next)
	}

	if err := s.repo.UpdateStatus(ctx, tournamentID, next); err != nil {
		return tournament.Tournament{}, fmt.Errorf("update tournament status: %w", err)
	}
	s.invalidateListing(ctx)

	current.Status = next
	return current, nil
}

func (s *TournamentService) invalidateListing(ctx context.Context) {
	if s.listCache != nil {
		s.listCache.Delete(ctx, activeTournamentsCacheKey)
	}
}

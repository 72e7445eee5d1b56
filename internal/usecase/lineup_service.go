package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/player"
	"github.com/studyipl/tournament-api/internal/domain/roster"
	"github.com/studyipl/tournament-api/internal/platform/cache"
)

const playerPoolCacheKey = "players:pool"

// LineupService serves the player pool, the default lineup and saved
// rosters.
type LineupService struct {
	playerRepo player.Repository
	rosterRepo roster.Repository
	poolCache  *cache.Store
	now        func() time.Time
}

func NewLineupService(playerRepo player.Repository, rosterRepo roster.Repository, poolCache *cache.Store) *LineupService {
	return &LineupService{
		playerRepo: playerRepo,
		rosterRepo: rosterRepo,
		poolCache:  poolCache,
		now:        time.Now,
	}
}

func (s *LineupService) ListPlayers(ctx context.Context) ([]player.Player, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.ListPlayers")
	defer span.End()

	if s.poolCache == nil {
		return s.playerRepo.ListAll(ctx)
	}

	value, err := s.poolCache.GetOrLoad(ctx, playerPoolCacheKey, func(ctx context.Context) (any, error) {
		return s.playerRepo.ListAll(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}

	pool, ok := value.([]player.Player)
	if !ok {
		return nil, fmt.Errorf("unexpected player pool cache type %T", value)
	}
	return append([]player.Player(nil), pool...), nil
}

// DefaultLineup returns the top-11 selection with its computed power.
func (s *LineupService) DefaultLineup(ctx context.Context) ([]player.Player, int, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.DefaultLineup")
	defer span.End()

	pool, err := s.ListPlayers(ctx)
	if err != nil {
		return nil, 0, err
	}

	lineup := roster.DefaultLineup(pool)
	return lineup, roster.Power(lineup), nil
}

func (s *LineupService) GetRoster(ctx context.Context, userID string) (roster.Roster, int, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.GetRoster")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Roster{}, 0, false, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}

	item, exists, err := s.rosterRepo.GetByUser(ctx, userID)
	if err != nil {
		return roster.Roster{}, 0, false, fmt.Errorf("get roster: %w", err)
	}
	if !exists {
		return roster.Roster{}, 0, false, nil
	}

	return item, roster.Power(item.Players), true, nil
}

// SaveRoster replaces the user's saved team. Only complete lineups are
// accepted; drafts stay client-side.
func (s *LineupService) SaveRoster(ctx context.Context, userID string, playerIDs []string) (roster.Roster, int, error) {
	ctx, span := startUsecaseSpan(ctx, "LineupService.SaveRoster")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return roster.Roster{}, 0, fmt.Errorf("%w: user_id is required", ErrUnauthorized)
	}

	cleaned := make([]string, 0, len(playerIDs))
	for _, id := range playerIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			return roster.Roster{}, 0, fmt.Errorf("%w: player id cannot be empty", ErrInvalidInput)
		}
		cleaned = append(cleaned, id)
	}

	players, err := s.playerRepo.GetByIDs(ctx, cleaned)
	if err != nil {
		return roster.Roster{}, 0, fmt.Errorf("get players by ids: %w", err)
	}
	if len(players) != len(cleaned) {
		return roster.Roster{}, 0, fmt.Errorf("%w: some players are not in the pool", ErrInvalidInput)
	}

	if err := roster.ValidateComplete(players); err != nil {
		return roster.Roster{}, 0, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	item := roster.Roster{
		UserID:    userID,
		Players:   players,
		UpdatedAt: s.now().UTC(),
	}
	if err := s.rosterRepo.Save(ctx, item); err != nil {
		return roster.Roster{}, 0, fmt.Errorf("save roster: %w", err)
	}

	return item, roster.Power(item.Players), nil
}

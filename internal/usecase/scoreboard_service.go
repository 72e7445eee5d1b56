package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/scoreboard"
	"github.com/studyipl/tournament-api/internal/domain/user"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

const (
	teamRankCap = 10
	mvpRankCap  = 10
)

// liveDocumentWatcher is the streaming side of a document-store backed
// repository: Watch yields the current document for a tournament key, then
// every subsequent change, until the subscription is closed.
type liveDocumentWatcher interface {
	Watch(ctx context.Context, tournamentID string) (*docstore.Subscription, error)
}

// ScoreboardService ranks snapshots for display. Point totals come from the
// external scoring process; this service never mutates them.
type ScoreboardService struct {
	repo scoreboard.Repository
	now  func() time.Time
}

func NewScoreboardService(repo scoreboard.Repository) *ScoreboardService {
	return &ScoreboardService{
		repo: repo,
		now:  time.Now,
	}
}

// GetRanked returns the tournament snapshot with teams and MVPs ordered by
// points descending, stable on ties, truncated after ranking.
func (s *ScoreboardService) GetRanked(ctx context.Context, tournamentID string) (scoreboard.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoreboardService.GetRanked")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return scoreboard.Snapshot{}, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	snapshot, exists, err := s.repo.GetByTournament(ctx, tournamentID)
	if err != nil {
		return scoreboard.Snapshot{}, fmt.Errorf("get scoreboard: %w", err)
	}
	if !exists {
		return scoreboard.Snapshot{}, fmt.Errorf("%w: no scoreboard for tournament=%s", ErrNotFound, tournamentID)
	}

	snapshot.Teams = scoreboard.RankTeams(snapshot.Teams, teamRankCap)
	snapshot.MVPs = scoreboard.RankMVPs(snapshot.MVPs, mvpRankCap)

	return snapshot, nil
}

// Watch streams scoreboard updates for one tournament: the stored snapshot
// first, then every publish. Callers own the subscription and must Close
// it. Drivers without change streams report ErrDependencyUnavailable.
func (s *ScoreboardService) Watch(ctx context.Context, tournamentID string) (*docstore.Subscription, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoreboardService.Watch")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	watcher, ok := s.repo.(liveDocumentWatcher)
	if !ok {
		return nil, fmt.Errorf("%w: storage driver does not stream scoreboard changes", ErrDependencyUnavailable)
	}
	sub, err := watcher.Watch(ctx, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("watch scoreboard: %w", err)
	}
	return sub, nil
}

// Publish stores a snapshot sent by the scoring process's sync job.
func (s *ScoreboardService) Publish(ctx context.Context, principal user.Principal, snapshot scoreboard.Snapshot) error {
	ctx, span := startUsecaseSpan(ctx, "ScoreboardService.Publish")
	defer span.End()

	if !principal.Admin {
		return fmt.Errorf("%w: admin access required", ErrUnauthorized)
	}

	snapshot.TournamentID = strings.TrimSpace(snapshot.TournamentID)
	if snapshot.TournamentID == "" {
		return fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	for _, team := range snapshot.Teams {
		if strings.TrimSpace(team.Name) == "" {
			return fmt.Errorf("%w: team name cannot be empty", ErrInvalidInput)
		}
	}

	snapshot.UpdatedAt = s.now().UTC()
	if err := s.repo.Publish(ctx, snapshot); err != nil {
		return fmt.Errorf("publish scoreboard: %w", err)
	}
	return nil
}

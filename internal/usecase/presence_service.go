package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/presence"
	"github.com/studyipl/tournament-api/internal/domain/user"
)

const presenceListLimit = 20

type PresenceService struct {
	repo presence.Repository
	now  func() time.Time
}

func NewPresenceService(repo presence.Repository) *PresenceService {
	return &PresenceService{
		repo: repo,
		now:  time.Now,
	}
}

// Update upserts the caller's presence entry for a tournament room.
func (s *PresenceService) Update(ctx context.Context, tournamentID string, principal user.Principal) error {
	ctx, span := startUsecaseSpan(ctx, "PresenceService.Update")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}
	if strings.TrimSpace(principal.UserID) == "" {
		return fmt.Errorf("%w: sign in to report presence", ErrUnauthorized)
	}

	displayName := strings.TrimSpace(principal.DisplayName)
	if displayName == "" {
		displayName = principal.UserID
	}

	err := s.repo.Upsert(ctx, presence.Entry{
		TournamentID: tournamentID,
		UserID:       principal.UserID,
		DisplayName:  displayName,
		Online:       true,
		LastSeen:     s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("upsert presence: %w", err)
	}
	return nil
}

// List returns the most recent presence entries for a tournament, newest
// first, capped at 20.
func (s *PresenceService) List(ctx context.Context, tournamentID string) ([]presence.Entry, error) {
	ctx, span := startUsecaseSpan(ctx, "PresenceService.List")
	defer span.End()

	tournamentID = strings.TrimSpace(tournamentID)
	if tournamentID == "" {
		return nil, fmt.Errorf("%w: tournament_id is required", ErrInvalidInput)
	}

	entries, err := s.repo.ListByTournament(ctx, tournamentID, presenceListLimit)
	if err != nil {
		return nil, fmt.Errorf("list presence: %w", err)
	}
	return entries, nil
}

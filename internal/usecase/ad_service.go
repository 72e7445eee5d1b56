package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"
)

const defaultAdRotationInterval = 15 * time.Second

// Ad is one creative from the fixed inventory.
type Ad struct {
	ID       string
	Headline string
	Body     string
	CTA      string
}

// DefaultAdInventory mirrors the three house ads of the original deploy.
func DefaultAdInventory() []Ad {
	return []Ad{
		{
			ID:       "ad_flashlearn",
			Headline: "FlashLearn Pro - Master Any Chapter in 15 Minutes",
			Body:     "Premium flashcards, adaptive quizzes, and AI-generated summaries.",
			CTA:      "Try FlashLearn Pro",
		},
		{
			ID:       "ad_notebuilder",
			Headline: "NoteBuilder - AI Notes for Busy Students",
			Body:     "Upload your syllabus and get exam-ready notes instantly.",
			CTA:      "Generate Notes",
		},
		{
			ID:       "ad_zenfocus",
			Headline: "ZenFocus Timer",
			Body:     "64-minute pomodoro cycles with binaural study sounds.",
			CTA:      "Start Focus Session",
		},
	}
}

// AdService rotates the fixed inventory deterministically: the creative at
// instant t is inventory[(t/interval) mod len]. No goroutine owns rotation
// state; every caller computes the same ad from the clock.
type AdService struct {
	inventory []Ad
	interval  time.Duration
	premium   *PremiumService
	now       func() time.Time
}

func NewAdService(inventory []Ad, interval time.Duration, premium *PremiumService) *AdService {
	if len(inventory) == 0 {
		inventory = DefaultAdInventory()
	}
	if interval <= 0 {
		interval = defaultAdRotationInterval
	}

	return &AdService{
		inventory: inventory,
		interval:  interval,
		premium:   premium,
		now:       time.Now,
	}
}

// Current returns the ad for the caller, or none for premium-active users.
// Anonymous callers always see ads.
func (s *AdService) Current(ctx context.Context, userID string) (Ad, bool, error) {
	ctx, span := startUsecaseSpan(ctx, "AdService.Current")
	defer span.End()

	if userID = strings.TrimSpace(userID); userID != "" && s.premium != nil {
		status, err := s.premium.Status(ctx, userID)
		if err != nil {
			return Ad{}, false, fmt.Errorf("check premium before ad: %w", err)
		}
		if status.Active {
			return Ad{}, false, nil
		}
	}

	return s.AdAt(s.now()), true, nil
}

// AdAt is the pure rotation function.
func (s *AdService) AdAt(t time.Time) Ad {
	slot := t.UnixNano() / int64(s.interval)
	idx := int(slot % int64(len(s.inventory)))
	if idx < 0 {
		idx += len(s.inventory)
	}
	return s.inventory[idx]
}

package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/premium"
)

type stubPremiumRepo struct {
	statuses map[string]premium.Status
}

func (r *stubPremiumRepo) GetByUser(_ context.Context, userID string) (premium.Status, bool, error) {
	status, ok := r.statuses[userID]
	return status, ok, nil
}

func (r *stubPremiumRepo) Save(_ context.Context, item premium.Status) error {
	if r.statuses == nil {
		r.statuses = make(map[string]premium.Status)
	}
	r.statuses[item.UserID] = item
	return nil
}

func TestAdAtRotationIsDeterministic(t *testing.T) {
	inventory := DefaultAdInventory()
	svc := NewAdService(inventory, 15*time.Second, nil)

	base := time.Unix(0, 0)
	for slot := 0; slot < 6; slot++ {
		at := base.Add(time.Duration(slot) * 15 * time.Second)
		want := inventory[slot%len(inventory)]

		got := svc.AdAt(at)
		if got.ID != want.ID {
			t.Fatalf("slot %d: got=%s want=%s", slot, got.ID, want.ID)
		}
		// Any instant inside the same slot yields the same creative.
		if again := svc.AdAt(at.Add(14 * time.Second)); again.ID != want.ID {
			t.Fatalf("slot %d not stable within interval: got=%s want=%s", slot, again.ID, want.ID)
		}
	}
}

func TestAdCurrentForAnonymousCaller(t *testing.T) {
	svc := NewAdService(nil, 15*time.Second, nil)

	ad, ok, err := svc.Current(context.Background(), "")
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if !ok || ad.ID == "" {
		t.Fatalf("anonymous caller should always get an ad: ok=%v ad=%+v", ok, ad)
	}
}

func TestAdCurrentSkipsPremiumMembers(t *testing.T) {
	repo := &stubPremiumRepo{statuses: map[string]premium.Status{
		"u-premium": {UserID: "u-premium", Active: true},
	}}
	premiumSvc := NewPremiumService(repo, nil)
	svc := NewAdService(nil, 15*time.Second, premiumSvc)

	_, ok, err := svc.Current(context.Background(), "u-premium")
	if err != nil {
		t.Fatalf("current for premium: %v", err)
	}
	if ok {
		t.Fatal("premium member should not receive an ad")
	}

	ad, ok, err := svc.Current(context.Background(), "u-free")
	if err != nil {
		t.Fatalf("current for free user: %v", err)
	}
	if !ok || ad.ID == "" {
		t.Fatalf("free user should receive an ad: ok=%v ad=%+v", ok, ad)
	}
}

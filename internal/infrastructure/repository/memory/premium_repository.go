package memory

import (
	"context"
	"fmt"

	"github.com/studyipl/tournament-api/internal/domain/premium"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

type PremiumRepository struct {
	store *docstore.Store
}

func NewPremiumRepository(store *docstore.Store) *PremiumRepository {
	return &PremiumRepository{store: store}
}

func (r *PremiumRepository) GetByUser(ctx context.Context, userID string) (premium.Status, bool, error) {
	doc, ok, err := r.store.Get(ctx, collPremium, userID)
	if err != nil {
		return premium.Status{}, false, fmt.Errorf("get premium status: %w", err)
	}
	if !ok {
		return premium.Status{}, false, nil
	}

	return premium.Status{
		UserID:      userID,
		Active:      docBool(doc, "active"),
		Plan:        docString(doc, "plan"),
		OrderID:     docString(doc, "orderId"),
		PaymentID:   docString(doc, "paymentId"),
		ActivatedAt: docTime(doc, "activatedAt"),
	}, true, nil
}

func (r *PremiumRepository) Save(ctx context.Context, item premium.Status) error {
	err := r.store.Upsert(ctx, collPremium, item.UserID, docstore.Document{
		"active":      item.Active,
		"plan":        item.Plan,
		"orderId":     item.OrderID,
		"paymentId":   item.PaymentID,
		"activatedAt": item.ActivatedAt,
	}, true)
	if err != nil {
		return fmt.Errorf("save premium status: %w", err)
	}
	return nil
}

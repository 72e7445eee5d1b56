package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/premium"
	"github.com/studyipl/tournament-api/internal/domain/user"
)

const (
	premiumPlanID = "studysnaps-premium-monthly"
	// premiumPlanAmount is in minor currency units (INR paise).
	premiumPlanAmount   = 19900
	premiumPlanCurrency = "INR"
)

// PaymentOrder is a gateway order as returned to the checkout flow. Amount
// is in minor currency units.
type PaymentOrder struct {
	ID       string
	Amount   int64
	Currency string
	Receipt  string
	Status   string
}

// paymentGateway is the slice of the gateway client the premium flow needs.
type paymentGateway interface {
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (PaymentOrder, error)
	VerifySignature(orderID, paymentID, signature string) bool
}

// PremiumService runs the upgrade flow: create a gateway order, verify the
// checkout signature, persist the membership.
type PremiumService struct {
	repo    premium.Repository
	gateway paymentGateway
	now     func() time.Time
}

func NewPremiumService(repo premium.Repository, gateway paymentGateway) *PremiumService {
	return &PremiumService{
		repo:    repo,
		gateway: gateway,
		now:     time.Now,
	}
}

func (s *PremiumService) CreateOrder(ctx context.Context, principal user.Principal) (PaymentOrder, error) {
	ctx, span := startUsecaseSpan(ctx, "PremiumService.CreateOrder")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return PaymentOrder{}, fmt.Errorf("%w: sign in to upgrade", ErrUnauthorized)
	}

	receipt := fmt.Sprintf("%s-%s", premiumPlanID, principal.UserID)
	order, err := s.gateway.CreateOrder(ctx, premiumPlanAmount, premiumPlanCurrency, receipt)
	if err != nil {
		return PaymentOrder{}, fmt.Errorf("create premium order: %w", err)
	}

	return order, nil
}

// Activate verifies the checkout callback signature and flips the user's
// membership on. A bad signature is unauthorized, not invalid input: it
// means the callback did not come from the gateway.
func (s *PremiumService) Activate(ctx context.Context, principal user.Principal, orderID, paymentID, signature string) (premium.Status, error) {
	ctx, span := startUsecaseSpan(ctx, "PremiumService.Activate")
	defer span.End()

	if strings.TrimSpace(principal.UserID) == "" {
		return premium.Status{}, fmt.Errorf("%w: sign in to activate premium", ErrUnauthorized)
	}

	orderID = strings.TrimSpace(orderID)
	paymentID = strings.TrimSpace(paymentID)
	signature = strings.TrimSpace(signature)
	if orderID == "" || paymentID == "" || signature == "" {
		return premium.Status{}, fmt.Errorf("%w: order_id, payment_id and signature are required", ErrInvalidInput)
	}

	if !s.gateway.VerifySignature(orderID, paymentID, signature) {
		return premium.Status{}, fmt.Errorf("%w: payment signature mismatch", ErrUnauthorized)
	}

	status := premium.Status{
		UserID:      principal.UserID,
		Active:      true,
		Plan:        premiumPlanID,
		OrderID:     orderID,
		PaymentID:   paymentID,
		ActivatedAt: s.now().UTC(),
	}
	if err := s.repo.Save(ctx, status); err != nil {
		return premium.Status{}, fmt.Errorf("save premium status: %w", err)
	}

	return status, nil
}

// Status reads the caller's membership; an absent record means free tier.
func (s *PremiumService) Status(ctx context.Context, userID string) (premium.Status, error) {
	ctx, span := startUsecaseSpan(ctx, "PremiumService.Status")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return premium.Status{}, fmt.Errorf("%w: sign in to check premium status", ErrUnauthorized)
	}

	status, exists, err := s.repo.GetByUser(ctx, userID)
	if err != nil {
		return premium.Status{}, fmt.Errorf("get premium status: %w", err)
	}
	if !exists {
		return premium.Status{UserID: userID, Active: false}, nil
	}

	return status, nil
}

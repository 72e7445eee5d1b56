package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/mock"

	"github.com/studyipl/tournament-api/internal/domain/user"
)

type gatewayMock struct {
	mock.Mock
}

func (m *gatewayMock) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (PaymentOrder, error) {
	args := m.Called(ctx, amount, currency, receipt)
	return args.Get(0).(PaymentOrder), args.Error(1)
}

func (m *gatewayMock) VerifySignature(orderID, paymentID, signature string) bool {
	args := m.Called(orderID, paymentID, signature)
	return args.Bool(0)
}

func TestPremiumCreateOrder(t *testing.T) {
	gateway := &gatewayMock{}
	svc := NewPremiumService(&stubPremiumRepo{}, gateway)
	ctx := context.Background()

	gateway.
		On("CreateOrder", mock.Anything, int64(19900), "INR", "studysnaps-premium-monthly-u1").
		Return(PaymentOrder{ID: "order_1", Amount: 19900, Currency: "INR", Status: "created"}, nil).
		Once()

	order, err := svc.CreateOrder(ctx, user.Principal{UserID: "u1"})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if order.ID != "order_1" {
		t.Fatalf("unexpected order id: %s", order.ID)
	}
	gateway.AssertExpectations(t)
}

func TestPremiumCreateOrderRequiresAuth(t *testing.T) {
	svc := NewPremiumService(&stubPremiumRepo{}, &gatewayMock{})

	_, err := svc.CreateOrder(context.Background(), user.Principal{})
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestPremiumActivate(t *testing.T) {
	gateway := &gatewayMock{}
	repo := &stubPremiumRepo{}
	svc := NewPremiumService(repo, gateway)
	ctx := context.Background()

	gateway.
		On("VerifySignature", "order_1", "pay_1", "sig_ok").
		Return(true).
		Once()

	status, err := svc.Activate(ctx, user.Principal{UserID: "u1"}, "order_1", "pay_1", "sig_ok")
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if !status.Active || status.Plan != "studysnaps-premium-monthly" {
		t.Fatalf("unexpected status: %+v", status)
	}

	stored, ok, _ := repo.GetByUser(ctx, "u1")
	if !ok || !stored.Active {
		t.Fatalf("membership not persisted: ok=%v status=%+v", ok, stored)
	}
	gateway.AssertExpectations(t)
}

func TestPremiumActivateSignatureMismatch(t *testing.T) {
	gateway := &gatewayMock{}
	repo := &stubPremiumRepo{}
	svc := NewPremiumService(repo, gateway)

	gateway.
		On("VerifySignature", "order_1", "pay_1", "sig_bad").
		Return(false).
		Once()

	_, err := svc.Activate(context.Background(), user.Principal{UserID: "u1"}, "order_1", "pay_1", "sig_bad")
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for bad signature, got %v", err)
	}

	if _, ok, _ := repo.GetByUser(context.Background(), "u1"); ok {
		t.Fatal("failed activation must not persist a membership")
	}
	gateway.AssertExpectations(t)
}

func TestPremiumActivateValidation(t *testing.T) {
	svc := NewPremiumService(&stubPremiumRepo{}, &gatewayMock{})

	_, err := svc.Activate(context.Background(), user.Principal{UserID: "u1"}, "order_1", "", "sig")
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestPremiumStatusDefaultsToFreeTier(t *testing.T) {
	svc := NewPremiumService(&stubPremiumRepo{}, &gatewayMock{})

	status, err := svc.Status(context.Background(), "u-free")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if status.Active {
		t.Fatal("unknown user should be on the free tier")
	}
	if status.UserID != "u-free" {
		t.Fatalf("unexpected user id: %s", status.UserID)
	}
}

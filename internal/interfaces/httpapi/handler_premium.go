package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/studyipl/tournament-api/internal/usecase"
)

func (h *Handler) CreatePremiumOrder(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePremiumOrder")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	order, err := h.premiumService.CreateOrder(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "create premium order failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, paymentOrderToDTO(ctx, order))
}

func (h *Handler) ActivatePremium(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ActivatePremium")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req activatePremiumRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	status, err := h.premiumService.Activate(ctx, principal, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		h.logger.WarnContext(ctx, "premium activation failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, premiumStatusToDTO(ctx, status))
}

func (h *Handler) GetPremiumStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetPremiumStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	status, err := h.premiumService.Status(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get premium status failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, premiumStatusToDTO(ctx, status))
}

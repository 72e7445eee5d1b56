package httpapi

import (
	"fmt"
	"net/http"

	jsoniter "github.com/json-iterator/go"

	"github.com/studyipl/tournament-api/internal/usecase"
)

func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPlayers")
	defer span.End()

	pool, err := h.lineupService.ListPlayers(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list players failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, playersToDTO(pool))
}

func (h *Handler) GetDefaultLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetDefaultLineup")
	defer span.End()

	lineup, power, err := h.lineupService.DefaultLineup(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "default lineup failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupDTO{
		Players: playersToDTO(lineup),
		Power:   power,
	})
}

func (h *Handler) GetMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	item, power, exists, err := h.lineupService.GetRoster(ctx, principal.UserID)
	if err != nil {
		h.logger.WarnContext(ctx, "get roster failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}
	if !exists {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ctx, item, power))
}

func (h *Handler) SaveMyTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SaveMyTeam")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req saveTeamRequest
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

	item, power, err := h.lineupService.SaveRoster(ctx, principal.UserID, req.PlayerIDs)
	if err != nil {
		h.logger.WarnContext(ctx, "save roster failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, rosterToDTO(ctx, item, power))
}

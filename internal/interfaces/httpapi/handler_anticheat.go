package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/studyipl/tournament-api/internal/usecase"
)

func (h *Handler) StartAntiCheatSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StartAntiCheatSession")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req startAntiCheatSessionRequest
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

	if err := h.antiCheatService.StartSession(ctx, req.TournamentID, principal); err != nil {
		h.logger.WarnContext(ctx, "start monitored session failed",
			"tournament_id", req.TournamentID,
			"user_id", principal.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, map[string]string{
		"tournamentId": req.TournamentID,
		"status":       "monitoring",
	})
}

func (h *Handler) ReportAntiCheatEvent(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReportAntiCheatEvent")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req reportAntiCheatEventRequest
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

	session, err := h.antiCheatService.RecordEvent(ctx, principal, req.TournamentID, req.Flag, req.Detail)
	if err != nil {
		h.logger.WarnContext(ctx, "record monitored event failed",
			"tournament_id", req.TournamentID,
			"user_id", principal.UserID,
			"flag", req.Flag,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, antiCheatSessionToDTO(ctx, session))
}

func (h *Handler) StopAntiCheatSession(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.StopAntiCheatSession")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := strings.TrimSpace(r.URL.Query().Get("tournament_id"))
	if err := h.antiCheatService.StopSession(ctx, principal, tournamentID); err != nil {
		h.logger.WarnContext(ctx, "stop monitored session failed",
			"tournament_id", tournamentID,
			"user_id", principal.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{
		"tournamentId": tournamentID,
		"status":       "stopped",
	})
}

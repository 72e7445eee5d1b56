package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/studyipl/tournament-api/internal/usecase"
)

func (h *Handler) ListTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTournaments")
	defer span.End()

	items, err := h.tournamentService.ListLive(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list tournaments failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]tournamentDTO, 0, len(items))
	for _, t := range items {
		out = append(out, tournamentToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) JoinTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.JoinTournament")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	record, err := h.participationService.Join(ctx, principal, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "join tournament failed",
			"tournament_id", tournamentID,
			"user_id", principal.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participationToDTO(ctx, record))
}

func (h *Handler) ListMyTournaments(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyTournaments")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	records, err := h.participationService.ListMine(ctx, principal)
	if err != nil {
		h.logger.WarnContext(ctx, "list my tournaments failed", "user_id", principal.UserID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]participationDTO, 0, len(records))
	for _, record := range records {
		out = append(out, participationToDTO(ctx, record))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CreateTournament(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTournament")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createTournamentRequest
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

	startTime, err := parseRFC3339(req.StartTime)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: start_time must be RFC3339: %v", usecase.ErrInvalidInput, err))
		return
	}

	item, err := h.tournamentService.Create(ctx, principal, usecase.CreateTournamentInput{
		Name:         req.Name,
		StartTime:    startTime,
		SubjectFocus: req.SubjectFocus,
		PrizePool:    req.PrizePool,
		Description:  req.Description,
		MatchFormat:  req.MatchFormat,
		PlayerCount:  req.PlayerCount,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create tournament failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, tournamentToDTO(ctx, item))
}

func (h *Handler) UpdateTournamentStatus(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTournamentStatus")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	var req updateTournamentStatusRequest
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

	item, err := h.tournamentService.UpdateStatus(ctx, principal, tournamentID, tournamentStatusFromString(req.Status))
	if err != nil {
		h.logger.WarnContext(ctx, "update tournament status failed",
			"tournament_id", tournamentID,
			"status", req.Status,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tournamentToDTO(ctx, item))
}

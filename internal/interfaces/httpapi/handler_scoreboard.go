package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"github.com/studyipl/tournament-api/internal/domain/scoreboard"
	"github.com/studyipl/tournament-api/internal/usecase"
)

func (h *Handler) GetScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetScoreboard")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	snapshot, err := h.scoreboardService.GetRanked(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get scoreboard failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, scoreboardToDTO(ctx, snapshot))
}

func (h *Handler) PublishScoreboard(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishScoreboard")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	var req publishScoreboardRequest
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

	snapshot := scoreboard.Snapshot{TournamentID: tournamentID}
	for _, t := range req.Teams {
		snapshot.Teams = append(snapshot.Teams, scoreboard.TeamStanding{Name: t.Name, Captain: t.Captain, Points: t.Points})
	}
	for _, m := range req.MVPs {
		snapshot.MVPs = append(snapshot.MVPs, scoreboard.MVPStanding{Name: m.Name, Subject: m.Subject, Points: m.Points})
	}
	for _, e := range req.Momentum {
		snapshot.Momentum = append(snapshot.Momentum, scoreboard.MomentumEvent{Time: e.Time, Event: e.Event})
	}

	if err := h.scoreboardService.Publish(ctx, principal, snapshot); err != nil {
		h.logger.WarnContext(ctx, "publish scoreboard failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"tournamentId": tournamentID, "status": "published"})
}

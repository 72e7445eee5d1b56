package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) ListPresence(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListPresence")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	entries, err := h.presenceService.List(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "list presence failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]presenceEntryDTO, 0, len(entries))
	for _, entry := range entries {
		out = append(out, presenceToDTO(ctx, entry))
	}

	writeSuccess(ctx, w, http.StatusOK, out)
}

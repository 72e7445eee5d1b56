package httpapi

import "net/http"

// GetCurrentAd returns the rotation slot's creative. Premium members get an
// empty body; the client hides the banner on a nil data field.
func (h *Handler) GetCurrentAd(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetCurrentAd")
	defer span.End()

	userID := ""
	if principal, ok := principalFromContext(ctx); ok {
		userID = principal.UserID
	}

	ad, show, err := h.adService.Current(ctx, userID)
	if err != nil {
		h.logger.WarnContext(ctx, "resolve current ad failed", "error", err)
		writeError(ctx, w, err)
		return
	}
	if !show {
		writeSuccess(ctx, w, http.StatusOK, nil)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, adToDTO(ad))
}

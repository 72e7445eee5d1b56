package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicDomainRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.HandleFunc("GET /v1/players", handler.ListPlayers)
	mux.HandleFunc("GET /v1/players/default-lineup", handler.GetDefaultLineup)
	mux.HandleFunc("GET /v1/tournaments", handler.ListTournaments)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/scoreboard", handler.GetScoreboard)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/question", handler.GetActiveQuestion)
	mux.HandleFunc("GET /v1/tournaments/{tournamentID}/presence", handler.ListPresence)
	mux.Handle("GET /v1/ads/current", OptionalAuth(verifier, http.HandlerFunc(handler.GetCurrentAd)))
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/tournaments/{tournamentID}/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinTournament)))
	mux.Handle("POST /v1/tournaments/{tournamentID}/matches/{matchID}/answers", RequireAuth(verifier, http.HandlerFunc(handler.SubmitAnswer)))

	mux.Handle("GET /v1/me/tournaments", RequireAuth(verifier, http.HandlerFunc(handler.ListMyTournaments)))
	mux.Handle("GET /v1/me/team", RequireAuth(verifier, http.HandlerFunc(handler.GetMyTeam)))
	mux.Handle("PUT /v1/me/team", RequireAuth(verifier, http.HandlerFunc(handler.SaveMyTeam)))

	mux.Handle("POST /v1/premium/orders", RequireAuth(verifier, http.HandlerFunc(handler.CreatePremiumOrder)))
	mux.Handle("POST /v1/premium/activate", RequireAuth(verifier, http.HandlerFunc(handler.ActivatePremium)))
	mux.Handle("GET /v1/premium/status", RequireAuth(verifier, http.HandlerFunc(handler.GetPremiumStatus)))

	mux.Handle("POST /v1/anticheat/sessions", RequireAuth(verifier, http.HandlerFunc(handler.StartAntiCheatSession)))
	mux.Handle("POST /v1/anticheat/events", RequireAuth(verifier, http.HandlerFunc(handler.ReportAntiCheatEvent)))
	mux.Handle("DELETE /v1/anticheat/sessions/current", RequireAuth(verifier, http.HandlerFunc(handler.StopAntiCheatSession)))
}

func registerAdminRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/admin/tournaments", RequireAdmin(verifier, http.HandlerFunc(handler.CreateTournament)))
	mux.Handle("PUT /v1/admin/tournaments/{tournamentID}/status", RequireAdmin(verifier, http.HandlerFunc(handler.UpdateTournamentStatus)))
	mux.Handle("PUT /v1/admin/tournaments/{tournamentID}/scoreboard", RequireAdmin(verifier, http.HandlerFunc(handler.PublishScoreboard)))
	mux.Handle("PUT /v1/admin/tournaments/{tournamentID}/question", RequireAdmin(verifier, http.HandlerFunc(handler.PublishActiveQuestion)))
	mux.Handle("POST /v1/admin/questions", RequireAdmin(verifier, http.HandlerFunc(handler.AddQuestionToBank)))
}

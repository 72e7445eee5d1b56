package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/studyipl/tournament-api/internal/infrastructure/repository/memory"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
	idgen "github.com/studyipl/tournament-api/internal/platform/id"
	"github.com/studyipl/tournament-api/internal/platform/logging"
	"github.com/studyipl/tournament-api/internal/usecase"
)

type fakeGateway struct{}

func (fakeGateway) CreateOrder(_ context.Context, amount int64, currency, receipt string) (usecase.PaymentOrder, error) {
	return usecase.PaymentOrder{
		ID:       "order_test",
		Amount:   amount,
		Currency: currency,
		Receipt:  receipt,
		Status:   "created",
	}, nil
}

func (fakeGateway) VerifySignature(_, _, signature string) bool {
	return signature == "sig_ok"
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := docstore.New()
	if err := memory.SeedStore(context.Background(), store); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())
	logger := logging.NewNop()

	presenceSvc := usecase.NewPresenceService(memory.NewPresenceRepository(store))
	antiCheatSvc, err := usecase.NewAntiCheatService(memory.NewAntiCheatRepository(store), logger)
	if err != nil {
		t.Fatalf("anti-cheat service: %v", err)
	}
	t.Cleanup(antiCheatSvc.Close)

	rosterRepo := memory.NewRosterRepository(store)
	premiumSvc := usecase.NewPremiumService(memory.NewPremiumRepository(store), fakeGateway{})

	handler := NewHandler(
		usecase.NewTournamentService(memory.NewTournamentRepository(store), nil, idgen.NewRandomGenerator()),
		usecase.NewParticipationService(memory.NewParticipationRepository(store), playerRepo, rosterRepo, presenceSvc, antiCheatSvc, logger),
		usecase.NewLineupService(playerRepo, rosterRepo, nil),
		usecase.NewAnswerService(memory.NewAnswerRepository(store)),
		usecase.NewQuestionService(memory.NewQuestionRepository(store)),
		usecase.NewScoreboardService(memory.NewScoreboardRepository(store)),
		presenceSvc,
		premiumSvc,
		antiCheatSvc,
		usecase.NewAdService(nil, 15*time.Second, premiumSvc),
		logger,
	)

	return NewRouter(handler, newStubVerifier(), logger, []string{"*"})
}

func doRequest(t *testing.T, router http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()

	var envelope struct {
		APIVersion string          `json:"apiVersion"`
		Data       json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v body=%s", err, rec.Body.String())
	}
	if envelope.APIVersion != "2.0" {
		t.Fatalf("unexpected api version: %s", envelope.APIVersion)
	}
	if out == nil {
		return
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		t.Fatalf("decode data: %v body=%s", err, rec.Body.String())
	}
}

func TestRouterHealthz(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/healthz", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var data map[string]string
	decodeData(t, rec, &data)
	if data["status"] != "ok" {
		t.Fatalf("unexpected health payload: %+v", data)
	}
}

func TestRouterListPlayers(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/players", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var players []playerDTO
	decodeData(t, rec, &players)
	if len(players) != 14 {
		t.Fatalf("unexpected player count: %d", len(players))
	}
}

func TestRouterDefaultLineup(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/players/default-lineup", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var lineup lineupDTO
	decodeData(t, rec, &lineup)
	if len(lineup.Players) != 11 {
		t.Fatalf("unexpected lineup size: %d", len(lineup.Players))
	}
	if lineup.Power <= 0 {
		t.Fatalf("expected positive power, got %d", lineup.Power)
	}
}

func TestRouterListTournaments(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/tournaments", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var tournaments []tournamentDTO
	decodeData(t, rec, &tournaments)
	if len(tournaments) != 3 {
		t.Fatalf("unexpected tournament count: %d", len(tournaments))
	}
}

func TestRouterJoinFlow(t *testing.T) {
	router := newTestRouter(t)

	t.Run("requires auth", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/tournaments/ipl-aptitude-premier/join", "", "")
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d", rec.Code)
		}
	})

	t.Run("joins with default lineup", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/tournaments/ipl-aptitude-premier/join", "user-token", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
		}

		var record participationDTO
		decodeData(t, rec, &record)
		if record.TournamentID != "ipl-aptitude-premier" || record.UserID != "u1" {
			t.Fatalf("unexpected record: %+v", record)
		}
		if len(record.Lineup) != 11 {
			t.Fatalf("unexpected lineup size: %d", len(record.Lineup))
		}
	})

	t.Run("unknown tournament", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/tournaments/nope/join", "user-token", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
		}
	})
}

func TestRouterSaveTeam(t *testing.T) {
	router := newTestRouter(t)

	ids := make([]string, 0, 11)
	for _, p := range memory.SeedPlayers()[:11] {
		ids = append(ids, `"`+p.ID+`"`)
	}
	payload := `{"player_ids":[` + strings.Join(ids, ",") + `]}`

	rec := doRequest(t, router, http.MethodPut, "/v1/me/team", "user-token", payload)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
	}

	var saved rosterDTO
	decodeData(t, rec, &saved)
	if len(saved.Players) != 11 || saved.Power <= 0 {
		t.Fatalf("unexpected roster: %+v", saved)
	}

	t.Run("short lineup rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPut, "/v1/me/team", "user-token", `{"player_ids":["player_quant"]}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
		}
	})
}

func TestRouterAdsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodGet, "/v1/ads/current", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d", rec.Code)
	}

	var ad adDTO
	decodeData(t, rec, &ad)
	if ad.ID == "" {
		t.Fatalf("anonymous caller should see a creative: %+v", ad)
	}
}

func TestRouterAdminGuard(t *testing.T) {
	router := newTestRouter(t)
	payload := `{"name":"Mock Series","start_time":"2026-10-01T18:30:00Z"}`

	t.Run("non-admin rejected", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/admin/tournaments", "user-token", payload)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
		}
	})

	t.Run("admin creates tournament", func(t *testing.T) {
		rec := doRequest(t, router, http.MethodPost, "/v1/admin/tournaments", "admin-token", payload)
		if rec.Code != http.StatusCreated {
			t.Fatalf("unexpected status: %d body=%s", rec.Code, rec.Body.String())
		}

		var created tournamentDTO
		decodeData(t, rec, &created)
		if created.ID == "" || created.Status != "upcoming" {
			t.Fatalf("unexpected tournament: %+v", created)
		}
	})
}

func TestRouterPremiumFlow(t *testing.T) {
	router := newTestRouter(t)

	rec := doRequest(t, router, http.MethodPost, "/v1/premium/orders", "user-token", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("unexpected order status: %d body=%s", rec.Code, rec.Body.String())
	}
	var order paymentOrderDTO
	decodeData(t, rec, &order)
	if order.Amount != 19900 || order.Currency != "INR" {
		t.Fatalf("unexpected order: %+v", order)
	}

	activate := `{"order_id":"order_test","payment_id":"pay_1","signature":"sig_ok"}`
	rec = doRequest(t, router, http.MethodPost, "/v1/premium/activate", "user-token", activate)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected activate status: %d body=%s", rec.Code, rec.Body.String())
	}

	// Premium members stop seeing ads.
	rec = doRequest(t, router, http.MethodGet, "/v1/ads/current", "user-token", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected ads status: %d", rec.Code)
	}
	var envelope struct {
		Data any `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode envelope: %v", err)
	}
	if envelope.Data != nil {
		t.Fatalf("premium member should get no creative, got %v", envelope.Data)
	}

	bad := `{"order_id":"order_test","payment_id":"pay_1","signature":"sig_bad"}`
	rec = doRequest(t, router, http.MethodPost, "/v1/premium/activate", "user-token", bad)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("unexpected status for bad signature: %d body=%s", rec.Code, rec.Body.String())
	}
}

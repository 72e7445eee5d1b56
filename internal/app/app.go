package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/jmoiron/sqlx"

	"github.com/studyipl/tournament-api/external/razorpay"
	"github.com/studyipl/tournament-api/internal/config"
	"github.com/studyipl/tournament-api/internal/domain/answer"
	"github.com/studyipl/tournament-api/internal/domain/participation"
	"github.com/studyipl/tournament-api/internal/domain/roster"
	"github.com/studyipl/tournament-api/internal/domain/tournament"
	"github.com/studyipl/tournament-api/internal/infrastructure/account/introspect"
	"github.com/studyipl/tournament-api/internal/infrastructure/repository/memory"
	"github.com/studyipl/tournament-api/internal/infrastructure/repository/postgres"
	"github.com/studyipl/tournament-api/internal/interfaces/httpapi"
	"github.com/studyipl/tournament-api/internal/platform/cache"
	"github.com/studyipl/tournament-api/internal/platform/docstore"
	idgen "github.com/studyipl/tournament-api/internal/platform/id"
	"github.com/studyipl/tournament-api/internal/platform/logging"
	"github.com/studyipl/tournament-api/internal/platform/resilience"
	"github.com/studyipl/tournament-api/internal/usecase"
)

// NewHTTPServer wires repositories, services and the HTTP router from config.
// The returned cleanup releases the anti-cheat worker pool and, on the
// postgres driver, the connection pool.
func NewHTTPServer(cfg config.Config, logger *logging.Logger) (*http.Server, func(context.Context) error, error) {
	if logger == nil {
		logger = logging.Default()
	}

	store := docstore.New()
	if err := memory.SeedStore(context.Background(), store); err != nil {
		return nil, nil, fmt.Errorf("seed document store: %w", err)
	}
	playerRepo := memory.NewPlayerRepository(memory.SeedPlayers())

	var (
		db                *sqlx.DB
		tournamentRepo    tournament.Repository
		participationRepo participation.Repository
		answerRepo        answer.Repository
		rosterRepo        roster.Repository
	)

	switch cfg.StorageDriver {
	case config.StoragePostgres:
		var err error
		db, err = openPostgres(cfg)
		if err != nil {
			return nil, nil, err
		}
		tournamentRepo = postgres.NewTournamentRepository(db)
		participationRepo = postgres.NewParticipationRepository(db, playerRepo)
		answerRepo = postgres.NewAnswerRepository(db)
		rosterRepo = postgres.NewRosterRepository(db, playerRepo)
		logger.Info("storage driver ready", "driver", cfg.StorageDriver, "database", dbNameFromURL(cfg.DBURL))
	default:
		tournamentRepo = memory.NewTournamentRepository(store)
		participationRepo = memory.NewParticipationRepository(store)
		answerRepo = memory.NewAnswerRepository(store)
		rosterRepo = memory.NewRosterRepository(store)
		logger.Info("storage driver ready", "driver", config.StorageMemory)
	}

	questionRepo := memory.NewQuestionRepository(store)
	scoreboardRepo := memory.NewScoreboardRepository(store)
	presenceRepo := memory.NewPresenceRepository(store)
	premiumRepo := memory.NewPremiumRepository(store)
	antiCheatRepo := memory.NewAntiCheatRepository(store)

	var listCache, poolCache *cache.Store
	if cfg.CacheEnabled {
		listCache = cache.NewStore(cfg.CacheTTL)
		poolCache = cache.NewStore(cfg.CacheTTL)
	}

	gatewayClient := razorpay.NewClient(razorpay.ClientConfig{
		BaseURL:   cfg.RazorpayBaseURL,
		KeyID:     cfg.RazorpayKeyID,
		KeySecret: cfg.RazorpayKeySecret,
		Timeout:   cfg.RazorpayTimeout,
		Logger:    logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.RazorpayCircuitEnabled,
			FailureThreshold: cfg.RazorpayCircuitFailureCount,
			OpenTimeout:      cfg.RazorpayCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.RazorpayCircuitHalfOpenMaxReq,
		},
	})

	presenceSvc := usecase.NewPresenceService(presenceRepo)
	antiCheatSvc, err := usecase.NewAntiCheatService(antiCheatRepo, logger)
	if err != nil {
		if db != nil {
			_ = db.Close()
		}
		return nil, nil, fmt.Errorf("build anti-cheat service: %w", err)
	}

	tournamentSvc := usecase.NewTournamentService(tournamentRepo, listCache, idgen.NewRandomGenerator())
	participationSvc := usecase.NewParticipationService(
		participationRepo,
		playerRepo,
		rosterRepo,
		presenceSvc,
		antiCheatSvc,
		logger,
	)
	lineupSvc := usecase.NewLineupService(playerRepo, rosterRepo, poolCache)
	answerSvc := usecase.NewAnswerService(answerRepo)
	questionSvc := usecase.NewQuestionService(questionRepo)
	scoreboardSvc := usecase.NewScoreboardService(scoreboardRepo)
	premiumSvc := usecase.NewPremiumService(premiumRepo, gatewayClient)
	adSvc := usecase.NewAdService(usecase.DefaultAdInventory(), cfg.AdRotationInterval, premiumSvc)

	introspectClient := introspect.NewClient(introspect.ClientConfig{
		BaseURL:        cfg.AccountBaseURL,
		IntrospectPath: cfg.AccountIntrospectPath,
		Timeout:        cfg.AccountTimeout,
		CacheTTL:       cfg.AccountCacheTTL,
		CacheSize:      cfg.AccountCacheSize,
		Logger:         logger,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          cfg.AccountCircuitEnabled,
			FailureThreshold: cfg.AccountCircuitFailureCount,
			OpenTimeout:      cfg.AccountCircuitOpenTimeout,
			HalfOpenMaxReq:   cfg.AccountCircuitHalfOpenMaxReq,
		},
	})

	handler := httpapi.NewHandler(
		tournamentSvc,
		participationSvc,
		lineupSvc,
		answerSvc,
		questionSvc,
		scoreboardSvc,
		presenceSvc,
		premiumSvc,
		antiCheatSvc,
		adSvc,
		logger,
	)
	router := httpapi.NewRouter(handler, introspectClient, logger, cfg.CORSAllowedOrigins)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	if server.Addr == "" {
		antiCheatSvc.Close()
		if db != nil {
			_ = db.Close()
		}
		return nil, nil, fmt.Errorf("http server addr cannot be empty")
	}

	cleanup := func(context.Context) error {
		antiCheatSvc.Close()
		if db != nil {
			return db.Close()
		}
		return nil
	}

	return server, cleanup, nil
}

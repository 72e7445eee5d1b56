package httpapi

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/studyipl/tournament-api/internal/platform/logging"
	"github.com/studyipl/tournament-api/internal/usecase"
)

type Handler struct {
	tournamentService    *usecase.TournamentService
	participationService *usecase.ParticipationService
	lineupService        *usecase.LineupService
	answerService        *usecase.AnswerService
	questionService      *usecase.QuestionService
	scoreboardService    *usecase.ScoreboardService
	presenceService      *usecase.PresenceService
	premiumService       *usecase.PremiumService
	antiCheatService     *usecase.AntiCheatService
	adService            *usecase.AdService
	logger               *logging.Logger
	validator            *validator.Validate
}

func NewHandler(
	tournamentService *usecase.TournamentService,
	participationService *usecase.ParticipationService,
	lineupService *usecase.LineupService,
	answerService *usecase.AnswerService,
	questionService *usecase.QuestionService,
	scoreboardService *usecase.ScoreboardService,
	presenceService *usecase.PresenceService,
	premiumService *usecase.PremiumService,
	antiCheatService *usecase.AntiCheatService,
	adService *usecase.AdService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		tournamentService:    tournamentService,
		participationService: participationService,
		lineupService:        lineupService,
		answerService:        answerService,
		questionService:      questionService,
		scoreboardService:    scoreboardService,
		presenceService:      presenceService,
		premiumService:       premiumService,
		antiCheatService:     antiCheatService,
		adService:            adService,
		logger:               logger,
		validator:            validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

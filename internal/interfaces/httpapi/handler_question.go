package httpapi

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/studyipl/tournament-api/internal/domain/question"
	"github.com/studyipl/tournament-api/internal/usecase"
)

func (h *Handler) GetActiveQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetActiveQuestion")
	defer span.End()

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	item, err := h.questionService.GetActive(ctx, tournamentID)
	if err != nil {
		h.logger.WarnContext(ctx, "get active question failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, activeQuestionToDTO(ctx, item))
}

func (h *Handler) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitAnswer")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	matchID := strings.TrimSpace(r.PathValue("matchID"))

	var req submitAnswerRequest
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

	item, err := h.answerService.Submit(ctx, principal, tournamentID, matchID, req.QuestionID, req.OptionIndex)
	if err != nil {
		h.logger.WarnContext(ctx, "submit answer failed",
			"tournament_id", tournamentID,
			"match_id", matchID,
			"user_id", principal.UserID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, answerDTO{
		TournamentID: item.TournamentID,
		MatchID:      item.MatchID,
		QuestionID:   item.QuestionID,
		OptionIndex:  item.OptionIndex,
		SubmittedAt:  item.SubmittedAt.UTC().Format(time.RFC3339),
	})
}

func (h *Handler) PublishActiveQuestion(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.PublishActiveQuestion")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	tournamentID := strings.TrimSpace(r.PathValue("tournamentID"))
	var req publishQuestionRequest
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

	input := usecase.PublishQuestionInput{
		TournamentID:  tournamentID,
		MatchID:       req.MatchID,
		QuestionID:    req.QuestionID,
		Prompt:        req.Prompt,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
	}
	if strings.TrimSpace(req.ExpiresAt) != "" {
		expiresAt, err := parseRFC3339(req.ExpiresAt)
		if err != nil {
			writeError(ctx, w, fmt.Errorf("%w: expires_at must be RFC3339: %v", usecase.ErrInvalidInput, err))
			return
		}
		input.ExpiresAt = expiresAt
	}

	item, err := h.questionService.PublishActive(ctx, principal, input)
	if err != nil {
		h.logger.WarnContext(ctx, "publish active question failed", "tournament_id", tournamentID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, activeQuestionToDTO(ctx, item))
}

func (h *Handler) AddQuestionToBank(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AddQuestionToBank")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req addQuestionRequest
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

	item, err := h.questionService.AddToBank(ctx, principal, question.Question{
		Prompt:        req.Prompt,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "add question to bank failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, questionToBankDTO(ctx, item))
}

package httpapi

import (
	"context"
	"strings"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/anticheat"
	"github.com/studyipl/tournament-api/internal/domain/participation"
	"github.com/studyipl/tournament-api/internal/domain/player"
	"github.com/studyipl/tournament-api/internal/domain/premium"
	"github.com/studyipl/tournament-api/internal/domain/presence"
	"github.com/studyipl/tournament-api/internal/domain/question"
	"github.com/studyipl/tournament-api/internal/domain/roster"
	"github.com/studyipl/tournament-api/internal/domain/scoreboard"
	"github.com/studyipl/tournament-api/internal/domain/tournament"
	"github.com/studyipl/tournament-api/internal/usecase"
)

type saveTeamRequest struct {
	PlayerIDs []string `json:"player_ids" validate:"required,len=11,dive,required"`
}

type submitAnswerRequest struct {
	QuestionID  string `json:"question_id" validate:"required"`
	OptionIndex int    `json:"option_index" validate:"gte=0"`
}

type activatePremiumRequest struct {
	OrderID   string `json:"order_id" validate:"required"`
	PaymentID string `json:"payment_id" validate:"required"`
	Signature string `json:"signature" validate:"required"`
}

type startAntiCheatSessionRequest struct {
	TournamentID string `json:"tournament_id" validate:"required"`
}

type reportAntiCheatEventRequest struct {
	TournamentID string `json:"tournament_id" validate:"required"`
	Flag         string `json:"flag" validate:"required,max=40"`
	Detail       string `json:"detail" validate:"max=200"`
}

type createTournamentRequest struct {
	Name         string `json:"name" validate:"required,max=120"`
	StartTime    string `json:"start_time" validate:"required"`
	SubjectFocus string `json:"subject_focus" validate:"max=80"`
	PrizePool    int64  `json:"prize_pool" validate:"gte=0"`
	Description  string `json:"description" validate:"max=500"`
	MatchFormat  string `json:"match_format" validate:"max=80"`
	PlayerCount  int    `json:"player_count" validate:"gte=0"`
}

type updateTournamentStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=upcoming live completed"`
}

type publishScoreboardRequest struct {
	Teams    []teamStandingDTO  `json:"teams" validate:"required,min=1,dive"`
	MVPs     []mvpStandingDTO   `json:"mvps" validate:"dive"`
	Momentum []momentumEventDTO `json:"momentum" validate:"dive"`
}

type publishQuestionRequest struct {
	MatchID       string   `json:"match_id" validate:"required"`
	QuestionID    string   `json:"question_id"`
	Prompt        string   `json:"prompt" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectOption int      `json:"correct_option" validate:"gte=0"`
	ExpiresAt     string   `json:"expires_at"`
}

type addQuestionRequest struct {
	Prompt        string   `json:"prompt" validate:"required"`
	Options       []string `json:"options" validate:"required,min=2,dive,required"`
	CorrectOption int      `json:"correct_option" validate:"gte=0"`
}

type playerDTO struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role"`
	Subject string `json:"subject"`
	Rating  int    `json:"rating"`
}

type lineupDTO struct {
	Players []playerDTO `json:"players"`
	Power   int         `json:"power"`
}

type rosterDTO struct {
	Players   []playerDTO `json:"players"`
	Power     int         `json:"power"`
	UpdatedAt string      `json:"updatedAt"`
}

type tournamentDTO struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Status       string `json:"status"`
	StartTime    string `json:"startTime"`
	SubjectFocus string `json:"subjectFocus,omitempty"`
	PrizePool    int64  `json:"prizePool"`
	Description  string `json:"description,omitempty"`
	MatchFormat  string `json:"matchFormat,omitempty"`
	PlayerCount  int    `json:"playerCount"`
	CreatedAt    string `json:"createdAt"`
}

type participationDTO struct {
	TournamentID string         `json:"tournamentId"`
	UserID       string         `json:"userId"`
	Lineup       []playerDTO    `json:"lineup"`
	Power        int            `json:"power"`
	Points       int            `json:"points"`
	Answers      map[string]int `json:"answers"`
	JoinedAt     string         `json:"joinedAt"`
}

type answerDTO struct {
	TournamentID string `json:"tournamentId"`
	MatchID      string `json:"matchId"`
	QuestionID   string `json:"questionId"`
	OptionIndex  int    `json:"optionIndex"`
	SubmittedAt  string `json:"submittedAt"`
}

type teamStandingDTO struct {
	Name    string `json:"name" validate:"required"`
	Captain string `json:"captain"`
	Points  int    `json:"points"`
}

type mvpStandingDTO struct {
	Name    string `json:"name" validate:"required"`
	Subject string `json:"subject"`
	Points  int    `json:"points"`
}

type momentumEventDTO struct {
	Time  string `json:"time"`
	Event string `json:"event" validate:"required"`
}

type scoreboardDTO struct {
	TournamentID string             `json:"tournamentId"`
	Teams        []teamStandingDTO  `json:"teams"`
	MVPs         []mvpStandingDTO   `json:"mvps"`
	Momentum     []momentumEventDTO `json:"momentum"`
	UpdatedAt    string             `json:"updatedAt"`
}

// activeQuestionDTO deliberately omits the correct option: the public
// question feed must not leak the answer.
type activeQuestionDTO struct {
	TournamentID string   `json:"tournamentId"`
	MatchID      string   `json:"matchId"`
	QuestionID   string   `json:"questionId"`
	Prompt       string   `json:"prompt"`
	Options      []string `json:"options"`
	ExpiresAt    string   `json:"expiresAt,omitempty"`
	PublishedAt  string   `json:"publishedAt"`
}

type questionBankDTO struct {
	ID            string   `json:"id"`
	Prompt        string   `json:"prompt"`
	Options       []string `json:"options"`
	CorrectOption int      `json:"correctOption"`
	CreatedAt     string   `json:"createdAt"`
}

type presenceEntryDTO struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Online      bool   `json:"online"`
	LastSeen    string `json:"lastSeen"`
}

type paymentOrderDTO struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
	Status   string `json:"status"`
}

type premiumStatusDTO struct {
	UserID      string `json:"userId"`
	Active      bool   `json:"active"`
	Plan        string `json:"plan,omitempty"`
	OrderID     string `json:"orderId,omitempty"`
	PaymentID   string `json:"paymentId,omitempty"`
	ActivatedAt string `json:"activatedAt,omitempty"`
}

type antiCheatSessionDTO struct {
	TournamentID string         `json:"tournamentId"`
	UserID       string         `json:"userId"`
	StartedAt    string         `json:"startedAt"`
	Counters     map[string]int `json:"counters"`
	Flagged      bool           `json:"flagged"`
}

type adDTO struct {
	ID       string `json:"id"`
	Headline string `json:"headline"`
	Body     string `json:"body"`
	CTA      string `json:"cta"`
}

func playerToDTO(v player.Player) playerDTO {
	return playerDTO{
		ID:      v.ID,
		Name:    v.Name,
		Role:    v.Role,
		Subject: v.Subject,
		Rating:  v.Rating,
	}
}

func playersToDTO(items []player.Player) []playerDTO {
	out := make([]playerDTO, 0, len(items))
	for _, p := range items {
		out = append(out, playerToDTO(p))
	}
	return out
}

func rosterToDTO(ctx context.Context, item roster.Roster, power int) rosterDTO {
	ctx, span := startSpan(ctx, "httpapi.rosterToDTO")
	defer span.End()

	return rosterDTO{
		Players:   playersToDTO(item.Players),
		Power:     power,
		UpdatedAt: item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func tournamentToDTO(ctx context.Context, v tournament.Tournament) tournamentDTO {
	ctx, span := startSpan(ctx, "httpapi.tournamentToDTO")
	defer span.End()

	return tournamentDTO{
		ID:           v.ID,
		Name:         v.Name,
		Status:       string(v.Status),
		StartTime:    v.StartTime.UTC().Format(time.RFC3339),
		SubjectFocus: v.SubjectFocus,
		PrizePool:    v.PrizePool,
		Description:  v.Description,
		MatchFormat:  v.MatchFormat,
		PlayerCount:  v.PlayerCount,
		CreatedAt:    v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func participationToDTO(ctx context.Context, v participation.Record) participationDTO {
	ctx, span := startSpan(ctx, "httpapi.participationToDTO")
	defer span.End()

	answers := v.Answers
	if answers == nil {
		answers = map[string]int{}
	}

	return participationDTO{
		TournamentID: v.TournamentID,
		UserID:       v.UserID,
		Lineup:       playersToDTO(v.Lineup),
		Power:        roster.Power(v.Lineup),
		Points:       v.Points,
		Answers:      answers,
		JoinedAt:     v.JoinedAt.UTC().Format(time.RFC3339),
	}
}

func scoreboardToDTO(ctx context.Context, v scoreboard.Snapshot) scoreboardDTO {
	ctx, span := startSpan(ctx, "httpapi.scoreboardToDTO")
	defer span.End()

	teams := make([]teamStandingDTO, 0, len(v.Teams))
	for _, t := range v.Teams {
		teams = append(teams, teamStandingDTO{Name: t.Name, Captain: t.Captain, Points: t.Points})
	}
	mvps := make([]mvpStandingDTO, 0, len(v.MVPs))
	for _, m := range v.MVPs {
		mvps = append(mvps, mvpStandingDTO{Name: m.Name, Subject: m.Subject, Points: m.Points})
	}
	momentum := make([]momentumEventDTO, 0, len(v.Momentum))
	for _, e := range v.Momentum {
		momentum = append(momentum, momentumEventDTO{Time: e.Time, Event: e.Event})
	}

	return scoreboardDTO{
		TournamentID: v.TournamentID,
		Teams:        teams,
		MVPs:         mvps,
		Momentum:     momentum,
		UpdatedAt:    v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func activeQuestionToDTO(ctx context.Context, v question.Active) activeQuestionDTO {
	ctx, span := startSpan(ctx, "httpapi.activeQuestionToDTO")
	defer span.End()

	return activeQuestionDTO{
		TournamentID: v.TournamentID,
		MatchID:      v.MatchID,
		QuestionID:   v.Question.ID,
		Prompt:       v.Question.Prompt,
		Options:      append([]string(nil), v.Question.Options...),
		ExpiresAt:    formatOptionalTime(v.ExpiresAt),
		PublishedAt:  v.PublishedAt.UTC().Format(time.RFC3339),
	}
}

func questionToBankDTO(ctx context.Context, v question.Question) questionBankDTO {
	ctx, span := startSpan(ctx, "httpapi.questionToBankDTO")
	defer span.End()

	return questionBankDTO{
		ID:            v.ID,
		Prompt:        v.Prompt,
		Options:       append([]string(nil), v.Options...),
		CorrectOption: v.CorrectOption,
		CreatedAt:     v.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func presenceToDTO(ctx context.Context, v presence.Entry) presenceEntryDTO {
	ctx, span := startSpan(ctx, "httpapi.presenceToDTO")
	defer span.End()

	return presenceEntryDTO{
		UserID:      v.UserID,
		DisplayName: v.DisplayName,
		Online:      v.Online,
		LastSeen:    v.LastSeen.UTC().Format(time.RFC3339),
	}
}

func paymentOrderToDTO(ctx context.Context, v usecase.PaymentOrder) paymentOrderDTO {
	ctx, span := startSpan(ctx, "httpapi.paymentOrderToDTO")
	defer span.End()

	return paymentOrderDTO{
		ID:       v.ID,
		Amount:   v.Amount,
		Currency: v.Currency,
		Receipt:  v.Receipt,
		Status:   v.Status,
	}
}

func premiumStatusToDTO(ctx context.Context, v premium.Status) premiumStatusDTO {
	ctx, span := startSpan(ctx, "httpapi.premiumStatusToDTO")
	defer span.End()

	dto := premiumStatusDTO{
		UserID:    v.UserID,
		Active:    v.Active,
		Plan:      v.Plan,
		OrderID:   v.OrderID,
		PaymentID: v.PaymentID,
	}
	if !v.ActivatedAt.IsZero() {
		dto.ActivatedAt = v.ActivatedAt.UTC().Format(time.RFC3339)
	}
	return dto
}

func antiCheatSessionToDTO(ctx context.Context, v anticheat.Session) antiCheatSessionDTO {
	ctx, span := startSpan(ctx, "httpapi.antiCheatSessionToDTO")
	defer span.End()

	counters := v.Counters
	if counters == nil {
		counters = map[string]int{}
	}

	return antiCheatSessionDTO{
		TournamentID: v.TournamentID,
		UserID:       v.UserID,
		StartedAt:    v.StartedAt.UTC().Format(time.RFC3339),
		Counters:     counters,
		Flagged:      v.Flagged,
	}
}

func adToDTO(v usecase.Ad) adDTO {
	return adDTO{
		ID:       v.ID,
		Headline: v.Headline,
		Body:     v.Body,
		CTA:      v.CTA,
	}
}

func parseRFC3339(v string) (time.Time, error) {
	return time.Parse(time.RFC3339, strings.TrimSpace(v))
}

func tournamentStatusFromString(v string) tournament.Status {
	return tournament.Status(strings.ToLower(strings.TrimSpace(v)))
}

func formatOptionalTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

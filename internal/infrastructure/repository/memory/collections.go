// Package memory provides docstore-backed repositories used for local
// development and tests. Collection layouts mirror the production document
// backend so both repository families stay interchangeable.
package memory

import (
	"time"

	"github.com/studyipl/tournament-api/internal/platform/docstore"
)

const (
	collTournaments    = "tournaments"
	collParticipations = "playerTournaments"
	collAnswers        = "answers"
	collRosters        = "teams"
	collScoreboards    = "scoreboards"
	collQuestionBank   = "questionBank"
	collActiveQuestion = "activeQuestions"
	collPresence       = "presence"
	collPremium        = "premiumStatus"
	collCheatSessions  = "antiCheatSessions"
	collCheatEvents    = "antiCheatEvents"
)

func docString(doc docstore.Document, field string) string {
	v, _ := doc[field].(string)
	return v
}

func docBool(doc docstore.Document, field string) bool {
	v, _ := doc[field].(bool)
	return v
}

func docInt(doc docstore.Document, field string) int {
	switch v := doc[field].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func docInt64(doc docstore.Document, field string) int64 {
	switch v := doc[field].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}

func docTime(doc docstore.Document, field string) time.Time {
	v, _ := doc[field].(time.Time)
	return v
}

func docSlice(doc docstore.Document, field string) []any {
	v, _ := doc[field].([]any)
	return v
}

func docMap(doc docstore.Document, field string) docstore.Document {
	switch v := doc[field].(type) {
	case docstore.Document:
		return v
	case map[string]any:
		return docstore.Document(v)
	}
	return nil
}

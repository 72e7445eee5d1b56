package memory

import (
	"context"
	"testing"
	"time"

	"github.com/studyipl/tournament-api/internal/domain/answer"
)

func TestAnswerUpsertMirrorsIntoParticipation(t *testing.T) {
	store := seededStore(t)
	participations := NewParticipationRepository(store)
	answers := NewAnswerRepository(store)
	ctx := context.Background()

	if _, err := participations.Join(ctx, joinRecord("ipl-aptitude-premier", "u1")); err != nil {
		t.Fatalf("join: %v", err)
	}

	submission := answer.Submission{
		TournamentID: "ipl-aptitude-premier",
		MatchID:      "match-1",
		UserID:       "u1",
		QuestionID:   "q1",
		OptionIndex:  2,
		SubmittedAt:  time.Date(2026, 9, 1, 19, 5, 0, 0, time.UTC),
	}
	if err := answers.Upsert(ctx, submission); err != nil {
		t.Fatalf("upsert answer: %v", err)
	}

	stored, ok, err := answers.GetByID(ctx, "ipl-aptitude-premier", "match-1", "u1", "q1")
	if err != nil || !ok {
		t.Fatalf("get answer: ok=%v err=%v", ok, err)
	}
	if stored.OptionIndex != 2 {
		t.Fatalf("unexpected option index: %d", stored.OptionIndex)
	}

	record, ok, err := participations.GetByTournamentAndUser(ctx, "ipl-aptitude-premier", "u1")
	if err != nil || !ok {
		t.Fatalf("get participation: ok=%v err=%v", ok, err)
	}
	if record.Answers["q1"] != 2 {
		t.Fatalf("answer not mirrored into join record: %+v", record.Answers)
	}
}

func TestAnswerUpsertLastWriteWins(t *testing.T) {
	store := seededStore(t)
	participations := NewParticipationRepository(store)
	answers := NewAnswerRepository(store)
	ctx := context.Background()

	if _, err := participations.Join(ctx, joinRecord("ipl-aptitude-premier", "u1")); err != nil {
		t.Fatalf("join: %v", err)
	}

	base := answer.Submission{
		TournamentID: "ipl-aptitude-premier",
		MatchID:      "match-1",
		UserID:       "u1",
		QuestionID:   "q1",
		OptionIndex:  0,
		SubmittedAt:  time.Date(2026, 9, 1, 19, 5, 0, 0, time.UTC),
	}
	if err := answers.Upsert(ctx, base); err != nil {
		t.Fatalf("first upsert: %v", err)
	}

	revised := base
	revised.OptionIndex = 3
	revised.SubmittedAt = base.SubmittedAt.Add(time.Minute)
	if err := answers.Upsert(ctx, revised); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	stored, _, err := answers.GetByID(ctx, "ipl-aptitude-premier", "match-1", "u1", "q1")
	if err != nil {
		t.Fatalf("get answer: %v", err)
	}
	if stored.OptionIndex != 3 {
		t.Fatalf("overwrite lost: got=%d want=3", stored.OptionIndex)
	}

	record, _, err := participations.GetByTournamentAndUser(ctx, "ipl-aptitude-premier", "u1")
	if err != nil {
		t.Fatalf("get participation: %v", err)
	}
	if record.Answers["q1"] != 3 {
		t.Fatalf("mirror not updated: %+v", record.Answers)
	}
}

func TestAnswerMirrorKeepsEarlierAnswers(t *testing.T) {
	store := seededStore(t)
	participations := NewParticipationRepository(store)
	answers := NewAnswerRepository(store)
	ctx := context.Background()

	if _, err := participations.Join(ctx, joinRecord("ipl-aptitude-premier", "u1")); err != nil {
		t.Fatalf("join: %v", err)
	}

	for i, questionID := range []string{"q1", "q2", "q3"} {
		err := answers.Upsert(ctx, answer.Submission{
			TournamentID: "ipl-aptitude-premier",
			MatchID:      "match-1",
			UserID:       "u1",
			QuestionID:   questionID,
			OptionIndex:  i,
			SubmittedAt:  time.Date(2026, 9, 1, 19, 5, 0, 0, time.UTC),
		})
		if err != nil {
			t.Fatalf("upsert %s: %v", questionID, err)
		}
	}

	record, _, err := participations.GetByTournamentAndUser(ctx, "ipl-aptitude-premier", "u1")
	if err != nil {
		t.Fatalf("get participation: %v", err)
	}
	if len(record.Answers) != 3 {
		t.Fatalf("mirror lost earlier answers: %+v", record.Answers)
	}
	if record.Answers["q2"] != 1 {
		t.Fatalf("unexpected mirrored value: %+v", record.Answers)
	}
}

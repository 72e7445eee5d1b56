package postgres

import (
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"

	qb "github.com/studyipl/tournament-api/internal/platform/querybuilder"
)

// Two clients joining at once must not surface a duplicate-key error: the
// insert tolerates the conflict and the loser re-reads the stored row. The
// statements below are what makes that hold, so their shape is pinned here.

func TestJoinStatusQueryLocksTournamentRow(t *testing.T) {
	if !strings.HasSuffix(joinStatusQuery, "FOR UPDATE") {
		t.Fatalf("status check must lock the tournament row, got %q", joinStatusQuery)
	}
}

func TestJoinInsertToleratesConflicts(t *testing.T) {
	model := participationInsertModel{
		ID:              "t1_u1",
		TournamentID:    "t1",
		UserID:          "u1",
		LineupPlayerIDs: pq.StringArray{"p1", "p2"},
		Points:          0,
		Answers:         []byte(`{}`),
		JoinedAt:        time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC),
	}

	query, args, err := qb.InsertModel("participations", model, joinConflictClause)
	if err != nil {
		t.Fatalf("build join insert: %v", err)
	}

	want := "INSERT INTO participations (id, tournament_id, user_id, lineup_player_ids, points, answers, joined_at) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7) ON CONFLICT (id) DO NOTHING"
	if query != want {
		t.Fatalf("unexpected join insert\n got: %s\nwant: %s", query, want)
	}
	if len(args) != 7 {
		t.Fatalf("unexpected arg count: %d", len(args))
	}
	if args[0] != "t1_u1" {
		t.Fatalf("record id must bind first, got %v", args[0])
	}
}

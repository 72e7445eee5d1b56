package roster

import (
	"testing"

	"github.com/studyipl/tournament-api/internal/domain/player"
)

func ratedLineup(ratings ...int) []player.Player {
	out := make([]player.Player, 0, len(ratings))
	for i, rating := range ratings {
		out = append(out, player.Player{
			ID:     string(rune('a' + i)),
			Rating: rating,
		})
	}
	return out
}

func TestPower(t *testing.T) {
	tests := []struct {
		name    string
		ratings []int
		want    int
	}{
		{
			name:    "full lineup",
			ratings: []int{95, 93, 92, 91, 90, 89, 88, 87, 86, 85, 84},
			want:    111,
		},
		{
			name:    "empty lineup",
			ratings: nil,
			want:    0,
		},
		{
			name:    "single player gets top slot weight",
			ratings: []int{80},
			// 80 * 1.44 = 115.2, rounded
			want: 115,
		},
		{
			name:    "ratings clamp to ceiling",
			ratings: []int{150},
			// clamped to 99: 99 * 1.44 = 142.56
			want: 143,
		},
		{
			name:    "ratings clamp to floor",
			ratings: []int{10},
			// clamped to 50: 50 * 1.44 = 72
			want: 72,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Power(ratedLineup(tt.ratings...))
			if got != tt.want {
				t.Fatalf("unexpected power: got=%d want=%d", got, tt.want)
			}
		})
	}
}

func TestPowerOrderMatters(t *testing.T) {
	ascending := Power(ratedLineup(80, 99))
	descending := Power(ratedLineup(99, 80))
	if descending <= ascending {
		t.Fatalf("expected stronger player in slot 0 to score higher: asc=%d desc=%d", ascending, descending)
	}
}

func TestDefaultLineup(t *testing.T) {
	pool := []player.Player{
		{ID: "p1", Rating: 80},
		{ID: "p2", Rating: 95},
		{ID: "p3", Rating: 90},
		{ID: "p4", Rating: 90},
		{ID: "p5", Rating: 70},
		{ID: "p6", Rating: 85},
		{ID: "p7", Rating: 88},
		{ID: "p8", Rating: 82},
		{ID: "p9", Rating: 91},
		{ID: "p10", Rating: 77},
		{ID: "p11", Rating: 79},
		{ID: "p12", Rating: 60},
		{ID: "p13", Rating: 93},
	}

	got := DefaultLineup(pool)
	if len(got) != LineupSize {
		t.Fatalf("unexpected lineup size: got=%d want=%d", len(got), LineupSize)
	}
	if got[0].ID != "p2" {
		t.Fatalf("expected highest rated player first, got %s", got[0].ID)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Rating > got[i-1].Rating {
			t.Fatalf("lineup not sorted by rating at index %d", i)
		}
	}
	// p3 and p4 tie at 90; stable sort keeps pool order.
	for i := range got {
		if got[i].ID == "p4" && i > 0 && got[i-1].ID != "p3" {
			t.Fatalf("tie between p3 and p4 did not keep pool order")
		}
	}
	for _, p := range got {
		if p.ID == "p12" || p.ID == "p5" {
			t.Fatalf("low-rated player %s should not make the default lineup", p.ID)
		}
	}
}

func TestValidateComplete(t *testing.T) {
	complete := ratedLineup(95, 93, 92, 91, 90, 89, 88, 87, 86, 85, 84)
	if err := ValidateComplete(complete); err != nil {
		t.Fatalf("expected complete lineup to validate, got %v", err)
	}

	if err := ValidateComplete(complete[:10]); err == nil {
		t.Fatal("expected short lineup to be rejected")
	}

	duplicated := append([]player.Player(nil), complete...)
	duplicated[1].ID = duplicated[0].ID
	if err := ValidateComplete(duplicated); err == nil {
		t.Fatal("expected duplicate player to be rejected")
	}
}

func TestValidateDraft(t *testing.T) {
	if err := ValidateDraft(ratedLineup(90, 85)); err != nil {
		t.Fatalf("expected partial draft to validate, got %v", err)
	}

	oversized := ratedLineup(95, 93, 92, 91, 90, 89, 88, 87, 86, 85, 84, 83)
	if err := ValidateDraft(oversized); err == nil {
		t.Fatal("expected oversized draft to be rejected")
	}
}

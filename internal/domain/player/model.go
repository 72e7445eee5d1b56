package player

import "fmt"

const (
	// RatingFloor and RatingCeil bound the rating scale used by the power
	// formula. Ratings outside the band are clamped, never rejected.
	RatingFloor = 50
	RatingCeil  = 99
)

// Player is a selectable subject specialist in the Study IPL pool.
type Player struct {
	ID      string
	Name    string
	Role    string
	Subject string
	Rating  int
}

func (p Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}
	if p.Subject == "" {
		return fmt.Errorf("player subject is required")
	}
	if p.Rating <= 0 {
		return fmt.Errorf("player rating must be greater than zero")
	}

	return nil
}

// ClampRating confines a rating to the scoring band.
func ClampRating(rating int) int {
	if rating < RatingFloor {
		return RatingFloor
	}
	if rating > RatingCeil {
		return RatingCeil
	}
	return rating
}

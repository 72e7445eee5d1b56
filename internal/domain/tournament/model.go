package tournament

import (
	"fmt"
	"time"
)

// Status is the tournament lifecycle stage. Transitions are monotonic:
// upcoming -> live -> completed.
type Status string

const (
	StatusUpcoming  Status = "upcoming"
	StatusLive      Status = "live"
	StatusCompleted Status = "completed"
)

var statusRank = map[Status]int{
	StatusUpcoming:  0,
	StatusLive:      1,
	StatusCompleted: 2,
}

func (s Status) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransitionTo permits only forward moves through the lifecycle.
func (s Status) CanTransitionTo(next Status) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to > from
}

// Tournament is one Study IPL event learners can join.
type Tournament struct {
	ID           string
	Name         string
	Status       Status
	StartTime    time.Time
	SubjectFocus string
	PrizePool    int64
	Description  string
	MatchFormat  string
	PlayerCount  int
	CreatedAt    time.Time
}

func (t Tournament) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("tournament id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("tournament name is required")
	}
	if !t.Status.Valid() {
		return fmt.Errorf("invalid tournament status: %s", t.Status)
	}

	return nil
}

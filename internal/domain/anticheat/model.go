package anticheat

import "time"

// Flag names mirror the browser signals the client reports.
const (
	FlagTabSwitch      = "tabSwitch"
	FlagBlur           = "blur"
	FlagCopy           = "copy"
	FlagSuspiciousKeys = "suspiciousKeys"
)

// SuspiciousKeyCombos lists the keyboard shortcuts the client treats as
// copy or window-switch attempts during a quiz.
var SuspiciousKeyCombos = []string{
	"Control+c",
	"Control+v",
	"Control+x",
	"Meta+c",
	"Meta+v",
	"Meta+x",
	"Alt+Tab",
	"Meta+Tab",
}

// Session tracks one user's monitored quiz session inside a tournament.
// Counters accumulate per flag; the session is flagged once any counter
// crosses the service threshold.
type Session struct {
	TournamentID string
	UserID       string
	StartedAt    time.Time
	Counters     map[string]int
	Flagged      bool
}

// Event is a single telemetry report from the client.
type Event struct {
	TournamentID string
	UserID       string
	Flag         string
	Detail       string
	OccurredAt   time.Time
}

// ValidFlag reports whether the client-sent flag is one this engine tracks.
func ValidFlag(flag string) bool {
	switch flag {
	case FlagTabSwitch, FlagBlur, FlagCopy, FlagSuspiciousKeys:
		return true
	}

	return false
}

// SessionID keys the session document for one user in one tournament.
func SessionID(tournamentID, userID string) string {
	return tournamentID + "_" + userID
}

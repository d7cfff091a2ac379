package types

import "time"

// Period is a leaderboard window
type Period string

const (
	Period1d  Period = "1d"
	Period7d  Period = "7d"
	Period30d Period = "30d"
)

// Valid checks if a period is supported
func (p Period) Valid() bool {
	return p == Period1d || p == Period7d || p == Period30d
}

// Duration returns the length of the window
func (p Period) Duration() time.Duration {
	switch p {
	case Period7d:
		return 7 * 24 * time.Hour
	case Period30d:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

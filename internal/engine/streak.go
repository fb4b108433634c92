package engine

import "time"

// CheckInResult is the outcome of a daily check-in.
type CheckInResult struct {
	State   AppState
	Changed bool
}

// CheckIn records a check-in for today's UTC calendar day. A repeat check-in on
// the same day is a no-op. The streak counts distinct check-in days and is never
// reset by a missed day.
func CheckIn(state AppState, today time.Time) (CheckInResult, error) {
	if state.Streak < 0 {
		return CheckInResult{}, validationf(ErrInvariant, "streak must be non-negative, got %d", state.Streak)
	}
	day := UTCDay(today)
	if state.LastCheckIn != nil && UTCDay(*state.LastCheckIn).Equal(day) {
		return CheckInResult{State: state, Changed: false}, nil
	}
	state.Streak++
	state.LastCheckIn = &day
	return CheckInResult{State: state, Changed: true}, nil
}

// CheckedInOn reports whether the last check-in fell on the same UTC day as t.
func (s AppState) CheckedInOn(t time.Time) bool {
	return s.LastCheckIn != nil && UTCDay(*s.LastCheckIn).Equal(UTCDay(t))
}

// UTCDay truncates t to midnight of its UTC calendar day.
func UTCDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

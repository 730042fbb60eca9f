// Package lifecycle holds the pure decision logic for contract state
// transitions. It never touches storage or the clock: callers inject
// "today" so a scan pass is deterministic and replayable.
package lifecycle

import (
	"time"

	"contract-registry/types"
)

// Next computes the state a record should move to on the given day.
// The second return value is false when the record must not change.
//
// Rules:
//   - a nil end date is never touched by the engine,
//   - terminal states have no outgoing transitions,
//   - end date strictly before today expires Active, ExpiringSoon and
//     RenewalProposed records (a record expiring today is still alive),
//   - an Active record enters ExpiringSoon on the exact day the
//     remaining days equal the notice window, not before.
func Next(status int, endDate *time.Time, noticeDays int, today time.Time) (int, bool) {
	if endDate == nil || types.IsTerminal(status) {
		return status, false
	}

	days := DaysUntil(*endDate, today)

	switch status {
	case types.StatusActive:
		if days < 0 {
			return types.StatusExpired, true
		}
		if days <= noticeDays {
			return types.StatusExpiring, true
		}
	case types.StatusExpiring, types.StatusRenewalProposed:
		if days < 0 {
			return types.StatusExpired, true
		}
	}

	// Draft, InReview, Sent and Suspended only move by human action.
	return status, false
}

// DaysUntil returns the whole calendar days from today until the given
// date, ignoring the time-of-day and timezone of both values. Negative
// when the date has passed.
func DaysUntil(date, today time.Time) int {
	return int(truncate(date).Sub(truncate(today)).Hours() / 24)
}

func truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

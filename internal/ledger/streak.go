package ledger

import "time"

// DateOnly truncates a timestamp to its UTC calendar day.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// LocalDay converts a server UTC timestamp to the user's calendar day.
// tzOffsetMinutes follows the JS getTimezoneOffset convention: positive west
// of UTC, so local time is UTC minus the offset.
func LocalDay(nowUTC time.Time, tzOffsetMinutes int) time.Time {
	return DateOnly(nowUTC.Add(-time.Duration(tzOffsetMinutes) * time.Minute))
}

// ShouldBreakStreak reports whether the gap between the last activity day
// and today breaks a streak. Weekend days between the two don't count: the
// product does not punish users for not studying on weekends, but a single
// skipped weekday resets the streak.
func ShouldBreakStreak(lastActivity, today time.Time) bool {
	last := DateOnly(lastActivity)
	today = DateOnly(today)

	if last.Equal(today) {
		return false
	}
	if last.AddDate(0, 0, 1).Equal(today) {
		return false
	}
	// Walk every day strictly between the two; any weekday gap breaks it.
	for d := last.AddDate(0, 0, 1); d.Before(today); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			return true
		}
	}
	return false
}

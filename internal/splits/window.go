package splits

import "time"

// TodayStart returns 00:00 UTC of now's UTC calendar day. Workouts logged
// at or after it count as done today.
func TodayStart(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

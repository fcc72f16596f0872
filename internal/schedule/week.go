package schedule

import "time"

// StartOfWeek returns midnight of the Monday of the week containing date, in
// the date's location.
func StartOfWeek(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

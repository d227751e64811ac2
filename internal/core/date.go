package core

import "time"

// FirstOfMonth truncates a date to the first day of its month.
func FirstOfMonth(d Date) Date {
	return NewDate(d.Year(), int(d.Time.Month()), 1)
}

// LastOfMonth returns the last day of the month containing d.
func LastOfMonth(d Date) Date {
	first := FirstOfMonth(d)
	return Date{Time: first.AddDate(0, 1, -1)}
}

// MonthRange returns the inclusive [first, last] day range of the month
// containing the reference date. The day-of-month of the reference is
// ignored.
func MonthRange(ref Date) (start, end Date) {
	return FirstOfMonth(ref), LastOfMonth(ref)
}

// PreviousMonth returns the first day of the month before the one
// containing d. This is calendar arithmetic: the previous month of
// March 1 is February 1, regardless of month lengths.
func PreviousMonth(d Date) Date {
	first := FirstOfMonth(d)
	return Date{Time: first.AddDate(0, -1, 0)}
}

// NextMonth returns the first day of the month after the one containing d.
func NextMonth(d Date) Date {
	first := FirstOfMonth(d)
	return Date{Time: first.AddDate(0, 1, 0)}
}

// SameMonth reports whether two dates fall in the same calendar month.
func SameMonth(a, b Date) bool {
	return a.Year() == b.Year() && a.Time.Month() == b.Time.Month()
}

// DaysInMonth returns the number of days of the month containing d.
func DaysInMonth(d Date) int {
	return time.Date(d.Year(), d.Time.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// DueDateInMonth resolves a fixed expense's due day inside a given
// month, clamping days that do not exist (e.g. day 31 in February).
func DueDateInMonth(month Date, dueDay int) Date {
	last := DaysInMonth(month)
	if dueDay > last {
		dueDay = last
	}
	if dueDay < 1 {
		dueDay = 1
	}
	return NewDate(month.Year(), int(month.Time.Month()), dueDay)
}

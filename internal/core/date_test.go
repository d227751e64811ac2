package core

import "testing"

func TestMonthRange(t *testing.T) {
	cases := []struct {
		ref, start, end Date
	}{
		{NewDate(2024, 6, 17), NewDate(2024, 6, 1), NewDate(2024, 6, 30)},
		{NewDate(2024, 2, 10), NewDate(2024, 2, 1), NewDate(2024, 2, 29)}, // leap year
		{NewDate(2023, 2, 28), NewDate(2023, 2, 1), NewDate(2023, 2, 28)},
		{NewDate(2024, 12, 31), NewDate(2024, 12, 1), NewDate(2024, 12, 31)},
	}
	for _, tc := range cases {
		start, end := MonthRange(tc.ref)
		if start != tc.start || end != tc.end {
			t.Fatalf("range of %v: got [%v, %v], want [%v, %v]", tc.ref, start, end, tc.start, tc.end)
		}
	}
}

func TestPreviousMonthIsCalendarArithmetic(t *testing.T) {
	// March 1 rolls back to February 1, not "30 days before".
	if got := PreviousMonth(NewDate(2024, 3, 1)); got != NewDate(2024, 2, 1) {
		t.Fatalf("previous of March 1: got %v", got)
	}
	if got := PreviousMonth(NewDate(2024, 1, 15)); got != NewDate(2023, 12, 1) {
		t.Fatalf("previous of January: got %v", got)
	}
}

func TestNextMonth(t *testing.T) {
	if got := NextMonth(NewDate(2024, 12, 25)); got != NewDate(2025, 1, 1) {
		t.Fatalf("next of December: got %v", got)
	}
}

func TestDueDateInMonthClampsMissingDays(t *testing.T) {
	cases := []struct {
		month  Date
		dueDay int
		want   Date
	}{
		{NewDate(2024, 2, 1), 31, NewDate(2024, 2, 29)},
		{NewDate(2023, 2, 1), 30, NewDate(2023, 2, 28)},
		{NewDate(2024, 6, 1), 15, NewDate(2024, 6, 15)},
	}
	for _, tc := range cases {
		if got := DueDateInMonth(tc.month, tc.dueDay); got != tc.want {
			t.Fatalf("due day %d in %v: got %v, want %v", tc.dueDay, tc.month, got, tc.want)
		}
	}
}

func TestSameMonth(t *testing.T) {
	if !SameMonth(NewDate(2024, 6, 1), NewDate(2024, 6, 30)) {
		t.Fatal("same month expected")
	}
	if SameMonth(NewDate(2024, 6, 1), NewDate(2023, 6, 1)) {
		t.Fatal("different years must not match")
	}
}

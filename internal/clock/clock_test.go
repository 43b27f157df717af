package clock

import (
	"testing"
	"time"
)

func TestDaysBetween(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"2026-09-01", "2026-08-31", 1},
		{"2026-09-01", "2026-09-01", 0},
		{"2026-09-01", "2026-08-25", 7},
		{"2026-03-01", "2026-02-28", 1},
		// границы перевода часов не влияют: даты считаются полночь-к-полуночи
		{"2026-03-30", "2026-03-28", 2},
		{"2026-08-31", "2026-09-01", -1},
	}

	for _, tc := range cases {
		got, err := DaysBetween(tc.a, tc.b)
		if err != nil {
			t.Errorf("DaysBetween(%s, %s): %v", tc.a, tc.b, err)
			continue
		}
		if got != tc.want {
			t.Errorf("DaysBetween(%s, %s) = %d, want %d", tc.a, tc.b, got, tc.want)
		}
	}
}

func TestDaysBetween_InvalidDate(t *testing.T) {
	if _, err := DaysBetween("не дата", "2026-09-01"); err == nil {
		t.Error("ожидалась ошибка разбора")
	}
}

func TestAddDays(t *testing.T) {
	if got := AddDays("2026-09-01", -6); got != "2026-08-26" {
		t.Errorf("AddDays = %s, want 2026-08-26", got)
	}
	if got := AddDays("2026-12-31", 1); got != "2027-01-01" {
		t.Errorf("AddDays = %s, want 2027-01-01", got)
	}
}

func TestFixed(t *testing.T) {
	f := Fixed{T: time.Date(2026, 9, 1, 23, 59, 0, 0, time.UTC)}
	if f.Today() != "2026-09-01" {
		t.Errorf("Today = %s", f.Today())
	}
	if !f.Now().Equal(f.T) {
		t.Errorf("Now = %v", f.Now())
	}
}

func TestWeekdayLabel(t *testing.T) {
	// 2026-09-01 — вторник
	if got := WeekdayLabel("2026-09-01"); got != "Вт" {
		t.Errorf("WeekdayLabel = %s, want Вт", got)
	}
}

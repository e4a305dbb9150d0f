package calendar

import (
	"testing"
	"time"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func TestAddWorkingDays_SkipsWeekend(t *testing.T) {
	// Friday + 1 working day lands on Monday
	fri := date(t, "2026-01-09")
	got := AddWorkingDays(fri, 1)
	want := date(t, "2026-01-12")
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAddWorkingDays_FullWeek(t *testing.T) {
	mon := date(t, "2026-01-05")
	got := AddWorkingDays(mon, 5)
	want := date(t, "2026-01-12") // skips Sat 10 / Sun 11
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestAddWorkingDays_Zero(t *testing.T) {
	d := date(t, "2026-01-07")
	if got := AddWorkingDays(d, 0); !got.Equal(d) {
		t.Errorf("expected %s unchanged, got %s", d, got)
	}
}

func TestAddWorkingDays_NegativeSymmetry(t *testing.T) {
	d := date(t, "2026-01-05")
	for n := 0; n <= 30; n++ {
		fwd := AddWorkingDays(d, n)
		back := AddWorkingDays(fwd, -n)
		if !back.Equal(d) {
			t.Errorf("n=%d: expected round trip to %s, got %s", n, d, back)
		}
	}
}

func TestWorkingDaysBetween_MatchesAdd(t *testing.T) {
	d := date(t, "2026-01-06")
	for n := 0; n <= 20; n++ {
		end := AddWorkingDays(d, n)
		if got := WorkingDaysBetween(d, end); got != n {
			t.Errorf("n=%d: expected %d, got %d", n, n, got)
		}
	}
}

func TestWorkingDaysBetween_Reversed(t *testing.T) {
	start := date(t, "2026-01-05")
	end := date(t, "2026-01-12")
	if got := WorkingDaysBetween(end, start); got != -5 {
		t.Errorf("expected -5, got %d", got)
	}
}

func TestWorkingDaysBetween_WeekendOnly(t *testing.T) {
	sat := date(t, "2026-01-10")
	sun := date(t, "2026-01-11")
	if got := WorkingDaysBetween(sat, sun); got != 0 {
		t.Errorf("expected 0 over a weekend, got %d", got)
	}
}

func TestIsWeekday(t *testing.T) {
	if IsWeekday(date(t, "2026-01-10")) {
		t.Error("Saturday should not be a working day")
	}
	if IsWeekday(date(t, "2026-01-11")) {
		t.Error("Sunday should not be a working day")
	}
	if !IsWeekday(date(t, "2026-01-12")) {
		t.Error("Monday should be a working day")
	}
}

func TestAddWorkingDaysFunc_CustomCalendar(t *testing.T) {
	// Treat Wednesday 2026-01-07 as a holiday
	holiday := date(t, "2026-01-07")
	isWorking := func(d time.Time) bool {
		return IsWeekday(d) && !Date(d).Equal(holiday)
	}
	got := AddWorkingDaysFunc(date(t, "2026-01-06"), 1, isWorking)
	want := date(t, "2026-01-08")
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want, got)
	}
}

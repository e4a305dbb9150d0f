package montecarlo

import (
	"math/rand"
	"testing"
	"time"

	"github.com/planloom/planloom/internal/calendar"
	"github.com/planloom/planloom/internal/model"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := calendar.ParseDate(s)
	if err != nil {
		t.Fatalf("parse date %q: %v", s, err)
	}
	return d
}

func fixedTask(t *testing.T, id, start, end string) model.Task {
	t.Helper()
	return model.Task{
		ID:        id,
		ProjectID: "p1",
		StartDate: date(t, start),
		EndDate:   date(t, end),
		Duration:  calendar.WorkingDaysBetween(date(t, start), date(t, end)),
	}
}

func pertTask(t *testing.T, id, start string, o, m, p float64) model.Task {
	t.Helper()
	task := fixedTask(t, id, start, start)
	task.UsePERT = true
	task.Optimistic, task.MostLikely, task.Pessimistic = &o, &m, &p
	return task
}

func seeded(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

func TestRun_NoPERTTasksIsDeterministic(t *testing.T) {
	tasks := []model.Task{
		fixedTask(t, "a", "2026-01-05", "2026-01-09"),
		fixedTask(t, "b", "2026-01-07", "2026-01-16"),
	}
	f := Run(tasks, Options{Iterations: 1000, Rand: seeded(1)})

	want := date(t, "2026-01-16")
	if !f.P50.Equal(want) || !f.P80.Equal(want) {
		t.Errorf("expected p50 == p80 == %s, got p50=%s p80=%s", want, f.P50, f.P80)
	}
}

func TestRun_Empty(t *testing.T) {
	f := Run(nil, Options{Iterations: 100})
	today := calendar.Date(time.Now())
	if !f.P50.Equal(today) || !f.P80.Equal(today) {
		t.Errorf("expected today for both percentiles, got p50=%s p80=%s", f.P50, f.P80)
	}
}

func TestRun_PERTSpreadWidensPercentiles(t *testing.T) {
	tasks := []model.Task{pertTask(t, "a", "2026-01-05", 5, 10, 30)}
	f := Run(tasks, Options{Iterations: 2000, Rand: seeded(42)})

	if f.P80.Before(f.P50) {
		t.Errorf("p80 %s precedes p50 %s", f.P80, f.P50)
	}
	start := date(t, "2026-01-05")
	if !f.P50.After(start) {
		t.Errorf("p50 %s should be after the task start", f.P50)
	}
}

func TestRun_SeededReproducibility(t *testing.T) {
	tasks := []model.Task{pertTask(t, "a", "2026-01-05", 2, 6, 20)}
	f1 := Run(tasks, Options{Iterations: 500, Rand: seeded(7)})
	f2 := Run(tasks, Options{Iterations: 500, Rand: seeded(7)})

	if !f1.P50.Equal(f2.P50) || !f1.P80.Equal(f2.P80) {
		t.Errorf("same seed should reproduce: %s/%s vs %s/%s", f1.P50, f1.P80, f2.P50, f2.P80)
	}
}

func TestRun_ArbitraryPercentile(t *testing.T) {
	tasks := []model.Task{pertTask(t, "a", "2026-01-05", 3, 8, 25)}
	f := Run(tasks, Options{Iterations: 1000, Rand: seeded(11)})

	if !f.Percentile(0.5).Equal(f.P50) {
		t.Error("Percentile(0.5) should match P50")
	}
	if !f.Percentile(0.8).Equal(f.P80) {
		t.Error("Percentile(0.8) should match P80")
	}
	if f.Percentile(0.95).Before(f.Percentile(0.1)) {
		t.Error("percentiles must be monotonic")
	}
	if f.Percentile(1.0).Before(f.P80) {
		t.Error("top percentile clamps to the last sample")
	}
}

func TestTriangular_Bounds(t *testing.T) {
	rng := seeded(3)
	for i := 0; i < 10000; i++ {
		v := Triangular(rng, 4, 8, 20)
		if v < 4 || v > 20 {
			t.Fatalf("sample %f outside [4, 20]", v)
		}
	}
}

func TestTriangular_ZeroSpread(t *testing.T) {
	rng := seeded(5)
	if v := Triangular(rng, 6, 6, 6); v != 6 {
		t.Errorf("zero spread should return most likely, got %f", v)
	}
}

func TestTriangular_UnorderedEstimatesClamp(t *testing.T) {
	rng := seeded(9)
	for i := 0; i < 1000; i++ {
		v := Triangular(rng, 10, 5, 8) // m < o, p < o after clamp
		if v != v { // NaN check
			t.Fatal("sample is NaN")
		}
	}
}

package estimate

import (
	"testing"

	"github.com/planloom/planloom/internal/model"
)

func pertTask(t *testing.T, o, m, p float64) *model.Task {
	t.Helper()
	return &model.Task{ID: "t1", UsePERT: true, Optimistic: &o, MostLikely: &m, Pessimistic: &p}
}

func TestPERTDuration_WeightedAverage(t *testing.T) {
	// (2 + 4*5 + 14) / 6 = 6
	task := pertTask(t, 2, 5, 14)
	if got := PERTDuration(task); got != 6 {
		t.Errorf("expected 6, got %d", got)
	}
}

func TestPERTDuration_Rounds(t *testing.T) {
	// (1 + 4*2 + 5) / 6 = 2.33 -> 2
	task := pertTask(t, 1, 2, 5)
	if got := PERTDuration(task); got != 2 {
		t.Errorf("expected 2, got %d", got)
	}
}

func TestPERTDuration_FixedWhenNotOptedIn(t *testing.T) {
	o, m, p := 1.0, 2.0, 3.0
	task := &model.Task{Duration: 7, Optimistic: &o, MostLikely: &m, Pessimistic: &p}
	if got := PERTDuration(task); got != 7 {
		t.Errorf("expected fixed duration 7, got %d", got)
	}
}

func TestPERTDuration_FixedWhenEstimatesIncomplete(t *testing.T) {
	o := 2.0
	task := &model.Task{Duration: 4, UsePERT: true, Optimistic: &o}
	if got := PERTDuration(task); got != 4 {
		t.Errorf("expected fixed duration 4, got %d", got)
	}
}

func TestRemainingDuration_Progress(t *testing.T) {
	cases := []struct {
		progress int
		want     int
	}{
		{0, 10},
		{25, 8}, // round(10 * 0.75)
		{50, 5},
		{95, 1}, // round(0.5) rounds half away from zero
		{100, 0},
	}
	for _, c := range cases {
		task := &model.Task{Duration: 10, Progress: c.progress}
		if got := RemainingDuration(task); got != c.want {
			t.Errorf("progress=%d: expected %d, got %d", c.progress, c.want, got)
		}
	}
}

func TestRemainingDuration_CompletedContributesNothing(t *testing.T) {
	task := pertTask(t, 10, 20, 30)
	task.Progress = 100
	task.Duration = 20
	if got := RemainingDuration(task); got != 0 {
		t.Errorf("expected 0 for completed task, got %d", got)
	}
}

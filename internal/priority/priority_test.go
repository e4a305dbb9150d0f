package priority

import (
	"testing"
	"time"

	"github.com/planloom/planloom/internal/model"
)

var now = time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)

func TestScoreTask_Maximum(t *testing.T) {
	task := &model.Task{
		ID:               "t1",
		PriorityBusiness: 5,
		SLACritical:      true,
		IsMilestone:      true,
		ClientImportance: 5,
		EndDate:          now.AddDate(0, 0, 2), // within 3 days
	}
	s := ScoreTask(task, now)

	if s.Score < 95 {
		t.Errorf("expected near-maximum score, got %d", s.Score)
	}
	if s.Reasons.Business != 40 || s.Reasons.SLA != 20 || s.Reasons.Milestone != 10 {
		t.Errorf("unexpected breakdown: %+v", s.Reasons)
	}
}

func TestScoreTask_Floor(t *testing.T) {
	task := &model.Task{
		ID:               "t2",
		PriorityBusiness: 1,
		ClientImportance: 1,
		EndDate:          now.AddDate(0, 0, 30), // deadline far out
	}
	s := ScoreTask(task, now)

	// business 8 + client 2, nothing else
	if s.Score != 10 {
		t.Errorf("expected floor score 10, got %d", s.Score)
	}
	if s.Reasons.Deadline != 0 {
		t.Errorf("expected no deadline weight, got %d", s.Reasons.Deadline)
	}
}

func TestScoreTask_DeadlineBuckets(t *testing.T) {
	cases := []struct {
		daysOut int
		want    int
	}{
		{-5, 20}, // overdue counts as due now
		{0, 20},
		{1, 20},
		{2, 15},
		{3, 15},
		{5, 8},
		{7, 8},
		{8, 0},
	}
	for _, c := range cases {
		task := &model.Task{ID: "t", PriorityBusiness: 1, ClientImportance: 1, EndDate: now.AddDate(0, 0, c.daysOut)}
		s := ScoreTask(task, now)
		if s.Reasons.Deadline != c.want {
			t.Errorf("daysOut=%d: expected deadline weight %d, got %d", c.daysOut, c.want, s.Reasons.Deadline)
		}
	}
}

func TestScoreTask_ClampsTo100(t *testing.T) {
	task := &model.Task{
		ID:               "t3",
		PriorityBusiness: 9, // out of range, clamps to 5
		SLACritical:      true,
		IsMilestone:      true,
		ClientImportance: 9,
		EndDate:          now,
	}
	s := ScoreTask(task, now)
	if s.Score != 100 {
		t.Errorf("expected clamped score 100, got %d", s.Score)
	}
}

func TestScoreAll_SortsDescending(t *testing.T) {
	tasks := []model.Task{
		{ID: "low", PriorityBusiness: 1, ClientImportance: 1, EndDate: now.AddDate(0, 0, 30)},
		{ID: "high", PriorityBusiness: 5, SLACritical: true, IsMilestone: true, ClientImportance: 5, EndDate: now},
		{ID: "mid", PriorityBusiness: 3, ClientImportance: 3, EndDate: now.AddDate(0, 0, 5)},
	}
	scores := ScoreAll(tasks, now)

	if scores[0].TaskID != "high" || scores[2].TaskID != "low" {
		t.Errorf("unexpected order: %v, %v, %v", scores[0].TaskID, scores[1].TaskID, scores[2].TaskID)
	}
	for i := 1; i < len(scores); i++ {
		if scores[i].Score > scores[i-1].Score {
			t.Errorf("scores not descending at %d", i)
		}
	}
}

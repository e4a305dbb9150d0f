// Package priority scores tasks 0-100 for triage ordering. The score is
// derived on demand from current task state and never persisted.
package priority

import (
	"sort"
	"time"

	"github.com/planloom/planloom/internal/calendar"
	"github.com/planloom/planloom/internal/model"
)

// Score is one task's priority with its component breakdown.
type Score struct {
	TaskID  string  `json:"task_id"`
	Score   int     `json:"score"`
	Reasons Reasons `json:"reasons"`
}

// Reasons itemizes the weight each factor contributed.
type Reasons struct {
	Business  int `json:"business"`
	SLA       int `json:"sla"`
	Milestone int `json:"milestone"`
	Deadline  int `json:"deadline"`
	Client    int `json:"client"`
}

// ScoreTask computes the priority of a single task as of now. Weights:
// business priority up to 40, SLA-critical 20, milestone 10, deadline
// proximity up to 20 (overdue counts as due now), client importance up
// to 10; the sum is clamped to 100.
func ScoreTask(t *model.Task, now time.Time) Score {
	r := Reasons{
		Business: clamp(t.PriorityBusiness, 1, 5) * 8,
		Client:   clamp(t.ClientImportance, 1, 5) * 2,
		Deadline: deadlineWeight(t.EndDate, now),
	}
	if t.SLACritical {
		r.SLA = 20
	}
	if t.IsMilestone {
		r.Milestone = 10
	}

	total := r.Business + r.SLA + r.Milestone + r.Deadline + r.Client
	if total > 100 {
		total = 100
	}
	return Score{TaskID: t.ID, Score: total, Reasons: r}
}

// ScoreAll scores every task, highest first.
func ScoreAll(tasks []model.Task, now time.Time) []Score {
	scores := make([]Score, len(tasks))
	for i := range tasks {
		scores[i] = ScoreTask(&tasks[i], now)
	}
	sort.SliceStable(scores, func(i, j int) bool { return scores[i].Score > scores[j].Score })
	return scores
}

func deadlineWeight(deadline, now time.Time) int {
	days := int(calendar.Date(deadline).Sub(calendar.Date(now)).Hours() / 24)
	switch {
	case days <= 1: // includes overdue
		return 20
	case days <= 3:
		return 15
	case days <= 7:
		return 8
	default:
		return 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Package estimate converts a task's estimate inputs into the effective
// working duration the scheduler plans with.
package estimate

import (
	"math"

	"github.com/planloom/planloom/internal/model"
)

// PERTDuration returns the PERT weighted average (o + 4m + p) / 6 rounded
// to whole days when the task opts in and carries all three estimates,
// otherwise the task's fixed duration.
func PERTDuration(t *model.Task) int {
	if t.UsePERT && t.HasPERT() {
		return int(math.Round((*t.Optimistic + 4**t.MostLikely + *t.Pessimistic) / 6))
	}
	return t.Duration
}

// RemainingDuration is the unworked share of the effective duration.
// A task at 100% progress contributes zero remaining work regardless of
// its stored duration.
func RemainingDuration(t *model.Task) int {
	rem := math.Round(float64(PERTDuration(t)) * (1 - float64(t.Progress)/100))
	if rem < 0 {
		return 0
	}
	return int(rem)
}

// Package cpm runs critical path method analysis over a project's task
// graph: topological sort, forward and backward passes in working-day
// date arithmetic, slack, critical path and bottleneck extraction.
package cpm

import (
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/planloom/planloom/internal/calendar"
	"github.com/planloom/planloom/internal/estimate"
	"github.com/planloom/planloom/internal/graph"
	"github.com/planloom/planloom/internal/model"
)

// Options tunes a scheduling run.
type Options struct {
	// BottleneckThreshold is the slack (working days) under which a task
	// is flagged as a near-critical bottleneck. Defaults to 2.
	BottleneckThreshold int
	// IsWorkingDay overrides the weekends-only default, e.g. to plug in
	// a holiday calendar.
	IsWorkingDay calendar.WorkdayFunc
}

// Schedule runs the full CPM pass with default options.
func Schedule(g *graph.TaskGraph, projectStart time.Time) *Result {
	return ScheduleWith(g, projectStart, Options{})
}

// ScheduleWith runs topological sort, forward pass, backward pass and
// critical path extraction. It never fails: an empty project yields a
// trivial result anchored on today, and cyclic subgraphs degrade to a
// best-effort order recorded in CycleResidue.
func ScheduleWith(g *graph.TaskGraph, projectStart time.Time, opts Options) *Result {
	if opts.BottleneckThreshold == 0 {
		opts.BottleneckThreshold = 2
	}
	workday := opts.IsWorkingDay
	if workday == nil {
		workday = calendar.IsWeekday
	}

	result := &Result{Tasks: make(map[string]*TaskSchedule)}

	if g.TaskCount() == 0 {
		result.ProjectEnd = calendar.Date(time.Now())
		return result
	}

	order, residue := topoSort(g)
	result.TopoOrder = order
	result.CycleResidue = residue
	if len(residue) > 0 {
		log.Warn().
			Strs("tasks", residue).
			Msg("dependency cycle residue: schedules inside the cycle are unreliable")
	}

	start := calendar.Date(projectStart)
	addWD := func(d time.Time, n int) time.Time {
		return calendar.AddWorkingDaysFunc(d, n, workday)
	}

	durations := make(map[string]int)
	for id, t := range g.Tasks {
		durations[id] = estimate.RemainingDuration(t)
	}

	for _, id := range order {
		result.Tasks[id] = &TaskSchedule{TaskID: id}
	}

	// Forward pass: ES = max over incoming edges of the start implied by
	// each predecessor's early dates; roots start at the project start.
	for _, id := range order {
		ts := result.Tasks[id]
		dur := durations[id]
		es := start
		for _, e := range g.PredecessorsOf(id) {
			pred, ok := result.Tasks[e.PredecessorID]
			if !ok || pred.EarlyFinish.IsZero() {
				// Predecessor is cycle residue scheduled after us.
				continue
			}
			cand := forwardCandidate(e, pred, dur, addWD)
			if cand.After(es) {
				es = cand
			}
		}
		ts.EarlyStart = es
		ts.EarlyFinish = addWD(es, dur)
	}

	// Project end: latest early finish anchors the backward pass.
	for _, ts := range result.Tasks {
		if ts.EarlyFinish.After(result.ProjectEnd) {
			result.ProjectEnd = ts.EarlyFinish
		}
	}

	// Backward pass in reverse topological order. A task constraining
	// nothing downstream finishes no later than it finishes earliest.
	for i := len(order) - 1; i >= 0; i-- {
		id := order[i]
		ts := result.Tasks[id]
		dur := durations[id]

		lf := time.Time{}
		for _, e := range g.SuccessorsOf(id) {
			succ, ok := result.Tasks[e.SuccessorID]
			if !ok || succ.LateFinish.IsZero() {
				continue
			}
			cand := backwardCandidate(e, succ, dur, addWD)
			if lf.IsZero() || cand.Before(lf) {
				lf = cand
			}
		}
		if lf.IsZero() {
			lf = ts.EarlyFinish
		}
		ts.LateFinish = lf
		ts.LateStart = addWD(lf, -dur)
		ts.Slack = calendar.WorkingDaysBetweenFunc(ts.EarlyStart, ts.LateStart, workday)
		ts.IsCritical = ts.Slack == 0
	}

	// Critical path: critical tasks in topological order.
	for _, id := range order {
		ts := result.Tasks[id]
		if ts.IsCritical {
			result.CriticalPath = append(result.CriticalPath, id)
		}
		if ts.Slack >= 0 && ts.Slack < opts.BottleneckThreshold {
			result.Bottlenecks = append(result.Bottlenecks, Bottleneck{
				TaskID: id,
				Slack:  ts.Slack,
				Reason: fmt.Sprintf("near-critical: %d working day(s) of slack", ts.Slack),
			})
		}
	}

	return result
}

// forwardCandidate converts one incoming edge into an early-start
// candidate for the successor. Finish-side constraints (FF, SF) bound the
// successor's finish, so the candidate steps back by its own duration.
func forwardCandidate(e model.DependencyEdge, pred *TaskSchedule, dur int, addWD func(time.Time, int) time.Time) time.Time {
	switch e.Type {
	case model.StartToStart:
		return addWD(pred.EarlyStart, e.LagDays)
	case model.FinishToFinish:
		return addWD(addWD(pred.EarlyFinish, e.LagDays), -dur)
	case model.StartToFinish:
		return addWD(addWD(pred.EarlyStart, e.LagDays), -dur)
	default: // FS
		return addWD(pred.EarlyFinish, e.LagDays)
	}
}

// backwardCandidate converts one outgoing edge into a late-finish
// candidate for the predecessor, mirroring forwardCandidate.
func backwardCandidate(e model.DependencyEdge, succ *TaskSchedule, dur int, addWD func(time.Time, int) time.Time) time.Time {
	switch e.Type {
	case model.StartToStart:
		return addWD(addWD(succ.LateStart, -e.LagDays), dur)
	case model.FinishToFinish:
		return addWD(succ.LateFinish, -e.LagDays)
	case model.StartToFinish:
		return addWD(addWD(succ.LateFinish, -e.LagDays), dur)
	default: // FS
		return addWD(succ.LateStart, -e.LagDays)
	}
}

// topoSort runs Kahn's algorithm. The second return value lists tasks
// that could not be sorted (members of dependency cycles); they are
// appended to the order in id order so the passes still visit them.
func topoSort(g *graph.TaskGraph) (order []string, residue []string) {
	inDegree := make(map[string]int)
	for id := range g.Tasks {
		inDegree[id] = len(g.PredecessorsOf(id))
	}

	var queue []string
	for id := range g.Tasks {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)

		var newReady []string
		for _, e := range g.SuccessorsOf(node) {
			succ := e.SuccessorID
			inDegree[succ]--
			if inDegree[succ] == 0 {
				newReady = append(newReady, succ)
			}
		}
		sort.Strings(newReady)
		queue = append(queue, newReady...)
	}

	if len(order) != g.TaskCount() {
		sorted := make(map[string]bool, len(order))
		for _, id := range order {
			sorted[id] = true
		}
		for id := range g.Tasks {
			if !sorted[id] {
				residue = append(residue, id)
			}
		}
		sort.Strings(residue)
		order = append(order, residue...)
	}

	return order, residue
}

// Apply writes the derived fields of a result back onto the task list,
// matching by id. Tasks absent from the result are left untouched.
func Apply(result *Result, tasks []model.Task) {
	for i := range tasks {
		ts, ok := result.Tasks[tasks[i].ID]
		if !ok {
			continue
		}
		es, ef, ls, lf := ts.EarlyStart, ts.EarlyFinish, ts.LateStart, ts.LateFinish
		tasks[i].EarlyStart = &es
		tasks[i].EarlyFinish = &ef
		tasks[i].LateStart = &ls
		tasks[i].LateFinish = &lf
		tasks[i].Slack = ts.Slack
		tasks[i].IsCritical = ts.IsCritical
	}
}

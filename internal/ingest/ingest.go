// Package ingest parses loosely-shaped JSON project exports into model
// structs. Upstream exporters are duck-typed and omit fields freely, so
// parsing is tolerant: a malformed task is skipped with a diagnostic
// instead of failing the whole snapshot.
package ingest

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/planloom/planloom/internal/calendar"
	"github.com/planloom/planloom/internal/model"
)

// Snapshot is one project's parsed task/edge set.
type Snapshot struct {
	ProjectID    string
	ProjectStart time.Time
	Tasks        []model.Task
	Edges        []model.DependencyEdge
	Skipped      []SkippedTask
}

// SkippedTask records a task dropped during parsing and why.
type SkippedTask struct {
	ID     string
	Reason string
}

// ParseSnapshot parses a JSON project export. The document must carry a
// project_id and a tasks array; everything else is optional.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("snapshot is not valid JSON")
	}
	root := gjson.ParseBytes(data)

	projectID := root.Get("project_id").String()
	if projectID == "" {
		return nil, fmt.Errorf("snapshot missing project_id")
	}

	snap := &Snapshot{ProjectID: projectID}

	if s := root.Get("project_start").String(); s != "" {
		d, err := calendar.ParseDate(s)
		if err != nil {
			return nil, fmt.Errorf("parse project_start %q: %w", s, err)
		}
		snap.ProjectStart = d
	}

	root.Get("tasks").ForEach(func(_, item gjson.Result) bool {
		task, err := parseTask(projectID, item)
		if err != nil {
			id := item.Get("id").String()
			snap.Skipped = append(snap.Skipped, SkippedTask{ID: id, Reason: err.Error()})
			log.Warn().Str("task", id).Err(err).Msg("skipping malformed task")
			return true
		}
		snap.Tasks = append(snap.Tasks, task)
		return true
	})

	root.Get("dependencies").ForEach(func(_, item gjson.Result) bool {
		snap.Edges = append(snap.Edges, model.DependencyEdge{
			ProjectID:     projectID,
			PredecessorID: item.Get("predecessor_id").String(),
			SuccessorID:   item.Get("successor_id").String(),
			Type:          parseDependencyType(item.Get("dependency_type").String()),
			LagDays:       int(item.Get("lag_days").Int()),
		})
		return true
	})

	return snap, nil
}

// parseTask applies the 2-of-3 rule over start_date/end_date/duration:
// any two determine the third; dates win over a stale duration when all
// three are supplied; fewer than two is malformed.
func parseTask(projectID string, item gjson.Result) (model.Task, error) {
	id := item.Get("id").String()
	if id == "" {
		return model.Task{}, fmt.Errorf("missing id")
	}

	start, startOK := parseDateField(item, "start_date")
	end, endOK := parseDateField(item, "end_date")
	duration := int(item.Get("duration").Int())

	switch {
	case startOK && endOK:
		if end.Before(start) {
			return model.Task{}, fmt.Errorf("end_date precedes start_date")
		}
		duration = calendar.WorkingDaysBetween(start, end)
	case startOK && duration > 0:
		end = calendar.AddWorkingDays(start, duration)
	case endOK && duration > 0:
		start = calendar.AddWorkingDays(end, -duration)
	default:
		return model.Task{}, fmt.Errorf("need two of start_date, end_date, duration")
	}
	if duration < 1 {
		duration = 1
	}

	t := model.Task{
		ID:               id,
		ProjectID:        projectID,
		WBS:              item.Get("wbs").String(),
		Name:             item.Get("name").String(),
		StartDate:        start,
		EndDate:          end,
		Duration:         duration,
		Progress:         clampInt(int(item.Get("progress").Int()), 0, 100),
		UsePERT:          item.Get("use_pert").Bool(),
		Status:           parseStatus(item.Get("status").String()),
		ResourceID:       item.Get("resource_id").String(),
		PriorityBusiness: int(item.Get("priority_business").Int()),
		SLACritical:      item.Get("sla_critical").Bool(),
		IsMilestone:      item.Get("is_milestone").Bool(),
		ClientImportance: int(item.Get("client_importance").Int()),
		IsCritical:       item.Get("is_critical").Bool(),
	}

	if v := item.Get("capacity_percent"); v.Exists() {
		c := int(v.Int())
		t.CapacityPercent = &c
	}
	if v := item.Get("parent_id"); v.Exists() && v.String() != "" {
		p := v.String()
		t.ParentID = &p
	}
	for field, dst := range map[string]**float64{
		"optimistic_duration":  &t.Optimistic,
		"most_likely_duration": &t.MostLikely,
		"pessimistic_duration": &t.Pessimistic,
	} {
		if v := item.Get(field); v.Exists() {
			f := v.Float()
			*dst = &f
		}
	}

	return t, nil
}

func parseDateField(item gjson.Result, field string) (time.Time, bool) {
	s := item.Get(field).String()
	if s == "" {
		return time.Time{}, false
	}
	d, err := calendar.ParseDate(s)
	if err != nil {
		log.Warn().Str(field, s).Msg("unparseable date, treating as absent")
		return time.Time{}, false
	}
	return d, true
}

func parseDependencyType(s string) model.DependencyType {
	switch model.DependencyType(s) {
	case model.StartToStart, model.FinishToFinish, model.StartToFinish:
		return model.DependencyType(s)
	default:
		return model.FinishToStart
	}
}

func parseStatus(s string) model.TaskStatus {
	switch model.TaskStatus(s) {
	case model.StatusInProgress, model.StatusCompleted:
		return model.TaskStatus(s)
	default:
		return model.StatusNotStarted
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

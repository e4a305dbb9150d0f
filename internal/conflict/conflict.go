// Package conflict scans a project's tasks and dependency edges for
// scheduling violations. The four categories are independent; one task
// can appear in several. A scan's output is meant to replace all prior
// findings for the project.
package conflict

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/planloom/planloom/internal/calendar"
	"github.com/planloom/planloom/internal/model"
)

// ResourceDetails is the payload of a resource finding.
type ResourceDetails struct {
	ResourceID   string `json:"resource_id"`
	OverlapStart string `json:"overlap_start"`
	OverlapEnd   string `json:"overlap_end"`
}

// CapacityDetails is the payload of a capacity finding.
type CapacityDetails struct {
	ResourceID   string   `json:"resource_id"`
	Date         string   `json:"date"`
	TotalPercent int      `json:"total_percent"`
	TaskIDs      []string `json:"task_ids"`
}

// DependencyDetails is the payload of a dependency finding.
type DependencyDetails struct {
	PredecessorID string `json:"predecessor_id"`
	SuccessorID   string `json:"successor_id"`
	ViolationDays int    `json:"violation_days"`
}

// CalendarDetails is the payload of a calendar finding.
type CalendarDetails struct {
	Date    string `json:"date"`
	Weekday string `json:"weekday"`
}

// Detect runs all four scans and returns the combined finding set.
func Detect(projectID string, tasks []model.Task, edges []model.DependencyEdge) []model.ConflictFinding {
	var findings []model.ConflictFinding
	findings = append(findings, DetectResource(projectID, tasks)...)
	findings = append(findings, DetectCapacity(projectID, tasks)...)
	findings = append(findings, DetectDependency(projectID, tasks, edges)...)
	findings = append(findings, DetectCalendar(projectID, tasks)...)
	return findings
}

// DetectResource finds pairs of non-completed tasks booked on the same
// resource with overlapping [start, end) windows.
func DetectResource(projectID string, tasks []model.Task) []model.ConflictFinding {
	active := activeWithResource(tasks)

	var findings []model.ConflictFinding
	for i := 0; i < len(active); i++ {
		for j := i + 1; j < len(active); j++ {
			a, b := active[i], active[j]
			if a.ResourceID != b.ResourceID {
				continue
			}
			s1, e1 := calendar.Date(a.StartDate), calendar.Date(a.EndDate)
			s2, e2 := calendar.Date(b.StartDate), calendar.Date(b.EndDate)
			if !(s1.Before(e2) && s2.Before(e1)) {
				continue
			}
			overlapStart := laterOf(s1, s2)
			overlapEnd := earlierOf(e1, e2)
			findings = append(findings, newFinding(projectID, a.ID, &b.ID,
				model.ConflictResource, model.SeverityHigh, ResourceDetails{
					ResourceID:   a.ResourceID,
					OverlapStart: isoDate(overlapStart),
					OverlapEnd:   isoDate(overlapEnd),
				}))
		}
	}
	return findings
}

// DetectCapacity finds days where the summed capacity share of a
// resource's active tasks exceeds 100%. One finding is emitted per task
// active on each overloaded day; past 150% the severity rises to high.
func DetectCapacity(projectID string, tasks []model.Task) []model.ConflictFinding {
	active := activeWithResource(tasks)

	byResource := make(map[string][]*model.Task)
	for _, t := range active {
		byResource[t.ResourceID] = append(byResource[t.ResourceID], t)
	}
	resources := make([]string, 0, len(byResource))
	for r := range byResource {
		resources = append(resources, r)
	}
	sort.Strings(resources)

	var findings []model.ConflictFinding
	for _, res := range resources {
		group := byResource[res]

		first, last := span(group)
		for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
			total := 0
			var occupants []*model.Task
			for _, t := range group {
				if !day.Before(calendar.Date(t.StartDate)) && !day.After(calendar.Date(t.EndDate)) {
					total += t.Capacity()
					occupants = append(occupants, t)
				}
			}
			if total <= 100 {
				continue
			}
			severity := model.SeverityMedium
			if total > 150 {
				severity = model.SeverityHigh
			}
			ids := make([]string, len(occupants))
			for i, t := range occupants {
				ids[i] = t.ID
			}
			for _, t := range occupants {
				findings = append(findings, newFinding(projectID, t.ID, nil,
					model.ConflictCapacity, severity, CapacityDetails{
						ResourceID:   res,
						Date:         isoDate(day),
						TotalPercent: total,
						TaskIDs:      ids,
					}))
			}
		}
	}
	return findings
}

// DetectDependency finds edges whose successor starts before its
// predecessor ends, recording the violation magnitude in days.
func DetectDependency(projectID string, tasks []model.Task, edges []model.DependencyEdge) []model.ConflictFinding {
	byID := make(map[string]*model.Task, len(tasks))
	for i := range tasks {
		byID[tasks[i].ID] = &tasks[i]
	}

	var findings []model.ConflictFinding
	for _, e := range edges {
		pred, ok := byID[e.PredecessorID]
		if !ok {
			continue
		}
		succ, ok := byID[e.SuccessorID]
		if !ok {
			continue
		}
		if !succ.StartDate.Before(pred.EndDate) {
			continue
		}
		days := int(math.Ceil(pred.EndDate.Sub(succ.StartDate).Hours() / 24))
		findings = append(findings, newFinding(projectID, pred.ID, &succ.ID,
			model.ConflictDependency, model.SeverityHigh, DependencyDetails{
				PredecessorID: pred.ID,
				SuccessorID:   succ.ID,
				ViolationDays: days,
			}))
	}
	return findings
}

// DetectCalendar finds tasks scheduled to start on a weekend.
func DetectCalendar(projectID string, tasks []model.Task) []model.ConflictFinding {
	var findings []model.ConflictFinding
	for i := range tasks {
		t := &tasks[i]
		start := calendar.Date(t.StartDate)
		if calendar.IsWeekday(start) {
			continue
		}
		findings = append(findings, newFinding(projectID, t.ID, nil,
			model.ConflictCalendar, model.SeverityLow, CalendarDetails{
				Date:    isoDate(start),
				Weekday: start.Weekday().String(),
			}))
	}
	return findings
}

// activeWithResource returns pointers to the non-completed tasks that
// are booked on a resource, sorted by id for deterministic pairing.
func activeWithResource(tasks []model.Task) []*model.Task {
	var out []*model.Task
	for i := range tasks {
		t := &tasks[i]
		if t.Status == model.StatusCompleted || t.ResourceID == "" {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// span returns the earliest start and latest end across a task group.
func span(group []*model.Task) (time.Time, time.Time) {
	first := calendar.Date(group[0].StartDate)
	last := calendar.Date(group[0].EndDate)
	for _, t := range group[1:] {
		if s := calendar.Date(t.StartDate); s.Before(first) {
			first = s
		}
		if e := calendar.Date(t.EndDate); e.After(last) {
			last = e
		}
	}
	return first, last
}

func newFinding(projectID, taskA string, taskB *string, typ model.ConflictType, sev model.Severity, details any) model.ConflictFinding {
	payload, err := json.Marshal(details)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error":%q}`, err))
	}
	return model.ConflictFinding{
		ID:         uuid.NewString(),
		ProjectID:  projectID,
		TaskAID:    taskA,
		TaskBID:    taskB,
		Type:       typ,
		Severity:   sev,
		Details:    string(payload),
		Status:     model.FindingOpen,
		DetectedAt: time.Now().UTC(),
	}
}

func isoDate(t time.Time) string {
	return t.Format("2006-01-02")
}

func laterOf(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlierOf(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}

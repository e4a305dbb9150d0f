package reporter

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"

	"github.com/planloom/planloom/internal/cpm"
	"github.com/planloom/planloom/internal/graph"
	"github.com/planloom/planloom/internal/model"
	"github.com/planloom/planloom/internal/montecarlo"
	"github.com/planloom/planloom/internal/priority"
)

func init() {
	color.NoColor = true
}

func scheduleFixture(t *testing.T) (*cpm.Result, map[string]*model.Task) {
	t.Helper()
	tasks := []model.Task{
		{ID: "a", ProjectID: "p1", Name: "Design phase", Duration: 2},
		{ID: "b", ProjectID: "p1", Name: "Build phase", Duration: 3},
	}
	edges := []model.DependencyEdge{
		{ProjectID: "p1", PredecessorID: "a", SuccessorID: "b", Type: model.FinishToStart},
	}
	g := graph.Build(tasks, edges)
	start := time.Date(2026, 1, 5, 0, 0, 0, 0, time.UTC)
	return cpm.Schedule(g, start), g.Tasks
}

func TestPrintSchedule(t *testing.T) {
	result, tasks := scheduleFixture(t)

	var buf bytes.Buffer
	PrintSchedule(&buf, result, tasks)
	out := buf.String()

	for _, want := range []string{"Design phase", "Build phase", "critical path:", "2026-01-05"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintForecast(t *testing.T) {
	end := time.Date(2026, 2, 2, 0, 0, 0, 0, time.UTC)
	tasks := []model.Task{{ID: "a", ProjectID: "p1", StartDate: end.AddDate(0, 0, -7), EndDate: end, Duration: 5}}
	f := montecarlo.Run(tasks, montecarlo.Options{Iterations: 10})

	var buf bytes.Buffer
	PrintForecast(&buf, f)
	out := buf.String()

	if !strings.Contains(out, "P50") || !strings.Contains(out, "P80") {
		t.Errorf("output missing percentiles:\n%s", out)
	}
	if !strings.Contains(out, "2026-02-02") {
		t.Errorf("output missing forecast date:\n%s", out)
	}
}

func TestPrintConflicts_Empty(t *testing.T) {
	var buf bytes.Buffer
	PrintConflicts(&buf, nil)
	if !strings.Contains(buf.String(), "No scheduling conflicts") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestPrintConflicts_GroupsByType(t *testing.T) {
	other := "b"
	findings := []model.ConflictFinding{
		{ID: "f1", ProjectID: "p1", TaskAID: "a", TaskBID: &other, Type: model.ConflictResource, Severity: model.SeverityHigh, Details: `{}`},
		{ID: "f2", ProjectID: "p1", TaskAID: "a", Type: model.ConflictCalendar, Severity: model.SeverityLow, Details: `{}`},
	}

	var buf bytes.Buffer
	PrintConflicts(&buf, findings)
	out := buf.String()

	for _, want := range []string{"2 finding(s)", "resource", "calendar", "a / b"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPrintPriorities(t *testing.T) {
	scores := []priority.Score{{TaskID: "a", Score: 73, Reasons: priority.Reasons{Business: 40, SLA: 20, Deadline: 8, Client: 5}}}

	var buf bytes.Buffer
	PrintPriorities(&buf, scores)
	out := buf.String()

	if !strings.Contains(out, "73") || !strings.Contains(out, "a") {
		t.Errorf("output missing score row:\n%s", out)
	}
}

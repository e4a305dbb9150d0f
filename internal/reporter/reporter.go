// Package reporter renders scheduling, simulation and conflict results
// for the terminal.
package reporter

import (
	"fmt"
	"io"
	"sort"

	"github.com/planloom/planloom/internal/cpm"
	"github.com/planloom/planloom/internal/model"
	"github.com/planloom/planloom/internal/montecarlo"
	"github.com/planloom/planloom/internal/priority"
	"github.com/planloom/planloom/internal/ui"
)

const dateFormat = "2006-01-02"

// PrintSchedule writes a per-task schedule table plus the critical path
// and bottleneck summary.
func PrintSchedule(w io.Writer, result *cpm.Result, tasks map[string]*model.Task) {
	fmt.Fprintf(w, "%s  projected end %s\n\n",
		ui.BoldCyan("Schedule"), ui.Bold(result.ProjectEnd.Format(dateFormat)))

	fmt.Fprintf(w, "  %s %-12s %-28s %-10s %-10s %-10s %-10s %s\n",
		" ", "ID", "NAME", "ES", "EF", "LS", "LF", "SLACK")
	for _, id := range result.TopoOrder {
		ts := result.Tasks[id]
		name := ""
		if t, ok := tasks[id]; ok {
			name = t.Name
		}
		if len(name) > 28 {
			name = name[:25] + "..."
		}
		slack := fmt.Sprintf("%d", ts.Slack)
		if ts.Slack < 0 {
			slack = ui.BoldRed(slack)
		}
		fmt.Fprintf(w, "  %s %-12s %-28s %-10s %-10s %-10s %-10s %s\n",
			ui.CriticalMark(ts.IsCritical), id, name,
			ts.EarlyStart.Format(dateFormat), ts.EarlyFinish.Format(dateFormat),
			ts.LateStart.Format(dateFormat), ts.LateFinish.Format(dateFormat),
			slack)
	}

	if len(result.CriticalPath) > 0 {
		fmt.Fprintf(w, "\n  %s", ui.BoldRed("critical path:"))
		for _, id := range result.CriticalPath {
			fmt.Fprintf(w, " %s", id)
		}
		fmt.Fprintln(w)
	}

	for _, b := range result.Bottlenecks {
		fmt.Fprintf(w, "  %s %s — %s\n", ui.BoldYellow("bottleneck"), b.TaskID, b.Reason)
	}

	if len(result.CycleResidue) > 0 {
		fmt.Fprintf(w, "\n  %s dependency cycle involving %v — schedules inside the cycle are unreliable\n",
			ui.BoldRed("warning:"), result.CycleResidue)
	}
}

// PrintForecast writes the simulated completion percentiles.
func PrintForecast(w io.Writer, f *montecarlo.Forecast) {
	fmt.Fprintf(w, "%s  %d iterations\n", ui.BoldCyan("Completion forecast"), f.Iterations)
	fmt.Fprintf(w, "  P50 %s\n", ui.Bold(f.P50.Format(dateFormat)))
	fmt.Fprintf(w, "  P80 %s\n", ui.Bold(f.P80.Format(dateFormat)))
}

// PrintConflicts writes the finding set grouped by category.
func PrintConflicts(w io.Writer, findings []model.ConflictFinding) {
	if len(findings) == 0 {
		fmt.Fprintf(w, "%s\n", ui.Green("No scheduling conflicts detected"))
		return
	}

	byType := make(map[model.ConflictType][]model.ConflictFinding)
	for _, f := range findings {
		byType[f.Type] = append(byType[f.Type], f)
	}
	types := make([]string, 0, len(byType))
	for t := range byType {
		types = append(types, string(t))
	}
	sort.Strings(types)

	fmt.Fprintf(w, "%s  %d finding(s)\n", ui.BoldCyan("Conflicts"), len(findings))
	for _, t := range types {
		fmt.Fprintf(w, "\n  %s\n", ui.BoldWhite(t))
		for _, f := range byType[model.ConflictType(t)] {
			other := ""
			if f.TaskBID != nil {
				other = " / " + *f.TaskBID
			}
			fmt.Fprintf(w, "    [%s] %s%s  %s\n",
				ui.SeverityLabel(f.Severity), f.TaskAID, other, ui.Dim(f.Details))
		}
	}
}

// PrintPriorities writes the ranked priority scores.
func PrintPriorities(w io.Writer, scores []priority.Score) {
	fmt.Fprintf(w, "%s\n", ui.BoldCyan("Task priorities"))
	for _, s := range scores {
		fmt.Fprintf(w, "  %3d  %-12s %s\n", s.Score, s.TaskID,
			ui.Dim(fmt.Sprintf("business=%d sla=%d milestone=%d deadline=%d client=%d",
				s.Reasons.Business, s.Reasons.SLA, s.Reasons.Milestone,
				s.Reasons.Deadline, s.Reasons.Client)))
	}
}

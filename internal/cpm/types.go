package cpm

import "time"

// Result holds the complete critical path analysis for one project.
type Result struct {
	Tasks        map[string]*TaskSchedule
	TopoOrder    []string
	CycleResidue []string // tasks left over by the topological sort; their schedules are unreliable
	ProjectEnd   time.Time
	CriticalPath []string // critical task ids in topological order
	Bottlenecks  []Bottleneck
}

// TaskSchedule holds the computed scheduling window for a single task.
type TaskSchedule struct {
	TaskID      string
	EarlyStart  time.Time
	EarlyFinish time.Time
	LateStart   time.Time
	LateFinish  time.Time
	Slack       int // working days; negative when the plan is infeasible
	IsCritical  bool
}

// Bottleneck flags a task whose slack is small enough that any slip
// likely moves the project end date.
type Bottleneck struct {
	TaskID string
	Slack  int
	Reason string
}

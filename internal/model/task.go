package model

import (
	"time"

	"gorm.io/gorm"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	StatusNotStarted TaskStatus = "not-started"
	StatusInProgress TaskStatus = "in-progress"
	StatusCompleted  TaskStatus = "completed"
)

// DependencyType is the four classic precedence relationships.
type DependencyType string

const (
	FinishToStart  DependencyType = "FS"
	StartToStart   DependencyType = "SS"
	FinishToFinish DependencyType = "FF"
	StartToFinish  DependencyType = "SF"
)

// Task is a single schedulable unit of work within a project.
// StartDate/EndDate/Duration are caller-supplied; the Early*/Late*/Slack
// fields are derived by a scheduling run and overwritten on every run.
type Task struct {
	ID        string         `gorm:"primarykey" json:"id"`
	ProjectID string         `gorm:"index;not null" json:"project_id"`
	WBS       string         `json:"wbs"`
	Name      string         `gorm:"not null" json:"name"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Duration  int       `json:"duration"` // working days, >= 1 after ingest
	Progress  int       `json:"progress"` // 0-100

	UsePERT     bool     `json:"use_pert"`
	Optimistic  *float64 `json:"optimistic_duration,omitempty"`
	MostLikely  *float64 `json:"most_likely_duration,omitempty"`
	Pessimistic *float64 `json:"pessimistic_duration,omitempty"`

	// Derived by the scheduler. Nil until the first run.
	EarlyStart  *time.Time `json:"early_start,omitempty"`
	EarlyFinish *time.Time `json:"early_finish,omitempty"`
	LateStart   *time.Time `json:"late_start,omitempty"`
	LateFinish  *time.Time `json:"late_finish,omitempty"`
	Slack       int        `json:"slack"`
	IsCritical  bool       `json:"is_critical"`

	Status           TaskStatus `gorm:"default:'not-started'" json:"status"`
	ResourceID       string     `gorm:"index" json:"resource_id,omitempty"`
	CapacityPercent  *int       `json:"capacity_percent,omitempty"` // nil means 100
	PriorityBusiness int        `json:"priority_business"`          // 1-5
	SLACritical      bool       `json:"sla_critical"`
	IsMilestone      bool       `json:"is_milestone"`
	ClientImportance int        `json:"client_importance"` // 1-5
	ParentID         *string    `json:"parent_id,omitempty"`
}

// Capacity returns the task's capacity share of its resource, defaulting
// to 100 when the field was never supplied.
func (t *Task) Capacity() int {
	if t.CapacityPercent == nil {
		return 100
	}
	return *t.CapacityPercent
}

// HasPERT reports whether all three PERT estimates are present.
func (t *Task) HasPERT() bool {
	return t.Optimistic != nil && t.MostLikely != nil && t.Pessimistic != nil
}

// DependencyEdge is a typed precedence constraint between two tasks.
// LagDays may be negative to express lead time.
type DependencyEdge struct {
	ID            uint           `gorm:"primarykey" json:"id"`
	ProjectID     string         `gorm:"index;not null" json:"project_id"`
	PredecessorID string         `gorm:"index;not null" json:"predecessor_id"`
	SuccessorID   string         `gorm:"index;not null" json:"successor_id"`
	Type          DependencyType `gorm:"default:'FS'" json:"dependency_type"`
	LagDays       int            `json:"lag_days"`
}

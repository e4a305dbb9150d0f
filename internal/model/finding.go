package model

import "time"

// ConflictType classifies a scheduling violation.
type ConflictType string

const (
	ConflictResource   ConflictType = "resource"
	ConflictCapacity   ConflictType = "capacity"
	ConflictDependency ConflictType = "dependency"
	ConflictCalendar   ConflictType = "calendar"
)

// Severity ranks how urgent a finding is.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// FindingStatus tracks a finding through resolution.
type FindingStatus string

const (
	FindingOpen     FindingStatus = "open"
	FindingResolved FindingStatus = "resolved"
	FindingIgnored  FindingStatus = "ignored"
)

// ConflictFinding is one detected scheduling violation. Findings are
// produced fresh on every scan; a scan replaces all prior findings for
// the project. TaskBID is nil for single-task findings (calendar).
type ConflictFinding struct {
	ID        string  `gorm:"primarykey" json:"id"`
	ProjectID string  `gorm:"index;not null" json:"project_id"`
	TaskAID   string  `gorm:"column:task_a_id;not null" json:"task_a_id"`
	TaskBID   *string `gorm:"column:task_b_id" json:"task_b_id,omitempty"`

	Type     ConflictType `gorm:"not null" json:"conflict_type"`
	Severity Severity     `gorm:"not null" json:"severity"`
	Details  string       `gorm:"type:text" json:"details"` // type-specific JSON payload

	Status         FindingStatus `gorm:"default:'open'" json:"status"`
	ResolutionNote string        `json:"resolution_note,omitempty"`
	DetectedAt     time.Time     `json:"detected_at"`
}

// Resolve marks the finding resolved with a note. The detector itself
// never calls this; it is a user action.
func (f *ConflictFinding) Resolve(note string) {
	f.Status = FindingResolved
	f.ResolutionNote = note
}

package ui

import (
	"github.com/fatih/color"

	"github.com/planloom/planloom/internal/model"
)

// Sprint color functions for building styled strings.
var (
	Bold       = color.New(color.Bold).SprintFunc()
	Dim        = color.New(color.Faint).SprintFunc()
	Cyan       = color.New(color.FgCyan).SprintFunc()
	Green      = color.New(color.FgGreen).SprintFunc()
	Red        = color.New(color.FgRed).SprintFunc()
	Yellow     = color.New(color.FgYellow).SprintFunc()
	Magenta    = color.New(color.FgMagenta).SprintFunc()
	BoldCyan   = color.New(color.Bold, color.FgCyan).SprintFunc()
	BoldRed    = color.New(color.Bold, color.FgRed).SprintFunc()
	BoldWhite  = color.New(color.Bold, color.FgWhite).SprintFunc()
	BoldYellow = color.New(color.Bold, color.FgYellow).SprintFunc()
)

// SeverityLabel colors a severity for terminal output.
func SeverityLabel(s model.Severity) string {
	switch s {
	case model.SeverityHigh:
		return BoldRed(string(s))
	case model.SeverityMedium:
		return Yellow(string(s))
	default:
		return Dim(string(s))
	}
}

// CriticalMark renders the critical-path marker for a task row.
func CriticalMark(critical bool) string {
	if critical {
		return BoldRed("●")
	}
	return Dim("○")
}

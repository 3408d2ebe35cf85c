package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bjulian5/bbpr/internal/bitbucket"
)

// Status icons
const (
	IconOpen       = "●"
	IconMerged     = "◆"
	IconDeclined   = "✗"
	IconSuperseded = "◐"
	IconUnknown    = "○"
)

// Status represents a pull request state with rendering capabilities
type Status struct {
	Icon  string
	Label string
	State string // OPEN, MERGED, DECLINED, SUPERSEDED
	Style lipgloss.Style
}

// GetStatus returns a Status for a Bitbucket state
func GetStatus(state string) Status {
	switch state {
	case bitbucket.StateOpen:
		return Status{Icon: IconOpen, Label: "Open", State: state, Style: StatusOpenStyle}
	case bitbucket.StateMerged:
		return Status{Icon: IconMerged, Label: "Merged", State: state, Style: StatusMergedStyle}
	case bitbucket.StateDeclined:
		return Status{Icon: IconDeclined, Label: "Declined", State: state, Style: StatusDeclinedStyle}
	case bitbucket.StateSuperseded:
		return Status{Icon: IconSuperseded, Label: "Superseded", State: state, Style: StatusSupersededStyle}
	default:
		label := state
		if label == "" {
			label = "Unknown"
		}
		return Status{Icon: IconUnknown, Label: label, State: state, Style: StatusUnknownStyle}
	}
}

// Render returns the full status with icon and label (e.g., "● Open")
func (s Status) Render() string {
	return s.Style.Render(s.Icon + " " + s.Label)
}

// RenderWithCount returns status with count (e.g., "● 3 open")
func (s Status) RenderWithCount(count int) string {
	if count == 0 {
		return ""
	}
	text := fmt.Sprintf("%s %d %s", s.Icon, count, strings.ToLower(s.Label))
	return s.Style.Render(text)
}

// summaryOrder is the order states appear in FormatStateSummary
var summaryOrder = []string{
	bitbucket.StateOpen,
	bitbucket.StateMerged,
	bitbucket.StateDeclined,
	bitbucket.StateSuperseded,
}

// CountByState counts states, e.g. the State column of listed rows
func CountByState(states []string) map[string]int {
	counts := make(map[string]int)
	for _, s := range states {
		counts[s]++
	}
	return counts
}

// FormatStateSummary formats state counts
// e.g., "● 2 open  ◆ 1 merged"
func FormatStateSummary(counts map[string]int) string {
	var parts []string
	for _, state := range summaryOrder {
		if counts[state] > 0 {
			parts = append(parts, GetStatus(state).RenderWithCount(counts[state]))
		}
	}
	return strings.Join(parts, "  ")
}

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	zone "github.com/lrstanley/bubblezone"

	"gitlab.com/tinyland/lab/onehand/pkg/gesture"
	"gitlab.com/tinyland/lab/onehand/pkg/viewport"
)

const imageZone = "onehand-image"

var (
	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			Foreground(lipgloss.Color("#E5E7EB")).
			Background(lipgloss.Color("#374151"))

	activeButtonStyle = buttonStyle.
				Bold(true).
				Background(lipgloss.Color("#7C3AED"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6B7280"))

	promptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#F59E0B"))
)

var controlLabels = map[gesture.Target]string{
	gesture.ZoomIn:       "+",
	gesture.ZoomOut:      "-",
	gesture.RotateCCW:    "⟲",
	gesture.RotateCW:     "⟳",
	gesture.Reset:        "reset",
	gesture.MotionToggle: "motion",
}

func zoneID(t gesture.Target) string {
	return "onehand-" + t.String()
}

// controlActive reports whether a control should be highlighted.
func controlActive(t gesture.Target, f viewport.Flags) bool {
	switch t {
	case gesture.ZoomIn, gesture.ZoomOut:
		return f.Zooming
	case gesture.RotateCW, gesture.RotateCCW:
		return f.Rotating
	case gesture.MotionToggle:
		return f.MotionTracking
	}
	return false
}

// renderControls draws the control bar on the side of the preferred hand.
// Each button is wrapped in a zone so mouse presses resolve to a target.
func renderControls(zones *zone.Manager, f viewport.Flags, hand string, width int) string {
	targets := gesture.Targets()
	if hand == "left" {
		for i, j := 0, len(targets)-1; i < j; i, j = i+1, j-1 {
			targets[i], targets[j] = targets[j], targets[i]
		}
	}

	buttons := make([]string, 0, len(targets))
	for _, t := range targets {
		style := buttonStyle
		if controlActive(t, f) {
			style = activeButtonStyle
		}
		buttons = append(buttons, zones.Mark(zoneID(t), style.Render(controlLabels[t])))
	}
	bar := strings.Join(buttons, " ")

	pos := lipgloss.Right
	if hand == "left" {
		pos = lipgloss.Left
	}
	return lipgloss.PlaceHorizontal(width, pos, bar)
}

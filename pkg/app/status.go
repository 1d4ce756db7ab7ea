package app

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"

	"gitlab.com/tinyland/lab/onehand/pkg/motion"
	"gitlab.com/tinyland/lab/onehand/pkg/viewport"
)

// statusLine formats the info read-out, truncated to width.
//
//	3000x1500 → 1536x768 · 2.0x · 45.0° · +12,-4 of 400,500 · ↑→ · pro
func statusLine(s viewport.Snapshot, width int) string {
	if width <= 0 {
		return ""
	}
	if !s.HasImage {
		return ansi.Truncate(dimStyle.Render("no image"), width, "…")
	}

	parts := []string{
		fmt.Sprintf("%.0fx%.0f → %.0fx%.0f", s.ImageSize.W, s.ImageSize.H, s.WorkingSize.W, s.WorkingSize.H),
		fmt.Sprintf("%.1fx", s.Scale),
		fmt.Sprintf("%.1f°", s.Rotation),
		fmt.Sprintf("%+.0f,%+.0f of %.0f,%.0f", s.Offset.X, s.Offset.Y, s.MaxOffset.X, s.MaxOffset.Y),
	}
	if s.MotionTracking {
		switch {
		case s.InDeadZone:
			parts = append(parts, "motion ·")
		case s.Compass.Active():
			parts = append(parts, "motion "+compassArrows(s.Compass))
		default:
			parts = append(parts, "motion")
		}
		if s.Orientation != motion.Portrait {
			parts = append(parts, s.Orientation.String())
		}
	}
	parts = append(parts, entitlementLabel(s))

	return ansi.Truncate(strings.Join(parts, " · "), width, "…")
}

func compassArrows(c motion.Compass) string {
	var b strings.Builder
	if c.Up {
		b.WriteString("↑")
	}
	if c.Down {
		b.WriteString("↓")
	}
	if c.Left {
		b.WriteString("←")
	}
	if c.Right {
		b.WriteString("→")
	}
	return b.String()
}

func entitlementLabel(s viewport.Snapshot) string {
	switch {
	case s.Entitlement.IsPro && s.Entitlement.HasExtremeZoom:
		return "pro+extreme"
	case s.Entitlement.HasExtremeZoom:
		return "extreme"
	case s.Entitlement.IsPro:
		return "pro"
	default:
		return "free"
	}
}

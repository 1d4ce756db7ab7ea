package motion

// Compass reports which directional arrows the tilt indicator lights.
type Compass struct {
	Up    bool
	Down  bool
	Left  bool
	Right bool
}

// Active reports whether any arrow is lit.
func (c Compass) Active() bool {
	return c.Up || c.Down || c.Left || c.Right
}

// CompassFor derives the lit arrows from a corrected relative tilt.
// Forward tilt (negative pitch) points up, right roll points right.
func CompassFor(rel Attitude) Compass {
	return Compass{
		Up:    rel.Pitch < 0,
		Down:  rel.Pitch > 0,
		Left:  rel.Roll < 0,
		Right: rel.Roll > 0,
	}
}

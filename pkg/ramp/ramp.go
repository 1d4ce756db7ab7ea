// Package ramp provides the press-and-hold value generator shared by the
// continuous zoom and rotation controls.
//
// A Ramp is driven by elapsed time only. The host event loop calls Tick with
// the seconds since the previous tick; the Ramp never owns a timer.
package ramp

// Mode selects how the speed evolves while a control is held.
type Mode int

const (
	// Accelerating multiplies the speed by Acceleration after every tick
	// until MaxSpeed is reached.
	Accelerating Mode = iota
	// Constant applies InitialSpeed on every tick.
	Constant
)

// referenceHz is the tick rate the speeds are expressed against. A speed of
// 0.01 means 0.01 units per 1/60 s.
const referenceHz = 60

// Config holds the tunables for one Ramp.
type Config struct {
	Mode Mode

	// InitialSpeed is the per-reference-tick step right after Start.
	InitialSpeed float64

	// Acceleration is the multiplicative growth per tick (>= 1).
	Acceleration float64

	// MaxSpeed caps the per-reference-tick step.
	MaxSpeed float64

	// MaxDt clamps a single tick's elapsed time so a stalled loop never
	// produces a catch-up jump. 0 disables clamping.
	MaxDt float64
}

// ZoomDefaults returns the accelerating zoom ramp settings.
func ZoomDefaults() Config {
	return Config{
		Mode:         Accelerating,
		InitialSpeed: 0.01,
		Acceleration: 1.05,
		MaxSpeed:     0.1,
		MaxDt:        0.1,
	}
}

// RotationDefaults returns the constant rotation ramp settings, in degrees.
func RotationDefaults() Config {
	return Config{
		Mode:         Constant,
		InitialSpeed: 2,
		Acceleration: 1,
		MaxSpeed:     2,
		MaxDt:        0.1,
	}
}

// Ramp is an Idle/Running state machine producing signed deltas.
// It is not safe for concurrent use; the owner context drives it.
type Ramp struct {
	cfg     Config
	sign    float64
	speed   float64
	running bool
}

// New returns an idle Ramp. Zero or invalid fields fall back to the zoom
// defaults.
func New(cfg Config) *Ramp {
	def := ZoomDefaults()
	if cfg.InitialSpeed <= 0 {
		cfg.InitialSpeed = def.InitialSpeed
	}
	if cfg.Acceleration < 1 {
		cfg.Acceleration = 1
	}
	if cfg.MaxSpeed < cfg.InitialSpeed {
		cfg.MaxSpeed = cfg.InitialSpeed
	}
	if cfg.MaxDt < 0 {
		cfg.MaxDt = 0
	}
	return &Ramp{cfg: cfg}
}

// Start moves the Ramp to Running in the direction of dir (positive or
// negative). Restarting resets the speed to InitialSpeed. A zero dir is
// ignored.
func (r *Ramp) Start(dir int) {
	if dir == 0 {
		return
	}
	r.sign = 1
	if dir < 0 {
		r.sign = -1
	}
	r.speed = r.cfg.InitialSpeed
	r.running = true
}

// Stop returns the Ramp to Idle. Later ticks are no-ops.
func (r *Ramp) Stop() {
	r.running = false
	r.speed = 0
}

// Running reports whether the Ramp is in the Running state.
func (r *Ramp) Running() bool {
	return r.running
}

// Direction returns +1 or -1 while running, 0 when idle.
func (r *Ramp) Direction() int {
	if !r.running {
		return 0
	}
	return int(r.sign)
}

// Speed returns the current per-reference-tick speed (0 when idle).
func (r *Ramp) Speed() float64 {
	return r.speed
}

// Tick advances the Ramp by elapsedSeconds and returns the signed delta to
// apply: speed x elapsed x 60. The speed then grows toward MaxSpeed in
// Accelerating mode.
func (r *Ramp) Tick(elapsedSeconds float64) float64 {
	if !r.running || elapsedSeconds <= 0 {
		return 0
	}
	if r.cfg.MaxDt > 0 && elapsedSeconds > r.cfg.MaxDt {
		elapsedSeconds = r.cfg.MaxDt
	}

	delta := r.sign * r.speed * elapsedSeconds * referenceHz

	if r.cfg.Mode == Accelerating {
		r.speed *= r.cfg.Acceleration
		if r.speed > r.cfg.MaxSpeed {
			r.speed = r.cfg.MaxSpeed
		}
	}
	return delta
}

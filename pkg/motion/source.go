package motion

import (
	"errors"
	"sync"
)

// ErrSensorUnavailable is returned when the device has no attitude sensor
// or permission to read it was denied.
var ErrSensorUnavailable = errors.New("motion: attitude sensor unavailable")

// Source is the attitude sensor collaborator. Readings are delivered by the
// host into the viewport; Source only controls the hardware lifecycle and
// exposes the latest reading for calibration.
type Source interface {
	Available() bool
	Start() error
	Stop()
	Current() (Attitude, bool)
}

// SimulatedSource is an in-memory Source driven by explicit tilt calls,
// used by the terminal viewer and tests.
type SimulatedSource struct {
	mu        sync.Mutex
	attitude  Attitude
	available bool
	running   bool
}

// NewSimulatedSource returns an available, stopped source at zero tilt.
func NewSimulatedSource() *SimulatedSource {
	return &SimulatedSource{available: true}
}

// SetAvailable toggles whether Start succeeds.
func (s *SimulatedSource) SetAvailable(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.available = ok
	if !ok {
		s.running = false
	}
}

// Available reports whether the sensor can be started.
func (s *SimulatedSource) Available() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.available
}

// Start begins producing readings.
func (s *SimulatedSource) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.available {
		return ErrSensorUnavailable
	}
	s.running = true
	return nil
}

// Stop halts the source and zeroes its reading.
func (s *SimulatedSource) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	s.attitude = Attitude{}
}

// Running reports whether Start has been called without a later Stop.
func (s *SimulatedSource) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Current returns the latest reading while running.
func (s *SimulatedSource) Current() (Attitude, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return Attitude{}, false
	}
	return s.attitude, true
}

// Set replaces the simulated reading.
func (s *SimulatedSource) Set(a Attitude) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attitude = a
}

// Tilt nudges the simulated reading by the given deltas and returns it.
func (s *SimulatedSource) Tilt(dPitch, dRoll float64) Attitude {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attitude.Pitch += dPitch
	s.attitude.Roll += dRoll
	return s.attitude
}

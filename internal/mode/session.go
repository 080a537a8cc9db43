package mode

import (
	"fmt"
)

// Session holds the active mode and an independent set of raw inputs per
// mode. Switching modes does not carry values across. A Session is not safe
// for concurrent use.
type Session struct {
	controller *Controller
	active     Mode
	inputs     [len(modeNames)]Inputs
}

// Active returns the selected mode.
func (s *Session) Active() Mode {
	return s.active
}

// Select makes m the active mode.
func (s *Session) Select(m Mode) error {
	if !m.valid() {
		return fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	s.active = m
	return nil
}

// Inputs returns the stored raw inputs of m.
func (s *Session) Inputs(m Mode) (Inputs, error) {
	if !m.valid() {
		return Inputs{}, fmt.Errorf("%w: %d", ErrUnknownMode, int(m))
	}
	return s.inputs[m], nil
}

// Set writes field of the active mode through its slider and returns the
// stored value.
func (s *Session) Set(field Field, value float64) (float64, error) {
	d, err := Describe(s.active)
	if err != nil {
		return 0, err
	}
	slider, ok := d.Slider(field)
	if !ok {
		if _, ownerErr := OwnerOf(field); ownerErr != nil {
			return 0, ownerErr
		}
		return 0, fmt.Errorf("%w: %s does not read %s", ErrFieldNotInMode, s.active, field)
	}

	clamped := slider.Clamp(value)
	updated, err := s.inputs[s.active].With(field, clamped)
	if err != nil {
		return 0, err
	}
	s.inputs[s.active] = updated
	return clamped, nil
}

// Reset restores the active mode's inputs to the slider defaults.
func (s *Session) Reset() {
	s.inputs[s.active] = DefaultInputs()
}

// Current recomputes the derived state of the active mode.
func (s *Session) Current() (DerivedState, error) {
	return s.controller.Compute(s.active, s.inputs[s.active])
}

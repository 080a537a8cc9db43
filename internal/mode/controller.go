package mode

import (
	"errors"

	"github.com/iwvelando/ltv-leverage/internal/chart"
	"github.com/iwvelando/ltv-leverage/pkg/leverage"
	"go.uber.org/zap"
)

// Controller computes derived states with a configured chart generator.
type Controller struct {
	logger *zap.Logger
	charts *chart.Generator
}

// NewController returns a Controller sampling the reference curve at samples points.
func NewController(logger *zap.Logger, samples int) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Controller{
		logger: logger,
		charts: chart.NewGenerator(samples),
	}
}

// Charts returns the controller's chart generator.
func (c *Controller) Charts() *chart.Generator {
	return c.charts
}

// Compute derives the state for m from inputs.
func (c *Controller) Compute(m Mode, inputs Inputs) (DerivedState, error) {
	state, err := computeWith(c.charts, m, inputs)
	if err != nil {
		if errors.Is(err, leverage.ErrDomain) {
			c.logger.Warn("input outside conversion domain",
				zap.String("op", "mode.Compute"),
				zap.Stringer("mode", m),
				zap.Error(err),
			)
		}
		return DerivedState{}, err
	}

	c.logger.Debug("derived state computed",
		zap.String("op", "mode.Compute"),
		zap.Stringer("mode", m),
		zap.Float64("leverage", state.Leverage),
		zap.Float64("effectiveLTV", state.EffectiveLTV),
	)
	return state, nil
}

// ComputeClamped passes the mode's inputs through its sliders before computing,
// the same way a slider control would bound them.
func (c *Controller) ComputeClamped(m Mode, inputs Inputs) (DerivedState, error) {
	clamped, err := inputs.Clamp(m)
	if err != nil {
		return DerivedState{}, err
	}
	return c.Compute(m, clamped)
}

// NewSession returns a session in AdjustLTV mode with every mode at its defaults.
func (c *Controller) NewSession() *Session {
	s := &Session{controller: c, active: AdjustLTV}
	for _, m := range Modes() {
		s.inputs[m] = DefaultInputs()
	}
	return s
}

// Package lowpass implements a first-order IIR low-pass wrench filter,
// smoothing each of the six force/torque components independently.
package lowpass

import (
	"context"
	"math"
	"sync"

	"github.com/edaniels/golog"
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	goutils "go.viam.com/utils"

	"go.viam.com/controlfilters/filter"
	"go.viam.com/controlfilters/referenceframe"
	"go.viam.com/controlfilters/utils"
)

// Model is the name this filter registers under.
const Model = "low_pass"

func init() {
	filter.RegisterModel(Model, New)
}

// Config holds the sampling and damping attributes of the filter.
type Config struct {
	SamplingFrequency float64 `json:"sampling_frequency"`
	DampingFrequency  float64 `json:"damping_frequency"`
	DampingIntensity  float64 `json:"damping_intensity"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.SamplingFrequency <= 0 {
		return goutils.NewConfigValidationError(path,
			errors.New("sampling_frequency must be a positive number of hertz"))
	}
	return nil
}

type lowPass struct {
	name   string
	logger golog.Logger

	mu         sync.Mutex
	configured bool
	a1, b1     float64
	// one sample of history on each of the six axes
	old         [6]float64
	filteredOld [6]float64
}

// New returns an unconfigured low-pass wrench filter. It never looks up
// transforms, so the provider is ignored.
func New(name string, _ referenceframe.TransformProvider, logger golog.Logger) filter.WrenchFilter {
	return &lowPass{name: name, logger: logger}
}

func (lp *lowPass) Name() string {
	return lp.name
}

// Reconfigure fully revalidates the attributes, recomputes the filter
// coefficients, and resets the per-axis history. On failure the previous
// configuration, if any, stays in effect.
func (lp *lowPass) Reconfigure(ctx context.Context, attributes utils.AttributeMap) error {
	var cfg Config
	if _, err := utils.TransformAttributeMapToStruct(&cfg, attributes); err != nil {
		return err
	}
	if err := cfg.Validate(lp.name); err != nil {
		return err
	}
	a1 := math.Exp(-1.0 / cfg.SamplingFrequency * (2.0 * math.Pi * cfg.DampingFrequency) /
		math.Pow(10.0, cfg.DampingIntensity/-10.0))

	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.a1 = a1
	lp.b1 = 1.0 - a1
	lp.old = [6]float64{}
	lp.filteredOld = [6]float64{}
	lp.configured = true
	lp.logger.Debugw("low-pass filter configured", "name", lp.name, "a1", a1)
	return nil
}

// Update writes the smoothed wrench to out. The smoothed value lags the
// input by one sample, so the first update after a (re)configure yields
// zero. The output stays in the frame the sample was measured in.
func (lp *lowPass) Update(ctx context.Context, in, out *referenceframe.Wrench) error {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	if !lp.configured {
		return filter.ErrNotConfigured
	}

	var filtered [6]float64
	for i := range filtered {
		filtered[i] = lp.b1*lp.old[i] + lp.a1*lp.filteredOld[i]
	}
	lp.filteredOld = filtered
	lp.old = [6]float64{in.Force.X, in.Force.Y, in.Force.Z, in.Torque.X, in.Torque.Y, in.Torque.Z}

	out.FrameName = in.FrameName
	out.Force = r3.Vector{X: filtered[0], Y: filtered[1], Z: filtered[2]}
	out.Torque = r3.Vector{X: filtered[3], Y: filtered[4], Z: filtered[5]}
	out.CapturedAt = in.CapturedAt
	return nil
}

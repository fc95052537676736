// Package gravitycompensation implements a wrench filter that removes the
// force/torque contribution of a rigid body's own weight from raw six-axis
// measurements.
//
// Gravity acts as a constant force vector in the world frame, but the sensor
// reports in its own rotating frame, so the gravity-induced wrench at the
// sensor is recomputed from the live orientation on every sample: the weight
// acting at the body's center of gravity is expressed in world coordinates,
// its torque about the origin taken as CoG x F, and both are subtracted from
// the measurement before the result is rotated into the requested output
// frame.
package gravitycompensation

import (
	"context"
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
const Model = "gravity_compensation"

func init() {
	filter.RegisterModel(Model, New)
}

// Config holds the frame names and calibration vectors of the filter.
type Config struct {
	WorldFrame  string    `json:"world_frame"`
	SensorFrame string    `json:"sensor_frame"`
	ForceFrame  string    `json:"force_frame"`
	CoG         CoGConfig `json:"CoG"`
}

// CoGConfig is the center of gravity calibration: the point the body's
// weight acts at, expressed in the sensor frame, and the gravity force it
// exerts, expressed in the force frame.
type CoGConfig struct {
	Pos   []float64 `json:"pos"`
	Force []float64 `json:"force"`
}

// Validate ensures all parts of the config are valid.
func (cfg *Config) Validate(path string) error {
	if cfg.WorldFrame == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "world_frame")
	}
	if cfg.SensorFrame == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "sensor_frame")
	}
	if cfg.ForceFrame == "" {
		return goutils.NewConfigValidationFieldRequiredError(path, "force_frame")
	}
	if len(cfg.CoG.Pos) != 3 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("CoG.pos must have exactly 3 components, got %d", len(cfg.CoG.Pos)))
	}
	if len(cfg.CoG.Force) != 3 {
		return goutils.NewConfigValidationError(path,
			errors.Errorf("CoG.force must have exactly 3 components, got %d", len(cfg.CoG.Force)))
	}
	return nil
}

// calibration is an immutable snapshot of one successful configuration.
// Updates read whichever snapshot is current; reconfiguration swaps in a
// whole new one so readers never observe a half-updated calibration.
type calibration struct {
	worldFrame  string
	sensorFrame string
	forceFrame  string
	cog         r3.Vector // in the sensor frame
	gravity     r3.Vector // in the force frame
}

type gravityCompensation struct {
	name       string
	logger     golog.Logger
	transforms referenceframe.TransformProvider

	mu    sync.RWMutex
	calib *calibration // nil until the first successful Reconfigure
}

// New returns an unconfigured gravity compensation filter that resolves
// frame transforms through the given provider.
func New(name string, provider referenceframe.TransformProvider, logger golog.Logger) filter.WrenchFilter {
	return &gravityCompensation{name: name, transforms: provider, logger: logger}
}

func (gc *gravityCompensation) Name() string {
	return gc.name
}

// Reconfigure fully revalidates the attributes and atomically swaps in a new
// calibration snapshot. On failure the previous calibration, if any, stays
// in effect.
func (gc *gravityCompensation) Reconfigure(ctx context.Context, attributes utils.AttributeMap) error {
	var cfg Config
	if _, err := utils.TransformAttributeMapToStruct(&cfg, attributes); err != nil {
		return err
	}
	if err := cfg.Validate(gc.name); err != nil {
		return err
	}
	calib := &calibration{
		worldFrame:  cfg.WorldFrame,
		sensorFrame: cfg.SensorFrame,
		forceFrame:  cfg.ForceFrame,
		cog:         r3.Vector{X: cfg.CoG.Pos[0], Y: cfg.CoG.Pos[1], Z: cfg.CoG.Pos[2]},
		gravity:     r3.Vector{X: cfg.CoG.Force[0], Y: cfg.CoG.Force[1], Z: cfg.CoG.Force[2]},
	}
	gc.mu.Lock()
	gc.calib = calib
	gc.mu.Unlock()
	gc.logger.Debugw("gravity compensation configured",
		"name", gc.name,
		"world_frame", calib.worldFrame,
		"sensor_frame", calib.sensorFrame,
		"force_frame", calib.forceFrame)
	return nil
}

// Update subtracts the gravity-induced wrench from in and writes the
// corrected wrench to out, expressed in the frame preset on out.FrameName
// and stamped with the input's timestamp.
func (gc *gravityCompensation) Update(ctx context.Context, in, out *referenceframe.Wrench) error {
	gc.mu.RLock()
	calib := gc.calib
	gc.mu.RUnlock()
	if calib == nil {
		return filter.ErrNotConfigured
	}

	// All four transforms are resolved fresh at the sample's timestamp. Any
	// failure discards the whole update; nothing is cached or retried.
	at := in.CapturedAt
	srcToWorld, err := gc.transforms.Transform(ctx, calib.worldFrame, in.FrameName, at)
	if err != nil {
		return err
	}
	worldToOut, err := gc.transforms.Transform(ctx, out.FrameName, calib.worldFrame, at)
	if err != nil {
		return err
	}
	sensorToWorld, err := gc.transforms.Transform(ctx, calib.worldFrame, calib.sensorFrame, at)
	if err != nil {
		return err
	}
	forceToWorld, err := gc.transforms.Transform(ctx, calib.worldFrame, calib.forceFrame, at)
	if err != nil {
		return err
	}

	cogWorld := sensorToWorld.RotateVector(calib.cog)
	gravityWorld := forceToWorld.RotateVector(calib.gravity)
	// the weight acting at the CoG exerts a torque of r x F about the origin
	gravityTorque := cogWorld.Cross(gravityWorld)

	// Wrench components are free vectors, so only rotations apply to them.
	forceWorld := srcToWorld.RotateVector(in.Force)
	torqueWorld := srcToWorld.RotateVector(in.Torque)

	out.Force = worldToOut.RotateVector(forceWorld.Sub(gravityWorld))
	out.Torque = worldToOut.RotateVector(torqueWorld.Sub(gravityTorque))
	out.CapturedAt = at
	return nil
}

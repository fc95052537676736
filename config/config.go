// Package config reads the wrenchpipe host configuration: the static frame
// tree, the filter chain, and the MQTT transport settings.
package config

import (
	"encoding/json"
	"math"
	"os"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/controlfilters/filter"
	"go.viam.com/controlfilters/referenceframe"
	"go.viam.com/controlfilters/spatialmath"
)

// Translation is the offset of a frame from its parent, in meters.
type Translation struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Orientation is a rotation about an axis, with theta in degrees.
type Orientation struct {
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
	Z  float64 `json:"z"`
	TH float64 `json:"th"`
}

// FrameConfig describes one static frame: its parent and its pose within it.
// Frames must be listed parent before child.
type FrameConfig struct {
	Name        string      `json:"name"`
	Parent      string      `json:"parent"`
	Translation Translation `json:"translation"`
	Orientation Orientation `json:"orientation"`
}

// Pose converts the frame config to a rigid transform.
func (fc *FrameConfig) Pose() *spatialmath.Pose {
	pt := r3.Vector{X: fc.Translation.X, Y: fc.Translation.Y, Z: fc.Translation.Z}
	axis := r3.Vector{X: fc.Orientation.X, Y: fc.Orientation.Y, Z: fc.Orientation.Z}
	return spatialmath.NewPoseFromAxisAngle(pt, axis, fc.Orientation.TH*math.Pi/180)
}

// MQTTConfig is the transport section of the host configuration.
type MQTTConfig struct {
	Broker      string `json:"broker"`
	ClientID    string `json:"client_id"`
	InputTopic  string `json:"input_topic"`
	OutputTopic string `json:"output_topic"`
}

// Config is the full wrenchpipe host configuration.
type Config struct {
	Frames  []FrameConfig      `json:"frames"`
	Filters []filter.ChainLink `json:"filters"`
	MQTT    MQTTConfig         `json:"mqtt"`
}

// Validate checks the whole configuration at once, reporting every problem
// rather than the first.
func (c *Config) Validate() error {
	var errAll error
	if c.MQTT.Broker == "" {
		multierr.AppendInto(&errAll, errors.New(`"mqtt.broker" is required`))
	}
	if c.MQTT.InputTopic == "" {
		multierr.AppendInto(&errAll, errors.New(`"mqtt.input_topic" is required`))
	}
	if c.MQTT.OutputTopic == "" {
		multierr.AppendInto(&errAll, errors.New(`"mqtt.output_topic" is required`))
	}
	if len(c.Filters) == 0 {
		multierr.AppendInto(&errAll, errors.New("at least one filter is required"))
	}
	for i, fc := range c.Frames {
		if fc.Name == "" {
			multierr.AppendInto(&errAll, errors.Errorf("frame %d: name is required", i))
		}
		if fc.Parent == "" {
			multierr.AppendInto(&errAll, errors.Errorf("frame %d (%s): parent is required", i, fc.Name))
		}
	}
	return errAll
}

// Read loads and validates a configuration from a JSON file.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "cannot parse config %q", path)
	}
	if cfg.MQTT.ClientID == "" {
		cfg.MQTT.ClientID = "wrenchpipe"
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// BuildFrameSystem constructs the static frame system the config describes.
func (c *Config) BuildFrameSystem() (*referenceframe.StaticFrameSystem, error) {
	fs := referenceframe.NewStaticFrameSystem("wrenchpipe")
	for _, fc := range c.Frames {
		if err := fs.AddFrame(fc.Name, fc.Parent, fc.Pose()); err != nil {
			return nil, err
		}
	}
	return fs, nil
}

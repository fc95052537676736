package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/geo/r3"
	"go.viam.com/test"

	"go.viam.com/controlfilters/referenceframe"
	"go.viam.com/controlfilters/spatialmath"
)

const sampleConfig = `{
	"mqtt": {
		"broker": "tcp://localhost:1883",
		"input_topic": "wrench/raw",
		"output_topic": "wrench/compensated"
	},
	"frames": [
		{
			"name": "sensor",
			"parent": "world",
			"translation": {"x": 0, "y": 0, "z": 0.5},
			"orientation": {"x": 0, "y": 0, "z": 1, "th": 90}
		}
	],
	"filters": [
		{
			"model": "gravity_compensation",
			"attributes": {
				"world_frame": "world",
				"sensor_frame": "sensor",
				"force_frame": "world",
				"CoG": {"pos": [0, 0, 0.1], "force": [0, 0, -49.05]}
			}
		}
	]
}`

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wrenchpipe.json")
	test.That(t, os.WriteFile(path, []byte(contents), 0o600), test.ShouldBeNil)
	return path
}

func TestRead(t *testing.T) {
	cfg, err := Read(writeConfig(t, sampleConfig))
	test.That(t, err, test.ShouldBeNil)
	test.That(t, cfg.MQTT.Broker, test.ShouldEqual, "tcp://localhost:1883")
	test.That(t, cfg.MQTT.ClientID, test.ShouldEqual, "wrenchpipe") // defaulted
	test.That(t, cfg.Frames, test.ShouldHaveLength, 1)
	test.That(t, cfg.Filters, test.ShouldHaveLength, 1)
	test.That(t, cfg.Filters[0].Model, test.ShouldEqual, "gravity_compensation")
	test.That(t, cfg.Filters[0].Attributes.Has("CoG"), test.ShouldBeTrue)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(filepath.Join(t.TempDir(), "missing.json"))
	test.That(t, err, test.ShouldNotBeNil)

	_, err = Read(writeConfig(t, "{not json"))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "cannot parse config")

	// every missing section is reported together
	_, err = Read(writeConfig(t, `{"frames": [{"parent": "world"}]}`))
	test.That(t, err, test.ShouldNotBeNil)
	test.That(t, err.Error(), test.ShouldContainSubstring, "mqtt.broker")
	test.That(t, err.Error(), test.ShouldContainSubstring, "mqtt.input_topic")
	test.That(t, err.Error(), test.ShouldContainSubstring, "at least one filter")
	test.That(t, err.Error(), test.ShouldContainSubstring, "name is required")
}

func TestBuildFrameSystem(t *testing.T) {
	cfg, err := Read(writeConfig(t, sampleConfig))
	test.That(t, err, test.ShouldBeNil)

	fs, err := cfg.BuildFrameSystem()
	test.That(t, err, test.ShouldBeNil)
	tf, err := fs.Transform(context.Background(), referenceframe.World, "sensor", time.Time{})
	test.That(t, err, test.ShouldBeNil)

	// the sensor origin sits half a meter above world
	test.That(t, spatialmath.R3VectorAlmostEqual(tf.TransformPoint(r3.Vector{}), r3.Vector{Z: 0.5}, 1e-10),
		test.ShouldBeTrue)
	// and its +X axis points along world +Y after the 90 degree yaw
	test.That(t, spatialmath.R3VectorAlmostEqual(tf.RotateVector(r3.Vector{X: 1}), r3.Vector{Y: 1}, 1e-10),
		test.ShouldBeTrue)
}

func TestFrameConfigPose(t *testing.T) {
	fc := FrameConfig{
		Name:        "tilted",
		Parent:      "world",
		Translation: Translation{X: 1},
		Orientation: Orientation{X: 1, TH: 180},
	}
	p := fc.Pose()
	test.That(t, spatialmath.R3VectorAlmostEqual(p.Point(), r3.Vector{X: 1}, 1e-10), test.ShouldBeTrue)
	got := p.RotateVector(r3.Vector{Y: 1})
	test.That(t, spatialmath.R3VectorAlmostEqual(got, r3.Vector{Y: -1}, 1e-10), test.ShouldBeTrue)

	// no orientation block means no rotation
	plain := FrameConfig{Name: "plain", Parent: "world"}
	test.That(t, spatialmath.PoseAlmostEqual(plain.Pose(), spatialmath.NewZeroPose()), test.ShouldBeTrue)
}

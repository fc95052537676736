package referenceframe

import (
	"time"

	"github.com/golang/geo/r3"
)

// Wrench is a six-axis force/torque measurement observed in a reference
// frame at a point in time. Force is in newtons, torque in newton-meters.
//
// A Wrench also serves as the output slot of a filter update: the caller
// presets FrameName to the frame it wants the result expressed in, and the
// filter fills in the rest.
type Wrench struct {
	FrameName  string
	Force      r3.Vector
	Torque     r3.Vector
	CapturedAt time.Time
}

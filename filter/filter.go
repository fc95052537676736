// Package filter defines wrench filters: per-sample corrections applied to
// force/torque measurements, plus the chain that strings them together.
package filter

import (
	"context"

	"github.com/pkg/errors"

	"go.viam.com/controlfilters/referenceframe"
	"go.viam.com/controlfilters/utils"
)

// ErrNotConfigured is returned by Update on a filter that has not yet seen a
// successful Reconfigure.
var ErrNotConfigured = errors.New("filter is not configured")

// A WrenchFilter conditions force/torque samples one at a time. Configure and
// update are the only two operations a filter exposes; construction,
// registration, and lifecycle belong to the host.
type WrenchFilter interface {
	// Name returns the instance name the filter was constructed with.
	Name() string

	// Reconfigure fully revalidates the given attributes and, on success,
	// atomically replaces the filter's configuration. On failure the previous
	// configuration, if any, stays in effect.
	Reconfigure(ctx context.Context, attributes utils.AttributeMap) error

	// Update writes the conditioned form of in to out. The caller presets
	// out.FrameName to the frame it wants the result in; filters that do not
	// transform frames overwrite it with the input's frame. On error, out is
	// not meaningful.
	Update(ctx context.Context, in, out *referenceframe.Wrench) error
}

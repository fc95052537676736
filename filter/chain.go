package filter

import (
	"context"
	"fmt"

	"github.com/edaniels/golog"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/controlfilters/referenceframe"
	"go.viam.com/controlfilters/utils"
)

// A ChainLink names a filter model and the attributes to configure it with.
type ChainLink struct {
	Model      string             `json:"model"`
	Attributes utils.AttributeMap `json:"attributes"`
}

// A Chain applies an ordered series of wrench filters to each sample. The
// whole chain is built and configured up front; a chain that fails to build
// is never partially usable.
type Chain struct {
	name    string
	logger  golog.Logger
	filters []WrenchFilter
}

// NewChain constructs and configures a filter for every link. Construction is
// all-or-nothing: every model must be registered and every link must
// configure cleanly.
func NewChain(
	ctx context.Context,
	name string,
	links []ChainLink,
	provider referenceframe.TransformProvider,
	logger golog.Logger,
) (*Chain, error) {
	if len(links) == 0 {
		return nil, errors.Errorf("chain %q must have at least one filter", name)
	}
	var filters []WrenchFilter
	var errAll error
	for i, link := range links {
		ctor, ok := LookupModel(link.Model)
		if !ok {
			multierr.AppendInto(&errAll, errors.Errorf("chain %q link %d: unknown filter model %q", name, i, link.Model))
			continue
		}
		f := ctor(fmt.Sprintf("%s.%d-%s", name, i, link.Model), provider, logger)
		if err := f.Reconfigure(ctx, link.Attributes); err != nil {
			multierr.AppendInto(&errAll, errors.Wrapf(err, "chain %q link %d (%s)", name, i, link.Model))
			continue
		}
		filters = append(filters, f)
	}
	if errAll != nil {
		return nil, errAll
	}
	return &Chain{name: name, logger: logger, filters: filters}, nil
}

// Name returns the name of the chain.
func (c *Chain) Name() string {
	return c.name
}

// Filters returns the configured filters in application order.
func (c *Chain) Filters() []WrenchFilter {
	return c.filters
}

// Update runs the sample through every filter in order. Intermediate stages
// keep the incoming sample's frame; only the final stage sees the frame the
// caller preset on out. Any stage failing fails the whole update.
func (c *Chain) Update(ctx context.Context, in, out *referenceframe.Wrench) error {
	cur := *in
	for i, f := range c.filters {
		var next referenceframe.Wrench
		if i == len(c.filters)-1 {
			next.FrameName = out.FrameName
		} else {
			next.FrameName = cur.FrameName
		}
		if err := f.Update(ctx, &cur, &next); err != nil {
			return errors.Wrapf(err, "chain %q stage %d (%s)", c.name, i, f.Name())
		}
		cur = next
	}
	*out = cur
	return nil
}

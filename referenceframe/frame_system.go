// Package referenceframe resolves rigid transforms between named reference
// frames and carries frame-stamped measurements.
package referenceframe

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"go.viam.com/controlfilters/spatialmath"
)

// World is the string "world", but made into an exported constant.
const World = "world"

// TransformProvider resolves the rigid transform that maps coordinates in
// srcFrame to dstFrame, valid at the given time. Implementations return a
// TransformUnavailableError when no transform can be resolved. Any conforming
// implementation is interchangeable, whether an in-memory table or a live
// pose graph.
type TransformProvider interface {
	Transform(ctx context.Context, dstFrame, srcFrame string, atTime time.Time) (*spatialmath.Pose, error)
}

// StaticFrameSystem is a tree of frames rooted at World, each with a fixed
// pose relative to its parent. It implements TransformProvider for hosts and
// tests without a live pose source. Mutation is not safe concurrently with
// lookups; build the tree before handing it out.
type StaticFrameSystem struct {
	name    string
	poses   map[string]*spatialmath.Pose // pose of each frame relative to its parent
	parents map[string]string
}

// NewStaticFrameSystem creates an empty frame system containing only World.
func NewStaticFrameSystem(name string) *StaticFrameSystem {
	return &StaticFrameSystem{
		name:    name,
		poses:   map[string]*spatialmath.Pose{},
		parents: map[string]string{},
	}
}

// Name returns the name of the frame system.
func (fs *StaticFrameSystem) Name() string {
	return fs.name
}

// frameExists is a helper function to see if a frame with a given name is
// already in the system.
func (fs *StaticFrameSystem) frameExists(name string) bool {
	if name == World {
		return true
	}
	_, ok := fs.poses[name]
	return ok
}

// AddFrame inserts a frame with a fixed pose relative to an existing parent
// frame. The pose maps coordinates in the new frame to the parent frame.
func (fs *StaticFrameSystem) AddFrame(name, parent string, pose *spatialmath.Pose) error {
	if name == "" {
		return errors.New("frame name must not be empty")
	}
	if pose == nil {
		return errors.Errorf("frame %q must have a pose", name)
	}
	if !fs.frameExists(parent) {
		return errors.Errorf("parent frame %q not in frame system", parent)
	}
	if fs.frameExists(name) {
		return errors.Errorf("frame %q already in frame system", name)
	}
	fs.poses[name] = pose
	fs.parents[name] = parent
	return nil
}

// FrameNames returns the names of all frames added to the system, excluding
// World.
func (fs *StaticFrameSystem) FrameNames() []string {
	var names []string
	for name := range fs.poses {
		names = append(names, name)
	}
	return names
}

// Transform implements TransformProvider. Static poses are valid at all
// times; atTime matters only in that both frames must exist. Identical source
// and destination frames resolve through the same path as any other pair.
func (fs *StaticFrameSystem) Transform(ctx context.Context, dstFrame, srcFrame string, atTime time.Time) (*spatialmath.Pose, error) {
	if !fs.frameExists(srcFrame) || !fs.frameExists(dstFrame) {
		return nil, NewTransformUnavailableError(dstFrame, srcFrame, atTime)
	}
	srcToWorld := fs.composeToWorld(srcFrame)
	dstToWorld := fs.composeToWorld(dstFrame)
	// map src into world, then world into dst
	return spatialmath.Compose(spatialmath.PoseInverse(dstToWorld), srcToWorld), nil
}

// composeToWorld composes the static poses from the given frame up to World.
func (fs *StaticFrameSystem) composeToWorld(frame string) *spatialmath.Pose {
	q := spatialmath.NewZeroPose()
	for frame != World {
		// each stored pose maps a frame to its parent; add new transforms to the left
		q = spatialmath.Compose(fs.poses[frame], q)
		frame = fs.parents[frame]
	}
	return q
}

package spatialmath

import (
	"math"
	"testing"

	"github.com/golang/geo/r3"
	"go.viam.com/test"
)

func TestZeroPose(t *testing.T) {
	p := NewZeroPose()
	test.That(t, p.Point(), test.ShouldResemble, r3.Vector{})
	v := r3.Vector{X: 1, Y: -2, Z: 3}
	test.That(t, p.RotateVector(v), test.ShouldResemble, v)
	test.That(t, p.TransformPoint(v), test.ShouldResemble, v)
}

func TestPoseFromPoint(t *testing.T) {
	p := NewPoseFromPoint(r3.Vector{X: 1, Y: 2, Z: 3})
	test.That(t, R3VectorAlmostEqual(p.Point(), r3.Vector{X: 1, Y: 2, Z: 3}, 1e-10), test.ShouldBeTrue)
	// translation applies to points but not to free vectors
	test.That(t, R3VectorAlmostEqual(p.TransformPoint(r3.Vector{X: 1}), r3.Vector{X: 2, Y: 2, Z: 3}, 1e-10), test.ShouldBeTrue)
	test.That(t, p.RotateVector(r3.Vector{X: 1}), test.ShouldResemble, r3.Vector{X: 1})
}

func TestPoseRotation(t *testing.T) {
	// 90 degrees about +Z takes +X to +Y
	p := NewPoseFromAxisAngle(r3.Vector{}, r3.Vector{Z: 1}, math.Pi/2)
	got := p.RotateVector(r3.Vector{X: 1})
	test.That(t, R3VectorAlmostEqual(got, r3.Vector{Y: 1}, 1e-10), test.ShouldBeTrue)

	// rotation preserves length
	long := p.RotateVector(r3.Vector{X: 3, Y: 4, Z: 12})
	test.That(t, long.Norm(), test.ShouldAlmostEqual, 13, 1e-10)
}

func TestPoseCompose(t *testing.T) {
	rot := NewPoseFromAxisAngle(r3.Vector{}, r3.Vector{Z: 1}, math.Pi/2)
	trans := NewPoseFromPoint(r3.Vector{X: 1})

	// Compose applies the right-hand pose first.
	shiftThenRotate := Compose(rot, trans)
	test.That(t, R3VectorAlmostEqual(shiftThenRotate.TransformPoint(r3.Vector{}), r3.Vector{Y: 1}, 1e-10), test.ShouldBeTrue)

	rotateThenShift := Compose(trans, rot)
	test.That(t, R3VectorAlmostEqual(rotateThenShift.TransformPoint(r3.Vector{X: 1}), r3.Vector{X: 1, Y: 1}, 1e-10), test.ShouldBeTrue)
}

func TestPoseInverse(t *testing.T) {
	p := NewPoseFromAxisAngle(r3.Vector{X: 1, Y: 2, Z: 3}, r3.Vector{X: 1, Y: 1}, 1.2)
	test.That(t, PoseAlmostEqual(Compose(p, PoseInverse(p)), NewZeroPose()), test.ShouldBeTrue)
	test.That(t, PoseAlmostEqual(Compose(PoseInverse(p), p), NewZeroPose()), test.ShouldBeTrue)

	pt := r3.Vector{X: -4, Y: 0.5, Z: 2}
	roundTrip := PoseInverse(p).TransformPoint(p.TransformPoint(pt))
	test.That(t, R3VectorAlmostEqual(roundTrip, pt, 1e-10), test.ShouldBeTrue)
}

func TestPoseAlmostEqual(t *testing.T) {
	a := NewPoseFromAxisAngle(r3.Vector{X: 1}, r3.Vector{Z: 1}, math.Pi/4)
	b := NewPoseFromAxisAngle(r3.Vector{X: 1}, r3.Vector{Z: 1}, math.Pi/4)
	test.That(t, PoseAlmostEqual(a, b), test.ShouldBeTrue)
	c := NewPoseFromAxisAngle(r3.Vector{X: 1}, r3.Vector{Z: 1}, math.Pi/3)
	test.That(t, PoseAlmostEqual(a, c), test.ShouldBeFalse)
	d := NewPoseFromPoint(r3.Vector{X: 1.1})
	test.That(t, PoseAlmostEqual(NewPoseFromPoint(r3.Vector{X: 1}), d), test.ShouldBeFalse)
}

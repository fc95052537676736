// Package spatialmath defines the rigid transform math used to move
// measurements between reference frames.
package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/num/dualquat"
	"gonum.org/v1/gonum/num/quat"
)

// Pose represents a rigid transform between two reference frames: a rotation
// plus a translation, stored as a unit dual quaternion.
type Pose struct {
	quat dualquat.Number
}

// NewZeroPose returns an identity pose. The real part of a unit dual
// quaternion must be a unit quaternion, not all zeroes, so this should be
// used instead of &Pose{}.
func NewZeroPose() *Pose {
	return &Pose{dualquat.Number{
		Real: quat.Number{Real: 1},
		Dual: quat.Number{},
	}}
}

// NewPoseFromPoint returns a pose with the given translation and no rotation.
func NewPoseFromPoint(pt r3.Vector) *Pose {
	p := NewZeroPose()
	p.setTranslation(pt)
	return p
}

// NewPoseFromAxisAngle returns a pose with the given translation, rotated
// theta radians about the given axis. A zero axis gives no rotation.
func NewPoseFromAxisAngle(pt, axis r3.Vector, theta float64) *Pose {
	p := &Pose{dualquat.Number{
		Real: axisAngleToQuat(axis, theta),
		Dual: quat.Number{},
	}}
	p.setTranslation(pt)
	return p
}

// setTranslation sets the dual part correctly against the rotation.
func (p *Pose) setTranslation(pt r3.Vector) {
	p.quat.Dual = quat.Mul(quat.Number{Imag: pt.X / 2, Jmag: pt.Y / 2, Kmag: pt.Z / 2}, p.quat.Real)
}

// Point returns the translation component of the pose.
func (p *Pose) Point() r3.Vector {
	t := quat.Scale(2, quat.Mul(p.quat.Dual, quat.Conj(p.quat.Real)))
	return r3.Vector{X: t.Imag, Y: t.Jmag, Z: t.Kmag}
}

// Rotation returns the rotation quaternion of the pose.
func (p *Pose) Rotation() quat.Number {
	return p.quat.Real
}

// RotateVector applies only the rotation component of the pose to a vector
// quantity such as a force or a torque. Free vectors do not translate.
func (p *Pose) RotateVector(v r3.Vector) r3.Vector {
	return rotateVectorBy(p.quat.Real, v)
}

// TransformPoint applies the full rigid transform to a point position.
func (p *Pose) TransformPoint(pt r3.Vector) r3.Vector {
	return p.RotateVector(pt).Add(p.Point())
}

// Compose returns the pose equivalent to applying b first, then a.
func Compose(a, b *Pose) *Pose {
	return &Pose{dualquat.Mul(a.quat, b.quat)}
}

// PoseInverse returns the pose that undoes p.
func PoseInverse(p *Pose) *Pose {
	rInv := quat.Conj(p.quat.Real)
	inv := &Pose{dualquat.Number{Real: rInv}}
	inv.setTranslation(rotateVectorBy(rInv, p.Point().Mul(-1)))
	return inv
}

// PoseAlmostEqual returns whether two poses agree on translation and
// rotation to within a small epsilon.
func PoseAlmostEqual(a, b *Pose) bool {
	const epsilon = 1e-8
	return R3VectorAlmostEqual(a.Point(), b.Point(), epsilon) &&
		quatAlmostEqual(a.quat.Real, b.quat.Real, epsilon)
}

// R3VectorAlmostEqual returns whether the vectors differ by less than epsilon
// in every component.
func R3VectorAlmostEqual(a, b r3.Vector, epsilon float64) bool {
	return math.Abs(a.X-b.X) < epsilon && math.Abs(a.Y-b.Y) < epsilon && math.Abs(a.Z-b.Z) < epsilon
}

// quatAlmostEqual allows for the double cover of rotation space: q and -q
// represent the same orientation.
func quatAlmostEqual(a, b quat.Number, epsilon float64) bool {
	d := quat.Add(a, quat.Scale(-1, b))
	s := quat.Add(a, b)
	return quat.Abs(d) < epsilon || quat.Abs(s) < epsilon
}

// rotateVectorBy conjugates the vector by the unit quaternion r: v' = r v r*.
func rotateVectorBy(r quat.Number, v r3.Vector) r3.Vector {
	vq := quat.Number{Imag: v.X, Jmag: v.Y, Kmag: v.Z}
	rv := quat.Mul(quat.Mul(r, vq), quat.Conj(r))
	return r3.Vector{X: rv.Imag, Y: rv.Jmag, Z: rv.Kmag}
}

// axisAngleToQuat converts an axis and an angle in radians to a unit
// rotation quaternion.
func axisAngleToQuat(axis r3.Vector, theta float64) quat.Number {
	norm := axis.Norm()
	if norm < 1e-10 {
		// no axis means no rotation
		return quat.Number{Real: 1}
	}
	sinHalf := math.Sin(theta / 2)
	return quat.Number{
		Real: math.Cos(theta / 2),
		Imag: axis.X / norm * sinHalf,
		Jmag: axis.Y / norm * sinHalf,
		Kmag: axis.Z / norm * sinHalf,
	}
}

package element

import (
	"gonum.org/v1/gonum/spatial/r3"
)

// parallelTol is the cross product magnitude below which the beam axis is taken
// as parallel to the reference vector.
const parallelTol = 1e-8

// Orientation selects the reference vector used to resolve a beam's local y and z.
// Beams carry no cross-section roll, so the local frame is built from Up, or from
// Fallback when the beam axis is parallel to Up.
type Orientation struct {
	Up       r3.Vec
	Fallback r3.Vec
}

// DefaultOrientation uses global Z, falling back to global Y for vertical beams.
func DefaultOrientation() Orientation {
	return Orientation{
		Up:       r3.Vec{Z: 1},
		Fallback: r3.Vec{Y: 1},
	}
}

// IsZero reports whether o is unset.
func (o Orientation) IsZero() bool {
	return o.Up == (r3.Vec{}) && o.Fallback == (r3.Vec{})
}

// Independent reports whether Up and Fallback are both set and not parallel.
func (o Orientation) Independent() bool {
	if r3.Norm(o.Up) == 0 || r3.Norm(o.Fallback) == 0 {
		return false
	}
	return r3.Norm(r3.Cross(r3.Unit(o.Up), r3.Unit(o.Fallback))) >= parallelTol
}

// Resolved fills an unset Up with +Z and replaces a Fallback that is unset or
// parallel to Up with +Y, or with +X when Up lies along Y.
func (o Orientation) Resolved() Orientation {
	if r3.Norm(o.Up) == 0 {
		o.Up = r3.Vec{Z: 1}
	}
	for _, f := range []r3.Vec{o.Fallback, {Y: 1}, {X: 1}} {
		o.Fallback = f
		if o.Independent() {
			break
		}
	}
	return o
}

// Frame holds the local axes of an element expressed in global coordinates.
//
//	X: along the element, node1 -> node2
//	Z: unit(X × ref)
//	Y: Z × X
//
// The rotation Λ has X, Y, Z as rows, so u_local = Λ·u_global.
type Frame struct {
	X, Y, Z r3.Vec
}

// NewFrame resolves the local axes for unit direction dir. It returns false when
// dir is parallel to both reference vectors.
func NewFrame(dir r3.Vec, o Orientation) (Frame, bool) {
	for _, ref := range []r3.Vec{o.Up, o.Fallback} {
		if r3.Norm(ref) == 0 {
			continue
		}
		z := r3.Cross(dir, r3.Unit(ref))
		if r3.Norm(z) < parallelTol {
			continue
		}
		z = r3.Unit(z)
		y := r3.Unit(r3.Cross(z, dir))
		return Frame{X: dir, Y: y, Z: z}, true
	}
	return Frame{}, false
}

// Rotation returns Λ as a row-major 3×3 array.
func (f Frame) Rotation() [3][3]float64 {
	return [3][3]float64{
		{f.X.X, f.X.Y, f.X.Z},
		{f.Y.X, f.Y.Y, f.Y.Z},
		{f.Z.X, f.Z.Y, f.Z.Z},
	}
}

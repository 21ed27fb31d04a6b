package geom

import (
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// epsilon is the length below which a vector is treated as zero.
const epsilon = 1e-12

// Plane is a unit normal and an offset. Points with
// Normal·p - Offset >= 0 lie on the interior side.
type Plane struct {
	Normal v3.Vec
	Offset float64
}

// PlaneFromPoints builds the plane through p1, p2 and p3 with normal
// (p3-p1)×(p2-p1). Collinear points produce the zero plane.
func PlaneFromPoints(p1, p2, p3 v3.Vec) Plane {
	n := p3.Sub(p1).Cross(p2.Sub(p1))
	l := n.Length()
	if l < epsilon {
		return Plane{}
	}
	n = n.MulScalar(1.0 / l)
	return Plane{Normal: n, Offset: n.Dot(p3)}
}

// Distance returns the signed distance from p to the plane.
func (p Plane) Distance(pt v3.Vec) float64 {
	return p.Normal.Dot(pt) - p.Offset
}

// Flip reverses the plane orientation.
func (p Plane) Flip() Plane {
	return Plane{Normal: p.Normal.MulScalar(-1), Offset: -p.Offset}
}

// Orient flips the plane if ref lies on its exterior side.
func (p Plane) Orient(ref v3.Vec) Plane {
	if p.Distance(ref) < 0 {
		return p.Flip()
	}
	return p
}

// IsZero reports whether the plane has no normal.
func (p Plane) IsZero() bool {
	return p.Normal.Length() < epsilon
}

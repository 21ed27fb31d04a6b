// Package geom holds the math behind camera containment tests: object
// bounding boxes, planes, frustum construction and projection into
// normalized camera view coordinates. Vectors and matrices come from
// github.com/deadsy/sdfx so the same types flow from shape construction
// through to the containment kernels.
package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compose builds an object-to-world matrix from a location, Euler rotation
// in degrees (applied X, then Y, then Z) and a per-axis scale.
func Compose(location, rotation, scale v3.Vec) sdf.M44 {
	rx := rotation.X * math.Pi / 180.0
	ry := rotation.Y * math.Pi / 180.0
	rz := rotation.Z * math.Pi / 180.0

	rot := sdf.RotateZ(rz).Mul(sdf.RotateY(ry)).Mul(sdf.RotateX(rx))
	return sdf.Translate3d(location).Mul(rot).Mul(sdf.Scale3d(scale))
}

// Identity returns the identity transform.
func Identity() sdf.M44 {
	return sdf.Identity3d()
}

// Interval is a closed range of projections onto an axis.
type Interval struct {
	Min, Max float64
}

// EmptyInterval returns an interval that any Extend call will replace.
func EmptyInterval() Interval {
	return Interval{Min: math.Inf(1), Max: math.Inf(-1)}
}

// Extend grows the interval to include x.
func (iv Interval) Extend(x float64) Interval {
	return Interval{Min: math.Min(iv.Min, x), Max: math.Max(iv.Max, x)}
}

// Widen moves both ends outward by m. A negative m shrinks the interval
// and may invert it.
func (iv Interval) Widen(m float64) Interval {
	return Interval{Min: iv.Min - m, Max: iv.Max + m}
}

// Overlaps reports whether the start of either interval lies within the
// other.
func (iv Interval) Overlaps(o Interval) bool {
	return between(o.Min, iv.Min, iv.Max) || between(iv.Min, o.Min, o.Max)
}

func between(x, lo, hi float64) bool {
	return lo <= x && x <= hi
}

// Project returns the interval spanned by points along axis.
func Project(axis v3.Vec, pts []v3.Vec) Interval {
	iv := EmptyInterval()
	for _, p := range pts {
		iv = iv.Extend(p.Dot(axis))
	}
	return iv
}

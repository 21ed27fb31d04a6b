package geom

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Box is the eight corners of a bounding box. Corners are ordered
//
//	0 (-x,-y,-z)  1 (-x,-y,+z)  2 (-x,+y,+z)  3 (-x,+y,-z)
//	4 (+x,-y,-z)  5 (+x,-y,+z)  6 (+x,+y,+z)  7 (+x,+y,-z)
//
// in the space the box was built in. After Transform the corners keep
// their order, so edges 0-4, 0-3 and 0-1 remain the box's local X, Y and Z
// directions.
type Box [8]v3.Vec

// BoxFromExtents returns the corners of the axis-aligned box [min, max].
func BoxFromExtents(min, max v3.Vec) Box {
	return Box{
		{X: min.X, Y: min.Y, Z: min.Z},
		{X: min.X, Y: min.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: max.Z},
		{X: min.X, Y: max.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: min.Z},
		{X: max.X, Y: min.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: max.Z},
		{X: max.X, Y: max.Y, Z: min.Z},
	}
}

// BoxFromBox3 converts an sdfx bounding box.
func BoxFromBox3(b sdf.Box3) Box {
	return BoxFromExtents(b.Min, b.Max)
}

// Transform maps every corner through m.
func (b Box) Transform(m sdf.M44) Box {
	var out Box
	for i, c := range b {
		out[i] = m.MulPosition(c)
	}
	return out
}

// Corners returns the corners as a slice.
func (b Box) Corners() []v3.Vec {
	return b[:]
}

// Axes returns the box's three edge directions, unit length. Zero-length
// edges (flat or point boxes) are omitted.
func (b Box) Axes() []v3.Vec {
	edges := [3]v3.Vec{b[4].Sub(b[0]), b[3].Sub(b[0]), b[1].Sub(b[0])}
	axes := make([]v3.Vec, 0, 3)
	for _, e := range edges {
		l := e.Length()
		if l < epsilon {
			continue
		}
		axes = append(axes, e.MulScalar(1.0/l))
	}
	return axes
}

// Center returns the mean of the corners.
func (b Box) Center() v3.Vec {
	var sum v3.Vec
	for _, c := range b {
		sum = sum.Add(c)
	}
	return sum.MulScalar(1.0 / 8.0)
}

// WorldBox transforms local bounding corners into world space.
func WorldBox(local Box, world sdf.M44) Box {
	return local.Transform(world)
}

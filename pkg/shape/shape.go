// Package shape builds primitive solids with the github.com/deadsy/sdfx
// SDF library and reports their local bounding boxes. Objects in a stage
// carry only the box.
package shape

import (
	"fmt"

	"github.com/chazu/camframe/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Shape is a primitive solid centered on its local origin.
type Shape struct {
	kind string
	box  sdf.Box3
}

// Kind returns the primitive name, e.g. "box".
func (s *Shape) Kind() string { return s.kind }

// Bounds returns the local-space bounding box corners.
func (s *Shape) Bounds() geom.Box {
	return geom.BoxFromBox3(s.box)
}

// Size returns the bounding box dimensions.
func (s *Shape) Size() v3.Vec {
	return s.box.Max.Sub(s.box.Min)
}

func (s *Shape) String() string {
	d := s.Size()
	return fmt.Sprintf("(%s %gx%gx%g)", s.kind, d.X, d.Y, d.Z)
}

func newShape(kind string, solid sdf.SDF3) *Shape {
	return &Shape{kind: kind, box: solid.BoundingBox()}
}

func positive(what string, vals ...float64) error {
	for _, v := range vals {
		if !(v > 0) {
			return fmt.Errorf("%s: dimensions must be positive, got %v", what, vals)
		}
	}
	return nil
}

// Box creates an x by y by z box centered on the origin.
func Box(x, y, z float64) (*Shape, error) {
	if err := positive("box", x, y, z); err != nil {
		return nil, err
	}
	s, err := sdf.Box3D(v3.Vec{X: x, Y: y, Z: z}, 0)
	if err != nil {
		return nil, fmt.Errorf("box: %w", err)
	}
	return newShape("box", s), nil
}

// Cylinder creates a cylinder along Z centered on the origin.
func Cylinder(height, radius float64) (*Shape, error) {
	if err := positive("cylinder", height, radius); err != nil {
		return nil, err
	}
	s, err := sdf.Cylinder3D(height, radius, 0)
	if err != nil {
		return nil, fmt.Errorf("cylinder: %w", err)
	}
	return newShape("cylinder", s), nil
}

// Sphere creates a sphere centered on the origin.
func Sphere(radius float64) (*Shape, error) {
	if err := positive("sphere", radius); err != nil {
		return nil, err
	}
	s, err := sdf.Sphere3D(radius)
	if err != nil {
		return nil, fmt.Errorf("sphere: %w", err)
	}
	return newShape("sphere", s), nil
}

// Cone creates a truncated cone along Z with radius r0 at the bottom and
// r1 at the top. One radius may be zero.
func Cone(height, r0, r1 float64) (*Shape, error) {
	if err := positive("cone", height, max(r0, r1)); err != nil {
		return nil, err
	}
	if r0 < 0 || r1 < 0 {
		return nil, fmt.Errorf("cone: radii must not be negative, got %g and %g", r0, r1)
	}
	s, err := sdf.Cone3D(height, r0, r1, 0)
	if err != nil {
		return nil, fmt.Errorf("cone: %w", err)
	}
	return newShape("cone", s), nil
}

// Bounds creates a shape that is only an explicit bounding box, for
// objects such as lights or empties whose extent is given directly. min
// must not exceed max on any axis.
func Bounds(min, max v3.Vec) (*Shape, error) {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		return nil, fmt.Errorf("bounds: min %v exceeds max %v", min, max)
	}
	return &Shape{kind: "bounds", box: sdf.Box3{Min: min, Max: max}}, nil
}

// Point is the degenerate bounding box at the origin used for objects with
// no geometry.
func Point() *Shape {
	return &Shape{kind: "point"}
}

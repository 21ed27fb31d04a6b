package geom

import (
	"math"

	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Projection selects how a camera maps depth to frame size.
type Projection int

const (
	Perspective  Projection = iota // frame grows with depth
	Orthographic                   // frame size is constant
)

func (p Projection) String() string {
	switch p {
	case Perspective:
		return "persp"
	case Orthographic:
		return "ortho"
	default:
		return "unknown"
	}
}

// Lens holds the camera intrinsics that shape the frustum. Lengths are in
// millimetres for FocalLength and SensorWidth, scene units otherwise.
type Lens struct {
	Projection  Projection
	FocalLength float64
	SensorWidth float64
	OrthoScale  float64
	ClipStart   float64
	ClipEnd     float64
}

// TanHalfFOV returns tan of half the field of view across the sensor.
func (l Lens) TanHalfFOV() float64 {
	fov := 2.0 * math.Atan(l.SensorWidth/(2.0*l.FocalLength))
	return math.Tan(fov / 2.0)
}

// halfExtent returns the half width of the full-sensor frame at depth d.
func (l Lens) halfExtent(d float64) float64 {
	if l.Projection == Orthographic {
		return l.OrthoScale / 2.0
	}
	return l.TanHalfFOV() * d
}

// AspectRatios returns the per-axis frame scale for a render size. The
// wider side spans the full sensor and gets 1; the narrower side is scaled
// down proportionally.
func AspectRatios(resX, resY, pixelAspectX, pixelAspectY float64) (rx, ry float64) {
	aspx := resX * pixelAspectX
	aspy := resY * pixelAspectY
	rx = math.Min(aspx/aspy, 1.0)
	ry = math.Min(aspy/aspx, 1.0)
	return rx, ry
}

// Frustum planes, in the order NewFrustum builds them.
const (
	PlaneLeft = iota
	PlaneTop
	PlaneRight
	PlaneBottom
	PlaneFar
	PlaneNear
)

// Frustum is a camera's view volume at one instant in world space.
//
// Corners are ordered 0 far-bottom-left, 1 near-bottom-left,
// 2 near-top-left, 3 far-top-left, 4 far-bottom-right, 5 near-bottom-right,
// 6 near-top-right, 7 far-top-right.
type Frustum struct {
	Corners [8]v3.Vec
	Planes  [6]Plane
}

// CameraCorners returns the frustum corners in camera space, where the
// camera looks down -Z with +Y up.
func CameraCorners(l Lens, rx, ry float64) [8]v3.Vec {
	sta := l.halfExtent(l.ClipStart)
	end := l.halfExtent(l.ClipEnd)

	var box [8]v3.Vec
	box[2].X, box[1].X = -sta*rx, -sta*rx
	box[0].X, box[3].X = -end*rx, -end*rx
	box[5].X, box[6].X = sta*rx, sta*rx
	box[4].X, box[7].X = end*rx, end*rx
	box[1].Y, box[5].Y = -sta*ry, -sta*ry
	box[0].Y, box[4].Y = -end*ry, -end*ry
	box[2].Y, box[6].Y = sta*ry, sta*ry
	box[3].Y, box[7].Y = end*ry, end*ry
	for _, i := range []int{0, 3, 4, 7} {
		box[i].Z = -l.ClipEnd
	}
	for _, i := range []int{1, 2, 5, 6} {
		box[i].Z = -l.ClipStart
	}
	return box
}

// NewFrustum builds the world-space frustum for a camera at cam.
func NewFrustum(l Lens, rx, ry float64, cam sdf.M44) Frustum {
	var f Frustum
	for i, c := range CameraCorners(l, rx, ry) {
		f.Corners[i] = cam.MulPosition(c)
	}
	f.Planes = planesFromCorners(f.Corners, f.Centroid())
	return f
}

func planesFromCorners(cf [8]v3.Vec, interior v3.Vec) [6]Plane {
	planes := [6]Plane{
		PlaneLeft:   PlaneFromPoints(cf[0], cf[2], cf[3]),
		PlaneTop:    PlaneFromPoints(cf[3], cf[2], cf[7]),
		PlaneRight:  PlaneFromPoints(cf[7], cf[6], cf[4]),
		PlaneBottom: PlaneFromPoints(cf[5], cf[0], cf[4]),
		PlaneFar:    PlaneFromPoints(cf[4], cf[0], cf[7]),
		PlaneNear:   PlaneFromPoints(cf[2], cf[1], cf[5]),
	}
	for i, p := range planes {
		planes[i] = p.Orient(interior)
	}
	return planes
}

// Centroid returns the mean of the eight corners, which always lies inside
// a non-degenerate frustum.
func (f Frustum) Centroid() v3.Vec {
	return Box(f.Corners).Center()
}

// ContainsPoint reports whether p is on the interior side of every plane.
func (f Frustum) ContainsPoint(p v3.Vec) bool {
	for _, pl := range f.Planes {
		if pl.IsZero() {
			continue
		}
		if pl.Distance(p) < 0 {
			return false
		}
	}
	return true
}

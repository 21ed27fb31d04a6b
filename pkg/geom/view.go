package geom

import (
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// View projects world points into normalized camera view coordinates.
// Build one per camera instant; Project is then cheap per point.
type View struct {
	inv    sdf.M44
	lens   Lens
	rx, ry float64
}

// NewView prepares a projection for a camera whose world matrix is cam.
// The matrix is expected to carry no scale.
func NewView(l Lens, rx, ry float64, cam sdf.M44) View {
	return View{inv: cam.Inverse(), lens: l, rx: rx, ry: ry}
}

// Project maps p to (u, v, z). u and v run 0..1 across the camera frame
// and z is the distance in front of the camera along its view axis;
// negative z is behind it. A perspective point in the camera plane maps
// to (0.5, 0.5, 0).
func (vw View) Project(p v3.Vec) v3.Vec {
	local := vw.inv.MulPosition(p)
	z := -local.Z

	var hw, hh float64
	if vw.lens.Projection == Orthographic {
		hw = vw.lens.OrthoScale / 2.0 * vw.rx
		hh = vw.lens.OrthoScale / 2.0 * vw.ry
	} else {
		if z == 0 {
			return v3.Vec{X: 0.5, Y: 0.5, Z: 0}
		}
		t := vw.lens.TanHalfFOV()
		hw = t * vw.rx * z
		hh = t * vw.ry * z
	}

	u := (local.X + hw) / (2 * hw)
	v := (local.Y + hh) / (2 * hh)
	return v3.Vec{X: u, Y: v, Z: z}
}

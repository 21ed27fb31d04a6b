// Package sat implements kernel.Containment with a separating axis test
// between an object's world-space bounding box and the camera frustum.
//
// For each frustum face normal the frustum corners and the box corners are
// projected onto the normal; the frustum interval is widened by the margin
// in world units. A single axis with no overlap proves separation. With a
// non-negative margin a box corner inside the frustum accepts the box
// before any axis is projected. With
// Options.BoxAxes the box's own edge directions are tested as well, which
// rejects boxes that sit diagonally off a frustum edge.
package sat

import (
	"github.com/chazu/camframe/pkg/geom"
	"github.com/chazu/camframe/pkg/kernel"
	"github.com/chazu/camframe/pkg/scene"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Compile-time interface check.
var _ kernel.Containment = (*Strategy)(nil)

func init() {
	kernel.Register(kernel.NameSAT, func() kernel.Containment { return New(Options{}) })
}

// Options tunes the test.
type Options struct {
	// BoxAxes adds the object's three box axes to the six frustum normals.
	BoxAxes bool
}

// Strategy is the separating axis test.
type Strategy struct {
	opts Options
}

// New returns a SAT strategy.
func New(opts Options) *Strategy {
	return &Strategy{opts: opts}
}

// Name returns "sat".
func (s *Strategy) Name() string {
	return kernel.NameSAT
}

// Prepare builds the frustum and its margin-widened intervals on each
// face normal for one frame.
func (s *Strategy) Prepare(cam scene.Camera, render scene.RenderSettings, margin float64) (kernel.Tester, error) {
	shot, err := kernel.Capture(cam, render)
	if err != nil {
		return nil, err
	}
	f := geom.NewFrustum(shot.Lens, shot.RatioX, shot.RatioY, shot.World)

	t := &tester{
		frustum:  f,
		margin:   margin,
		boxAxes:  s.opts.BoxAxes,
		axes:     make([]v3.Vec, 0, len(f.Planes)),
		frustumI: make([]geom.Interval, 0, len(f.Planes)),
	}
	for _, p := range f.Planes {
		if p.IsZero() {
			// A degenerate face has no axis to separate on.
			continue
		}
		t.axes = append(t.axes, p.Normal)
		t.frustumI = append(t.frustumI, geom.Project(p.Normal, f.Corners[:]).Widen(margin))
	}
	return t, nil
}

type tester struct {
	frustum  geom.Frustum
	margin   float64
	boxAxes  bool
	axes     []v3.Vec
	frustumI []geom.Interval
}

// InView reports whether no tested axis separates the box from the frustum.
func (t *tester) InView(box geom.Box) bool {
	corners := box.Corners()
	if t.margin >= 0 {
		// A corner inside the frustum proves overlap on every axis.
		for _, c := range corners {
			if t.frustum.ContainsPoint(c) {
				return true
			}
		}
	}
	for i, axis := range t.axes {
		if !geom.Project(axis, corners).Overlaps(t.frustumI[i]) {
			return false
		}
	}
	if !t.boxAxes {
		return true
	}
	for _, axis := range box.Axes() {
		fi := geom.Project(axis, t.frustum.Corners[:]).Widen(t.margin)
		if !geom.Project(axis, corners).Overlaps(fi) {
			return false
		}
	}
	return true
}

// Package projection implements kernel.Containment by projecting bounding
// box corners into normalized camera view coordinates.
//
// An object is in view when at least one of its eight corners lands inside
// the frame (widened by the margin) in front of the camera. Boxes that
// straddle the frame with every corner outside are reported out of view;
// a small positive margin reduces those misses, and the sat package is the
// more precise alternative.
package projection

import (
	"github.com/chazu/camframe/pkg/geom"
	"github.com/chazu/camframe/pkg/kernel"
	"github.com/chazu/camframe/pkg/scene"
)

// Compile-time interface check.
var _ kernel.Containment = (*Strategy)(nil)

func init() {
	kernel.Register(kernel.NameProjection, func() kernel.Containment { return New() })
}

// Strategy is the screen-space projection test.
type Strategy struct{}

// New returns the projection strategy.
func New() *Strategy {
	return &Strategy{}
}

// Name returns "projection".
func (s *Strategy) Name() string {
	return kernel.NameProjection
}

// Prepare captures the camera view for one frame.
func (s *Strategy) Prepare(cam scene.Camera, render scene.RenderSettings, margin float64) (kernel.Tester, error) {
	shot, err := kernel.Capture(cam, render)
	if err != nil {
		return nil, err
	}
	return &tester{
		view: geom.NewView(shot.Lens, shot.RatioX, shot.RatioY, shot.World),
		lo:   -margin,
		hi:   1 + margin,
	}, nil
}

type tester struct {
	view   geom.View
	lo, hi float64
}

// InView reports whether any corner projects inside the widened frame.
func (t *tester) InView(box geom.Box) bool {
	for _, c := range box {
		p := t.view.Project(c)
		if t.lo <= p.X && p.X <= t.hi && t.lo <= p.Y && p.Y <= t.hi && p.Z > 0 {
			return true
		}
	}
	return false
}

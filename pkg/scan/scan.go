// Package scan drives a containment strategy across one frame or a frame
// range and records which pool objects were in view at any scanned frame.
package scan

import (
	"context"
	"errors"
	"fmt"

	"github.com/chazu/camframe/pkg/geom"
	"github.com/chazu/camframe/pkg/kernel"
	"github.com/chazu/camframe/pkg/scene"
)

// ErrFrameRange is returned when an animated scan is asked to cover a
// range whose start is after its end.
var ErrFrameRange = errors.New("empty frame range")

// Config controls one scan.
type Config struct {
	// Animate scans every frame of the scene's range instead of only the
	// current frame.
	Animate bool

	// Margin is passed to the containment strategy unchanged.
	Margin float64

	// Progress is notified per frame in animated scans. Nil means no
	// notifications.
	Progress scene.ProgressSink
}

// Result is the outcome of a scan.
type Result struct {
	// Visible is parallel to the pool: Visible[i] is true when pool[i] was
	// in view at some scanned frame.
	Visible []bool

	// Frames is the number of frames actually evaluated. It can be less
	// than the range length when every object was found early.
	Frames int

	Start, End int
}

// VisibleCount returns how many pool objects were seen.
func (r Result) VisibleCount() int {
	n := 0
	for _, v := range r.Visible {
		if v {
			n++
		}
	}
	return n
}

// Run scans pool against the scene's active camera using c.
//
// In animated mode the scene's current frame is moved through the range
// and put back on every return path, including errors and cancellation; a
// failure to restore is joined into the returned error. Non-animated scans
// never move the frame. An empty pool returns at once without consulting
// the camera.
func Run(ctx context.Context, scn scene.Scene, pool []scene.Object, c kernel.Containment, cfg Config) (res Result, err error) {
	res.Visible = make([]bool, len(pool))
	if len(pool) == 0 {
		return res, nil
	}

	original := scn.CurrentFrame()
	res.Start, res.End = original, original
	if cfg.Animate {
		res.Start, res.End = scn.FrameRange()
		if res.Start > res.End {
			return res, fmt.Errorf("scan: %w: %d..%d", ErrFrameRange, res.Start, res.End)
		}

		progress := cfg.Progress
		if progress == nil {
			progress = scene.NopProgress{}
		}
		progress.Begin(res.Start, res.End)
		defer progress.End()

		defer func() {
			if rerr := scn.SetFrame(context.WithoutCancel(ctx), original); rerr != nil {
				err = errors.Join(err, fmt.Errorf("scan: restore frame %d: %w", original, rerr))
			}
		}()
		cfg.Progress = progress
	}

	pending := make([]int, len(pool))
	for i := range pending {
		pending[i] = i
	}
	next := make([]int, 0, len(pool))

	for f := res.Start; f <= res.End && len(pending) > 0; f++ {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("scan: frame %d: %w", f, err)
		}
		if cfg.Animate {
			if err := scn.SetFrame(ctx, f); err != nil {
				return res, fmt.Errorf("scan: frame %d: %w", f, err)
			}
			cfg.Progress.Update(f)
		}

		cam := scn.ActiveCamera()
		if cam == nil {
			return res, fmt.Errorf("scan: frame %d: %w", f, scene.ErrNoCamera)
		}
		tester, err := c.Prepare(cam, scn.Render(), cfg.Margin)
		if err != nil {
			return res, fmt.Errorf("scan: frame %d: %w", f, err)
		}

		next = next[:0]
		for _, i := range pending {
			o := pool[i]
			if tester.InView(geom.WorldBox(o.LocalBounds(), o.WorldMatrix())) {
				res.Visible[i] = true
				continue
			}
			next = append(next, i)
		}
		pending, next = next, pending
		res.Frames++
	}
	return res, nil
}

// Package selection selects scene objects by whether the active camera can
// see them. A Selector builds the candidate pool from a Filter, scans it
// with a kernel.Containment strategy and writes the outcome back through
// Apply.
package selection

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/chazu/camframe/pkg/kernel"
	"github.com/chazu/camframe/pkg/monitoring"
	"github.com/chazu/camframe/pkg/scan"
	"github.com/chazu/camframe/pkg/scene"
)

// ErrNoCamera is returned when the scene has no active camera.
var ErrNoCamera = scene.ErrNoCamera

// Margin bounds accepted by Options.Validate.
const (
	MinMargin = -0.49
	MaxMargin = 0.5
)

// slowRun is the duration above which a selection is logged.
const slowRun = time.Second

// Options configures one Select call.
type Options struct {
	// Outside selects what the camera does not see instead of what it does.
	Outside bool

	// Animate scans the whole frame range; an object counts as visible if
	// it is in view at any frame.
	Animate bool

	// Additive keeps existing selections and only adds to them.
	Additive bool

	// Margin widens the in-view test. Its unit depends on the strategy.
	Margin float64

	Filter Filter

	// Progress receives per-frame updates in animated runs.
	Progress scene.ProgressSink
}

// DefaultOptions returns the options of a plain inside, single-frame,
// replacing selection.
func DefaultOptions() Options {
	return Options{Margin: 0.03}
}

// Validate checks the margin bounds.
func (o Options) Validate() error {
	if math.IsNaN(o.Margin) || o.Margin < MinMargin || o.Margin > MaxMargin {
		return fmt.Errorf("margin %g outside [%g, %g]", o.Margin, MinMargin, MaxMargin)
	}
	return nil
}

// Result summarizes a Select call.
type Result struct {
	// Pool is the names of the objects that were tested.
	Pool []string `json:"pool"`

	// Visible is the names of pool objects seen at any scanned frame.
	Visible []string `json:"visible"`

	// Selected is the names of every selected object after the run.
	Selected []string `json:"selected"`

	Frames  int           `json:"frames"`
	Elapsed time.Duration `json:"elapsed_ns"`
}

// Selector runs selections with one containment strategy. Calls on the
// same Selector are serialized. Two Selectors must not share a scene at
// the same time, since scans move the scene's current frame.
type Selector struct {
	mu          sync.Mutex
	containment kernel.Containment
}

// New returns a Selector that tests objects with c.
func New(c kernel.Containment) *Selector {
	return &Selector{containment: c}
}

// Strategy returns the name of the containment strategy in use.
func (s *Selector) Strategy() string {
	return s.containment.Name()
}

// Select filters, scans and updates the selection of scn.
//
// The active camera never enters the pool and is deselected at the end. In
// replacing mode objects excluded by the filter are deselected. An empty
// pool is not an error. A scene with candidates but no active camera
// returns ErrNoCamera without changing any selection.
func (s *Selector) Select(ctx context.Context, scn scene.Scene, opts Options) (*Result, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	began := time.Now()

	var camName string
	cam := scn.ActiveCamera()
	if cam != nil {
		camName = cam.Name()
	}

	pool, excluded := opts.Filter.Partition(scn.Objects(), camName)
	if len(pool) > 0 && cam == nil {
		return nil, fmt.Errorf("selection: %w", ErrNoCamera)
	}

	scanned, err := scan.Run(ctx, scn, pool, s.containment, scan.Config{
		Animate:  opts.Animate,
		Margin:   opts.Margin,
		Progress: opts.Progress,
	})
	if err != nil {
		return nil, fmt.Errorf("selection: %w", err)
	}

	Apply(pool, scanned.Visible, opts.Outside, opts.Additive)
	if !opts.Additive {
		for _, o := range excluded {
			o.SetSelected(false)
		}
	}
	if cam != nil {
		cam.SetSelected(false)
	}

	res := &Result{
		Pool:     scene.ObjectNames(pool),
		Visible:  make([]string, 0, scanned.VisibleCount()),
		Selected: selectedNames(scn.Objects()),
		Frames:   scanned.Frames,
		Elapsed:  time.Since(began),
	}
	for i, o := range pool {
		if scanned.Visible[i] {
			res.Visible = append(res.Visible, o.Name())
		}
	}

	if res.Elapsed > slowRun {
		monitoring.Logf("selection: %s scan of %d objects over %d frames took %s",
			s.containment.Name(), len(pool), res.Frames, res.Elapsed)
	}
	return res, nil
}

func selectedNames(objs []scene.Object) []string {
	names := []string{}
	for _, o := range objs {
		if o.Selected() {
			names = append(names, o.Name())
		}
	}
	return names
}

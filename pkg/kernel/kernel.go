// Package kernel defines the containment strategy interface used to decide
// whether an object's bounding box is in a camera's view. Implementations
// (projection, sat) trade precision for speed behind this interface so the
// selection pipeline can swap them without other changes.
package kernel

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/chazu/camframe/pkg/geom"
	"github.com/chazu/camframe/pkg/scene"
	"github.com/deadsy/sdfx/sdf"
)

// ErrInvalidCamera is returned when camera or render parameters cannot
// describe a frustum.
var ErrInvalidCamera = errors.New("invalid camera")

// Tester answers containment queries for one camera instant.
type Tester interface {
	// InView reports whether a world-space bounding box counts as in view.
	InView(box geom.Box) bool
}

// Containment is a containment strategy. Prepare is called once per frame
// and the returned Tester once per object.
type Containment interface {
	Name() string
	Prepare(cam scene.Camera, render scene.RenderSettings, margin float64) (Tester, error)
}

// Shot is the camera state captured for one frame.
type Shot struct {
	Lens   geom.Lens
	RatioX float64
	RatioY float64
	World  sdf.M44
}

// Capture reads and checks the camera and render settings.
func Capture(cam scene.Camera, render scene.RenderSettings) (Shot, error) {
	if cam == nil {
		return Shot{}, scene.ErrNoCamera
	}
	l := cam.Lens()
	if err := checkLens(l); err != nil {
		return Shot{}, fmt.Errorf("camera %q: %w", cam.Name(), err)
	}
	if render.ResolutionX <= 0 || render.ResolutionY <= 0 {
		return Shot{}, fmt.Errorf("camera %q: %w: resolution %dx%d", cam.Name(), ErrInvalidCamera,
			render.ResolutionX, render.ResolutionY)
	}
	if !(render.PixelAspectX > 0) || !(render.PixelAspectY > 0) {
		return Shot{}, fmt.Errorf("camera %q: %w: pixel aspect %gx%g", cam.Name(), ErrInvalidCamera,
			render.PixelAspectX, render.PixelAspectY)
	}

	rx, ry := geom.AspectRatios(float64(render.ResolutionX), float64(render.ResolutionY),
		render.PixelAspectX, render.PixelAspectY)
	return Shot{Lens: l, RatioX: rx, RatioY: ry, World: cam.WorldMatrix()}, nil
}

func checkLens(l geom.Lens) error {
	switch l.Projection {
	case geom.Perspective:
		if !(l.FocalLength > 0) {
			return fmt.Errorf("%w: focal length %g", ErrInvalidCamera, l.FocalLength)
		}
		if !(l.SensorWidth > 0) {
			return fmt.Errorf("%w: sensor width %g", ErrInvalidCamera, l.SensorWidth)
		}
	case geom.Orthographic:
		if !(l.OrthoScale > 0) {
			return fmt.Errorf("%w: ortho scale %g", ErrInvalidCamera, l.OrthoScale)
		}
	default:
		return fmt.Errorf("%w: projection %v", ErrInvalidCamera, l.Projection)
	}
	if l.ClipStart < 0 || math.IsNaN(l.ClipStart) || !(l.ClipEnd > l.ClipStart) {
		return fmt.Errorf("%w: clip range %g..%g", ErrInvalidCamera, l.ClipStart, l.ClipEnd)
	}
	return nil
}

// Strategy names accepted by config and the CLI.
const (
	NameProjection = "projection"
	NameSAT        = "sat"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]func() Containment{}
)

// Register makes a strategy available to Lookup. Strategy packages call it
// from init; registering a name twice panics.
func Register(name string, factory func() Containment) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if factory == nil {
		panic("kernel: Register factory is nil")
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("kernel: Register called twice for %q", name))
	}
	registry[name] = factory
}

// Lookup returns a new instance of the named strategy with default options.
func Lookup(name string) (Containment, error) {
	registryMu.RLock()
	factory, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown containment strategy %q (have %v)", name, Names())
	}
	return factory(), nil
}

// Names returns the registered strategy names, sorted.
func Names() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

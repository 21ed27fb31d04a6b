// Package scene defines the contracts between camframe and the host
// application that owns objects, cameras and animation time. The host
// implements Scene and Object; camframe reads geometry through them and
// writes the selection flag back.
package scene

import (
	"context"
	"errors"

	"github.com/chazu/camframe/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
)

// ErrNoCamera is returned when a scene has no active camera to build a
// frustum from.
var ErrNoCamera = errors.New("scene has no active camera")

// Object is a host object that can be tested against a camera frustum.
// Names are unique within a scene.
type Object interface {
	Name() string
	Kind() Kind

	// WorldMatrix maps local coordinates to world coordinates at the
	// scene's current frame.
	WorldMatrix() sdf.M44

	// LocalBounds returns the eight bounding-box corners in local space.
	LocalBounds() geom.Box

	Selected() bool
	SetSelected(selected bool)
}

// Camera is an Object that also carries lens intrinsics. ActiveCamera
// must return the same object that Objects lists, or one with the same
// name.
type Camera interface {
	Object
	Lens() geom.Lens
}

// RenderSettings is the output frame size that fixes the camera aspect.
type RenderSettings struct {
	ResolutionX  int     `json:"resolution_x"`
	ResolutionY  int     `json:"resolution_y"`
	PixelAspectX float64 `json:"pixel_aspect_x"`
	PixelAspectY float64 `json:"pixel_aspect_y"`
}

// DefaultRenderSettings returns a 1920x1080 frame with square pixels.
func DefaultRenderSettings() RenderSettings {
	return RenderSettings{
		ResolutionX:  1920,
		ResolutionY:  1080,
		PixelAspectX: 1,
		PixelAspectY: 1,
	}
}

// Scene is the host scene. SetFrame moves the shared current frame and
// re-evaluates animation; callers must not run two scans against the same
// Scene at once.
type Scene interface {
	CurrentFrame() int
	FrameRange() (start, end int)
	SetFrame(ctx context.Context, frame int) error

	Objects() []Object

	// ActiveCamera returns nil when the scene has no camera.
	ActiveCamera() Camera

	Render() RenderSettings
}

// ProgressSink receives per-frame notifications during animated scans.
type ProgressSink interface {
	Begin(start, end int)
	Update(frame int)
	End()
}

// NopProgress discards progress notifications.
type NopProgress struct{}

func (NopProgress) Begin(start, end int) {}
func (NopProgress) Update(frame int)     {}
func (NopProgress) End()                 {}

// ObjectNames returns the names of objs in order.
func ObjectNames(objs []Object) []string {
	names := make([]string, len(objs))
	for i, o := range objs {
		names[i] = o.Name()
	}
	return names
}

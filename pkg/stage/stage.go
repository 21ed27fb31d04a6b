package stage

import (
	"context"

	"github.com/chazu/camframe/pkg/scene"
)

// Default frame range, matching a fresh host scene.
const (
	DefaultFrameStart = 1
	DefaultFrameEnd   = 250
)

// Stage is a scene of named objects. It is not safe for concurrent use.
type Stage struct {
	objects []*Object
	index   map[string]*Object

	render     scene.RenderSettings
	start, end int
	current    int
	camera     string
}

// Compile-time interface check.
var _ scene.Scene = (*Stage)(nil)

// New creates an empty stage with default render settings and frame range.
func New() *Stage {
	return &Stage{
		index:   make(map[string]*Object),
		render:  scene.DefaultRenderSettings(),
		start:   DefaultFrameStart,
		end:     DefaultFrameEnd,
		current: DefaultFrameStart,
	}
}

// Add attaches o to the stage and evaluates it at the current frame. It
// does not check for duplicate names; Validate reports them.
func (s *Stage) Add(o *Object) {
	o.stage = s
	o.evaluate(s.current)
	s.objects = append(s.objects, o)
	if o.name != "" {
		s.index[o.name] = o
	}
}

// Lookup returns the object with the given name, or nil.
func (s *Stage) Lookup(name string) *Object {
	if name == "" {
		return nil
	}
	return s.index[name]
}

// All returns the objects in insertion order.
func (s *Stage) All() []*Object {
	out := make([]*Object, len(s.objects))
	copy(out, s.objects)
	return out
}

// Len returns the number of objects.
func (s *Stage) Len() int {
	return len(s.objects)
}

// SetRender replaces the render settings.
func (s *Stage) SetRender(r scene.RenderSettings) {
	s.render = r
}

// SetFrameRange sets the animation range. It does not move the current
// frame.
func (s *Stage) SetFrameRange(start, end int) {
	s.start, s.end = start, end
}

// SetActiveCamera names the object used as the active camera.
func (s *Stage) SetActiveCamera(name string) {
	s.camera = name
}

// ActiveCameraName returns the configured active camera name.
func (s *Stage) ActiveCameraName() string {
	return s.camera
}

// SelectedNames returns the names of selected objects in insertion order.
func (s *Stage) SelectedNames() []string {
	var names []string
	for _, o := range s.objects {
		if o.selected {
			names = append(names, o.name)
		}
	}
	return names
}

func (s *Stage) CurrentFrame() int {
	return s.current
}

func (s *Stage) FrameRange() (start, end int) {
	return s.start, s.end
}

// SetFrame moves the current frame and re-evaluates every object's
// animation.
func (s *Stage) SetFrame(ctx context.Context, frame int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.current = frame
	for _, o := range s.objects {
		o.evaluate(frame)
	}
	return nil
}

// Objects returns every object, cameras included.
func (s *Stage) Objects() []scene.Object {
	out := make([]scene.Object, len(s.objects))
	for i, o := range s.objects {
		out[i] = o
	}
	return out
}

// ActiveCamera returns the active camera, or nil when none is set or the
// named object is not a camera.
func (s *Stage) ActiveCamera() scene.Camera {
	o := s.Lookup(s.camera)
	if o == nil || o.kind != scene.KindCamera {
		return nil
	}
	return o
}

func (s *Stage) Render() scene.RenderSettings {
	return s.render
}

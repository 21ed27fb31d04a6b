package stage

import (
	"github.com/chazu/camframe/pkg/geom"
	"github.com/chazu/camframe/pkg/scene"
	"github.com/deadsy/sdfx/sdf"
)

// Def describes an object to create.
type Def struct {
	Name      string
	Kind      scene.Kind
	Bounds    geom.Box // local-space bounding corners
	Transform Transform
	Parent    string // name of the parent object, empty for none
	Selected  bool

	// Lens is only meaningful for KindCamera objects.
	Lens geom.Lens
}

// Object is a scene object. Every Object satisfies scene.Camera; Lens is
// the zero Lens for non-camera kinds.
type Object struct {
	name     string
	kind     scene.Kind
	bounds   geom.Box
	base     Transform
	parent   string
	selected bool
	lens     geom.Lens
	keys     []Keyframe

	stage *Stage

	// evaluated at the stage's current frame
	local Transform
	focal float64
}

// Compile-time interface check.
var _ scene.Camera = (*Object)(nil)

// NewObject creates a detached object from d.
func NewObject(d Def) *Object {
	o := &Object{
		name:     d.Name,
		kind:     d.Kind,
		bounds:   d.Bounds,
		base:     d.Transform,
		parent:   d.Parent,
		selected: d.Selected,
		lens:     d.Lens,
	}
	o.evaluate(0)
	return o
}

func (o *Object) Name() string          { return o.name }
func (o *Object) Kind() scene.Kind      { return o.kind }
func (o *Object) LocalBounds() geom.Box { return o.bounds }
func (o *Object) Selected() bool        { return o.selected }

// SetSelected sets the selection flag.
func (o *Object) SetSelected(selected bool) { o.selected = selected }

// Parent returns the parent's name, or "" for a root object.
func (o *Object) Parent() string { return o.parent }

// Base returns the unanimated transform.
func (o *Object) Base() Transform { return o.base }

// Local returns the transform evaluated at the current frame.
func (o *Object) Local() Transform { return o.local }

// Keyframes returns the object's keyframes sorted by frame.
func (o *Object) Keyframes() []Keyframe {
	out := make([]Keyframe, len(o.keys))
	copy(out, o.keys)
	return out
}

// AddKeyframe records k, merging it with any key already at k.Frame, and
// re-evaluates the object at the current frame.
func (o *Object) AddKeyframe(k Keyframe) {
	o.keys = insertKey(o.keys, k)
	frame := 0
	if o.stage != nil {
		frame = o.stage.current
	}
	o.evaluate(frame)
}

// Lens returns the lens with the focal length evaluated at the current
// frame.
func (o *Object) Lens() geom.Lens {
	l := o.lens
	l.FocalLength = o.focal
	return l
}

// WorldMatrix composes the local matrices up the parent chain. A parent
// chain that loops is cut after visiting every object once.
func (o *Object) WorldMatrix() sdf.M44 {
	m := o.local.Matrix()
	if o.stage == nil {
		return m
	}
	limit := len(o.stage.objects)
	for p := o.stage.Lookup(o.parent); p != nil && limit > 0; p = o.stage.Lookup(p.parent) {
		m = p.local.Matrix().Mul(m)
		limit--
	}
	return m
}

// evaluate samples every animated channel at frame.
func (o *Object) evaluate(frame int) {
	t := o.base
	if v, ok := sample(o.keys, frame, func(k Keyframe) *Vec3 { return k.Location }, lerpVec); ok {
		t.Location = v
	}
	if v, ok := sample(o.keys, frame, func(k Keyframe) *Vec3 { return k.Rotation }, lerpVec); ok {
		t.Rotation = v
	}
	if v, ok := sample(o.keys, frame, func(k Keyframe) *Vec3 { return k.Scale }, lerpVec); ok {
		t.Scale = v
	}
	o.local = t

	o.focal = o.lens.FocalLength
	if v, ok := sample(o.keys, frame, func(k Keyframe) *float64 { return k.FocalLength }, lerpFloat); ok {
		o.focal = v
	}
}

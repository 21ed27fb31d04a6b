package stage

import (
	"sort"

	"github.com/chazu/camframe/pkg/geom"
	"github.com/deadsy/sdfx/sdf"
	v3 "github.com/deadsy/sdfx/vec/v3"
)

// Vec3 is a 3D vector in scene units (or degrees, for rotations).
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// One is the unit scale.
var One = Vec3{X: 1, Y: 1, Z: 1}

// Add returns the component-wise sum.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Lerp interpolates linearly from v (t=0) to o (t=1).
func (v Vec3) Lerp(o Vec3, t float64) Vec3 {
	return Vec3{
		X: v.X + (o.X-v.X)*t,
		Y: v.Y + (o.Y-v.Y)*t,
		Z: v.Z + (o.Z-v.Z)*t,
	}
}

// Vec converts to the sdfx vector type.
func (v Vec3) Vec() v3.Vec {
	return v3.Vec{X: v.X, Y: v.Y, Z: v.Z}
}

// Transform is an object's location, XYZ Euler rotation in degrees and
// scale, relative to its parent.
type Transform struct {
	Location Vec3 `json:"location"`
	Rotation Vec3 `json:"rotation"`
	Scale    Vec3 `json:"scale"`
}

// NewTransform returns the identity transform.
func NewTransform() Transform {
	return Transform{Scale: One}
}

// Matrix returns the local-to-parent matrix.
func (t Transform) Matrix() sdf.M44 {
	return geom.Compose(t.Location.Vec(), t.Rotation.Vec(), t.Scale.Vec())
}

// Keyframe pins animated channels at a frame. Nil channels are not keyed
// at this frame.
type Keyframe struct {
	Frame       int      `json:"frame"`
	Location    *Vec3    `json:"location,omitempty"`
	Rotation    *Vec3    `json:"rotation,omitempty"`
	Scale       *Vec3    `json:"scale,omitempty"`
	FocalLength *float64 `json:"focal_length,omitempty"`
}

// IsEmpty reports whether the keyframe keys no channel.
func (k Keyframe) IsEmpty() bool {
	return k.Location == nil && k.Rotation == nil && k.Scale == nil && k.FocalLength == nil
}

// merge overlays the channels set in o onto k.
func (k Keyframe) merge(o Keyframe) Keyframe {
	if o.Location != nil {
		k.Location = o.Location
	}
	if o.Rotation != nil {
		k.Rotation = o.Rotation
	}
	if o.Scale != nil {
		k.Scale = o.Scale
	}
	if o.FocalLength != nil {
		k.FocalLength = o.FocalLength
	}
	return k
}

// insertKey adds k to keys, which are sorted by frame. A key at an existing
// frame is merged into it.
func insertKey(keys []Keyframe, k Keyframe) []Keyframe {
	i := sort.Search(len(keys), func(i int) bool { return keys[i].Frame >= k.Frame })
	if i < len(keys) && keys[i].Frame == k.Frame {
		keys[i] = keys[i].merge(k)
		return keys
	}
	keys = append(keys, Keyframe{})
	copy(keys[i+1:], keys[i:])
	keys[i] = k
	return keys
}

// sample evaluates one channel at frame. Frames before the first key hold
// the first value, frames after the last hold the last value, and frames
// in between interpolate linearly. ok is false when no key sets the
// channel.
func sample[T any](keys []Keyframe, frame int, get func(Keyframe) *T, lerp func(a, b T, t float64) T) (v T, ok bool) {
	var prev, next *Keyframe
	for i := range keys {
		if get(keys[i]) == nil {
			continue
		}
		if keys[i].Frame <= frame {
			prev = &keys[i]
			continue
		}
		next = &keys[i]
		break
	}
	switch {
	case prev == nil && next == nil:
		return v, false
	case prev == nil:
		return *get(*next), true
	case next == nil:
		return *get(*prev), true
	}
	t := float64(frame-prev.Frame) / float64(next.Frame-prev.Frame)
	return lerp(*get(*prev), *get(*next), t), true
}

func lerpVec(a, b Vec3, t float64) Vec3 { return a.Lerp(b, t) }

func lerpFloat(a, b float64, t float64) float64 { return a + (b-a)*t }

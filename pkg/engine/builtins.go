package engine

import (
	"context"
	"fmt"

	"github.com/chazu/camframe/pkg/geom"
	"github.com/chazu/camframe/pkg/scene"
	"github.com/chazu/camframe/pkg/shape"
	"github.com/chazu/camframe/pkg/stage"
	zygo "github.com/glycerine/zygomys/zygo"
	"github.com/google/uuid"
)

// Camera defaults for keywords the source leaves out.
const (
	DefaultLens       = 50.0
	DefaultSensor     = 36.0
	DefaultClipStart  = 0.1
	DefaultClipEnd    = 100.0
	DefaultOrthoScale = 6.0
)

// anonymousName returns a fresh name for an object declared without one.
func anonymousName(kind scene.Kind) string {
	return fmt.Sprintf("%s.%s", kind, uuid.NewString()[:8])
}

// transformArgs reads :at, :rotation and :scale into t.
func transformArgs(fn string, pa kwArgs, t *stage.Transform) error {
	for _, f := range []struct {
		kw  string
		dst *stage.Vec3
	}{
		{"at", &t.Location},
		{"rotation", &t.Rotation},
		{"scale", &t.Scale},
	} {
		v, ok := pa.kw[f.kw]
		if !ok {
			continue
		}
		vec, err := toVec3(v)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", fn, f.kw, err)
		}
		*f.dst = vec
	}
	return nil
}

// floatArgs reads number keywords into their destinations.
func floatArgs(fn string, pa kwArgs, dst map[string]*float64) error {
	for kw, p := range dst {
		v, ok := pa.kw[kw]
		if !ok {
			continue
		}
		f, err := toFloat64(v)
		if err != nil {
			return fmt.Errorf("%s: %s: %w", fn, kw, err)
		}
		*p = f
	}
	return nil
}

// objectArgs reads the keywords shared by camera and object.
func objectArgs(fn string, pa kwArgs, def *stage.Def) error {
	if err := transformArgs(fn, pa, &def.Transform); err != nil {
		return err
	}
	if v, ok := pa.kw["parent"]; ok {
		name, err := toObjectName(v)
		if err != nil {
			return fmt.Errorf("%s: parent: %w", fn, err)
		}
		def.Parent = name
	}
	if v, ok := pa.kw["selected"]; ok {
		b, err := toBool(v)
		if err != nil {
			return fmt.Errorf("%s: selected: %w", fn, err)
		}
		def.Selected = b
	}
	return nil
}

// declare names def, rejects duplicates and adds it to st.
func declare(fn string, st *stage.Stage, pa kwArgs, def stage.Def) (zygo.Sexp, error) {
	if len(pa.positional) > 0 {
		name, err := toString(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("%s: name: %w", fn, err)
		}
		def.Name = name
	}
	if def.Name == "" {
		def.Name = anonymousName(def.Kind)
	}
	if st.Lookup(def.Name) != nil {
		return zygo.SexpNull, fmt.Errorf("%s: duplicate name %q", fn, def.Name)
	}
	st.Add(stage.NewObject(def))
	return &sexpObjectRef{name: def.Name}, nil
}

// registerBuiltins installs the scene builtins into env. They populate st
// as the program runs.
//
// Source must be preprocessed with preprocessSource so :keyword tokens
// arrive as recognizable strings.
func registerBuiltins(env *zygo.Zlisp, st *stage.Stage) {

	// (vec3 1 2 3)
	env.AddFunction("vec3", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 3 {
			return zygo.SexpNull, fmt.Errorf("vec3 requires exactly 3 arguments, got %d", len(args))
		}
		var xyz [3]float64
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("vec3: %c: %w", "xyz"[i], err)
			}
			xyz[i] = f
		}
		return &sexpVec3{vec: stage.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]}}, nil
	})

	registerShapes(env)

	// (render :resolution-x 1920 :resolution-y 1080 :pixel-aspect-x 1 :pixel-aspect-y 1)
	env.AddFunction("render", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if k := pa.unknown("resolution-x", "resolution-y", "pixel-aspect-x", "pixel-aspect-y"); k != "" {
			return zygo.SexpNull, fmt.Errorf("render: unknown keyword :%s", k)
		}
		r := st.Render()
		for kw, p := range map[string]*int{"resolution-x": &r.ResolutionX, "resolution-y": &r.ResolutionY} {
			if v, ok := pa.kw[kw]; ok {
				n, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("render: %s: %w", kw, err)
				}
				*p = n
			}
		}
		err := floatArgs("render", pa, map[string]*float64{
			"pixel-aspect-x": &r.PixelAspectX,
			"pixel-aspect-y": &r.PixelAspectY,
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		st.SetRender(r)
		return zygo.SexpNull, nil
	})

	// (frames :start 1 :end 24 :current 1)
	env.AddFunction("frames", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if k := pa.unknown("start", "end", "current"); k != "" {
			return zygo.SexpNull, fmt.Errorf("frames: unknown keyword :%s", k)
		}
		start, end := st.FrameRange()
		current := st.CurrentFrame()
		for kw, p := range map[string]*int{"start": &start, "end": &end, "current": &current} {
			if v, ok := pa.kw[kw]; ok {
				n, err := toInt(v)
				if err != nil {
					return zygo.SexpNull, fmt.Errorf("frames: %s: %w", kw, err)
				}
				*p = n
			}
		}
		// Moving the start without naming a current frame starts there.
		if _, ok := pa.kw["current"]; !ok {
			if _, moved := pa.kw["start"]; moved {
				current = start
			}
		}
		st.SetFrameRange(start, end)
		if err := st.SetFrame(context.Background(), current); err != nil {
			return zygo.SexpNull, fmt.Errorf("frames: %w", err)
		}
		return zygo.SexpNull, nil
	})

	// (camera "Cam" :lens 50 :sensor 36 :clip-start 0.1 :clip-end 100
	//         :type :persp :ortho-scale 6 :at (vec3 0 0 10) :rotation (vec3 0 0 0))
	env.AddFunction("camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if k := pa.unknown("lens", "sensor", "clip-start", "clip-end", "type", "ortho-scale",
			"at", "rotation", "scale", "parent", "selected"); k != "" {
			return zygo.SexpNull, fmt.Errorf("camera: unknown keyword :%s", k)
		}
		def := stage.Def{
			Kind:      scene.KindCamera,
			Bounds:    shape.Point().Bounds(),
			Transform: stage.NewTransform(),
			Lens: geom.Lens{
				Projection:  geom.Perspective,
				FocalLength: DefaultLens,
				SensorWidth: DefaultSensor,
				OrthoScale:  DefaultOrthoScale,
				ClipStart:   DefaultClipStart,
				ClipEnd:     DefaultClipEnd,
			},
		}
		err := floatArgs("camera", pa, map[string]*float64{
			"lens":        &def.Lens.FocalLength,
			"sensor":      &def.Lens.SensorWidth,
			"clip-start":  &def.Lens.ClipStart,
			"clip-end":    &def.Lens.ClipEnd,
			"ortho-scale": &def.Lens.OrthoScale,
		})
		if err != nil {
			return zygo.SexpNull, err
		}
		if v, ok := pa.kw["type"]; ok {
			t, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("camera: type: %w", err)
			}
			switch t {
			case "persp", "perspective":
				def.Lens.Projection = geom.Perspective
			case "ortho", "orthographic":
				def.Lens.Projection = geom.Orthographic
			default:
				return zygo.SexpNull, fmt.Errorf("camera: type: invalid projection %q, expected persp or ortho", t)
			}
		}
		if err := objectArgs("camera", pa, &def); err != nil {
			return zygo.SexpNull, err
		}
		return declare("camera", st, pa, def)
	})

	// (object "Cube" :kind :mesh :shape (box 2 2 2) :at (vec3 0 0 0)
	//         :rotation (vec3 0 0 45) :scale (vec3 1 1 1) :parent "Rig" :selected true)
	env.AddFunction("object", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if k := pa.unknown("kind", "shape", "at", "rotation", "scale", "parent", "selected"); k != "" {
			return zygo.SexpNull, fmt.Errorf("object: unknown keyword :%s", k)
		}
		def := stage.Def{
			Kind:      scene.KindMesh,
			Bounds:    shape.Point().Bounds(),
			Transform: stage.NewTransform(),
		}
		if v, ok := pa.kw["kind"]; ok {
			s, err := toKeywordString(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object: kind: %w", err)
			}
			k, err := scene.ParseKind(s)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object: kind: %w", err)
			}
			if k == scene.KindCamera {
				return zygo.SexpNull, fmt.Errorf("object: kind: use (camera ...) to declare cameras")
			}
			def.Kind = k
		}
		if v, ok := pa.kw["shape"]; ok {
			s, err := toShape(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("object: shape: %w", err)
			}
			def.Bounds = s.Bounds()
		}
		if err := objectArgs("object", pa, &def); err != nil {
			return zygo.SexpNull, err
		}
		return declare("object", st, pa, def)
	})

	// (keyframe "Cube" :frame 12 :at (vec3 5 0 0) :rotation (vec3 0 0 90)
	//           :scale (vec3 1 1 1) :lens 35)
	env.AddFunction("keyframe", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		pa := parseArgs(args)
		if k := pa.unknown("frame", "at", "rotation", "scale", "lens"); k != "" {
			return zygo.SexpNull, fmt.Errorf("keyframe: unknown keyword :%s", k)
		}
		if len(pa.positional) < 1 {
			return zygo.SexpNull, fmt.Errorf("keyframe requires an object as first argument")
		}
		objName, err := toObjectName(pa.positional[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("keyframe: %w", err)
		}
		o := st.Lookup(objName)
		if o == nil {
			return zygo.SexpNull, fmt.Errorf("keyframe: no object named %q", objName)
		}

		v, ok := pa.kw["frame"]
		if !ok {
			return zygo.SexpNull, fmt.Errorf("keyframe: :frame is required")
		}
		frame, err := toInt(v)
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("keyframe: frame: %w", err)
		}
		k := stage.Keyframe{Frame: frame}

		var t stage.Transform
		if err := transformArgs("keyframe", pa, &t); err != nil {
			return zygo.SexpNull, err
		}
		if _, ok := pa.kw["at"]; ok {
			k.Location = &t.Location
		}
		if _, ok := pa.kw["rotation"]; ok {
			k.Rotation = &t.Rotation
		}
		if _, ok := pa.kw["scale"]; ok {
			k.Scale = &t.Scale
		}
		if v, ok := pa.kw["lens"]; ok {
			f, err := toFloat64(v)
			if err != nil {
				return zygo.SexpNull, fmt.Errorf("keyframe: lens: %w", err)
			}
			k.FocalLength = &f
		}
		if k.IsEmpty() {
			return zygo.SexpNull, fmt.Errorf("keyframe: frame %d keys nothing", frame)
		}
		o.AddKeyframe(k)
		return &sexpObjectRef{name: objName}, nil
	})

	// (active-camera "Cam")
	env.AddFunction("active_camera", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 1 {
			return zygo.SexpNull, fmt.Errorf("active-camera requires exactly 1 argument, got %d", len(args))
		}
		camName, err := toObjectName(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("active-camera: %w", err)
		}
		o := st.Lookup(camName)
		if o == nil {
			return zygo.SexpNull, fmt.Errorf("active-camera: no object named %q", camName)
		}
		if o.Kind() != scene.KindCamera {
			return zygo.SexpNull, fmt.Errorf("active-camera: %q is a %s, not a camera", camName, o.Kind())
		}
		st.SetActiveCamera(camName)
		return &sexpObjectRef{name: camName}, nil
	})
}

// registerShapes installs the primitive constructors.
func registerShapes(env *zygo.Zlisp) {
	numbers := func(fn string, args []zygo.Sexp, n int) ([]float64, error) {
		if len(args) != n {
			return nil, fmt.Errorf("%s requires exactly %d arguments, got %d", fn, n, len(args))
		}
		out := make([]float64, n)
		for i, a := range args {
			f, err := toFloat64(a)
			if err != nil {
				return nil, fmt.Errorf("%s: argument %d: %w", fn, i+1, err)
			}
			out[i] = f
		}
		return out, nil
	}
	wrap := func(s *shape.Shape, err error) (zygo.Sexp, error) {
		if err != nil {
			return zygo.SexpNull, err
		}
		return &sexpShape{shape: s}, nil
	}

	// (box x y z)
	env.AddFunction("box", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("box", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(shape.Box(v[0], v[1], v[2]))
	})

	// (cylinder height radius)
	env.AddFunction("cylinder", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("cylinder", args, 2)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(shape.Cylinder(v[0], v[1]))
	})

	// (sphere radius)
	env.AddFunction("sphere", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("sphere", args, 1)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(shape.Sphere(v[0]))
	})

	// (cone height r0 r1)
	env.AddFunction("cone", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		v, err := numbers("cone", args, 3)
		if err != nil {
			return zygo.SexpNull, err
		}
		return wrap(shape.Cone(v[0], v[1], v[2]))
	})

	// (bounds (vec3 -1 -1 0) (vec3 1 1 2))
	env.AddFunction("bounds", func(env *zygo.Zlisp, name string, args []zygo.Sexp) (zygo.Sexp, error) {
		if len(args) != 2 {
			return zygo.SexpNull, fmt.Errorf("bounds requires exactly 2 arguments, got %d", len(args))
		}
		lo, err := toVec3(args[0])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bounds: min: %w", err)
		}
		hi, err := toVec3(args[1])
		if err != nil {
			return zygo.SexpNull, fmt.Errorf("bounds: max: %w", err)
		}
		return wrap(shape.Bounds(lo.Vec(), hi.Vec()))
	})
}

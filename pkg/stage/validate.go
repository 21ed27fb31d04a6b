package stage

import (
	"fmt"
	"math"

	"github.com/chazu/camframe/pkg/kernel"
	"github.com/chazu/camframe/pkg/scene"
)

// ValidationSeverity indicates whether a finding makes the stage unusable
// for selection or is merely informational.
type ValidationSeverity int

const (
	SeverityError   ValidationSeverity = iota // blocks selection
	SeverityWarning                           // informational
)

func (s ValidationSeverity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return fmt.Sprintf("ValidationSeverity(%d)", int(s))
	}
}

// ValidationError describes a single validation finding.
type ValidationError struct {
	Object   string // which object has the problem, empty if stage-level
	Message  string
	Severity ValidationSeverity
}

func (e ValidationError) Error() string {
	if e.Object == "" {
		return fmt.Sprintf("[%s] %s", e.Severity, e.Message)
	}
	return fmt.Sprintf("[%s] object %q: %s", e.Severity, e.Object, e.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []ValidationError) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks the stage for problems that would make a selection run
// fail or behave surprisingly. It never mutates the stage.
func Validate(s *Stage) []ValidationError {
	var errs []ValidationError
	errs = append(errs, validateFrames(s)...)
	errs = append(errs, validateNames(s)...)
	errs = append(errs, validateParents(s)...)
	errs = append(errs, validateCameras(s)...)
	errs = append(errs, validateKeyframes(s)...)
	return errs
}

func validateFrames(s *Stage) []ValidationError {
	if s.start > s.end {
		return []ValidationError{{
			Message:  fmt.Sprintf("frame start %d is after frame end %d", s.start, s.end),
			Severity: SeverityError,
		}}
	}
	return nil
}

// validateNames checks that names are non-empty and unique.
func validateNames(s *Stage) []ValidationError {
	var errs []ValidationError
	counts := make(map[string]int)
	for i, o := range s.objects {
		if o.name == "" {
			errs = append(errs, ValidationError{
				Message:  fmt.Sprintf("object %d has no name", i),
				Severity: SeverityError,
			})
			continue
		}
		counts[o.name]++
		if counts[o.name] == 2 {
			errs = append(errs, ValidationError{
				Object:   o.name,
				Message:  "duplicate name",
				Severity: SeverityError,
			})
		}
	}
	return errs
}

// validateParents checks parent references and finds loops with a
// three-color DFS over parent links.
func validateParents(s *Stage) []ValidationError {
	var errs []ValidationError
	for _, o := range s.objects {
		if o.parent != "" && s.Lookup(o.parent) == nil {
			errs = append(errs, ValidationError{
				Object:   o.name,
				Message:  fmt.Sprintf("parent %q does not exist", o.parent),
				Severity: SeverityError,
			})
		}
		if o.parent != "" && o.parent == o.name {
			errs = append(errs, ValidationError{
				Object:   o.name,
				Message:  "object is its own parent",
				Severity: SeverityError,
			})
		}
	}

	const (
		white = iota
		gray
		black
	)
	color := make(map[*Object]int)
	var visit func(o *Object) bool
	visit = func(o *Object) bool {
		switch color[o] {
		case black:
			return false
		case gray:
			errs = append(errs, ValidationError{
				Object:   o.name,
				Message:  "parent chain forms a cycle",
				Severity: SeverityError,
			})
			return true
		}
		color[o] = gray
		if p := s.Lookup(o.parent); p != nil && p != o {
			if visit(p) {
				return true
			}
		}
		color[o] = black
		return false
	}
	for _, o := range s.objects {
		if color[o] == white && visit(o) {
			// One cycle is enough to report.
			break
		}
	}
	return errs
}

func validateCameras(s *Stage) []ValidationError {
	var errs []ValidationError
	for _, o := range s.objects {
		if o.kind != scene.KindCamera {
			continue
		}
		if _, err := kernel.Capture(o, s.render); err != nil {
			errs = append(errs, ValidationError{
				Object:   o.name,
				Message:  err.Error(),
				Severity: SeverityError,
			})
		}
		if scaled := scaledInChain(s, o); scaled != "" {
			errs = append(errs, ValidationError{
				Object:   o.name,
				Message:  fmt.Sprintf("camera is scaled through %q; clip distances scale with it", scaled),
				Severity: SeverityWarning,
			})
		}
	}

	switch o := s.Lookup(s.camera); {
	case s.camera == "":
		errs = append(errs, ValidationError{
			Message:  "no active camera",
			Severity: SeverityWarning,
		})
	case o == nil:
		errs = append(errs, ValidationError{
			Message:  fmt.Sprintf("active camera %q does not exist", s.camera),
			Severity: SeverityError,
		})
	case o.kind != scene.KindCamera:
		errs = append(errs, ValidationError{
			Object:   o.name,
			Message:  fmt.Sprintf("active camera is a %s, not a camera", o.kind),
			Severity: SeverityError,
		})
	}
	return errs
}

// scaledInChain returns the first object in o's parent chain, o included,
// whose current or keyed scale is not 1 on every axis.
func scaledInChain(s *Stage, o *Object) string {
	limit := len(s.objects)
	for p := o; p != nil && limit > 0; p = s.Lookup(p.parent) {
		if !unitScale(p.local.Scale) {
			return p.name
		}
		for _, k := range p.keys {
			if k.Scale != nil && !unitScale(*k.Scale) {
				return p.name
			}
		}
		limit--
	}
	return ""
}

func unitScale(v Vec3) bool {
	const eps = 1e-9
	return math.Abs(v.X-1) < eps && math.Abs(v.Y-1) < eps && math.Abs(v.Z-1) < eps
}

// validateKeyframes warns about keys that an animated scan never reaches.
func validateKeyframes(s *Stage) []ValidationError {
	var errs []ValidationError
	for _, o := range s.objects {
		for _, k := range o.keys {
			if k.Frame < s.start || k.Frame > s.end {
				errs = append(errs, ValidationError{
					Object:   o.name,
					Message:  fmt.Sprintf("keyframe %d is outside frame range %d..%d", k.Frame, s.start, s.end),
					Severity: SeverityWarning,
				})
			}
			if k.FocalLength != nil && o.kind != scene.KindCamera {
				errs = append(errs, ValidationError{
					Object:   o.name,
					Message:  fmt.Sprintf("keyframe %d keys focal length on a %s", k.Frame, o.kind),
					Severity: SeverityWarning,
				})
			}
		}
	}
	return errs
}

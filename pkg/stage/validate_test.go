package stage

import (
	"strings"
	"testing"

	"github.com/chazu/camframe/pkg/scene"
	"github.com/stretchr/testify/assert"
)

// buildValidStage creates a stage with a camera, a parented mesh and an
// in-range keyframe.
func buildValidStage() *Stage {
	s := New()
	s.SetFrameRange(1, 24)
	s.Add(NewObject(Def{Name: "Cam", Kind: scene.KindCamera, Transform: at(0, 0, 10), Lens: testLens()}))
	s.Add(NewObject(Def{Name: "Rig", Kind: scene.KindEmpty, Transform: NewTransform()}))
	cube := NewObject(Def{Name: "Cube", Kind: scene.KindMesh, Bounds: unitBox(), Transform: NewTransform(), Parent: "Rig"})
	s.Add(cube)
	cube.AddKeyframe(Keyframe{Frame: 12, Location: &Vec3{X: 3}})
	s.SetActiveCamera("Cam")
	return s
}

// hasFinding returns true if findings contains one with the given severity
// whose message contains substr.
func hasFinding(findings []ValidationError, sev ValidationSeverity, substr string) bool {
	for _, f := range findings {
		if f.Severity == sev && strings.Contains(f.Message, substr) {
			return true
		}
	}
	return false
}

func TestValidateValidStage(t *testing.T) {
	findings := Validate(buildValidStage())
	assert.Empty(t, findings)
	assert.False(t, HasErrors(findings))
}

func TestValidateFindings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(s *Stage)
		severity ValidationSeverity
		want     string
	}{
		{
			name:     "frame range reversed",
			mutate:   func(s *Stage) { s.SetFrameRange(10, 2) },
			severity: SeverityError,
			want:     "frame start 10 is after frame end 2",
		},
		{
			name:     "duplicate name",
			mutate:   func(s *Stage) { s.Add(NewObject(Def{Name: "Cube"})) },
			severity: SeverityError,
			want:     "duplicate name",
		},
		{
			name:     "empty name",
			mutate:   func(s *Stage) { s.Add(NewObject(Def{})) },
			severity: SeverityError,
			want:     "has no name",
		},
		{
			name:     "unknown parent",
			mutate:   func(s *Stage) { s.Add(NewObject(Def{Name: "Orphan", Parent: "Ghost"})) },
			severity: SeverityError,
			want:     `parent "Ghost" does not exist`,
		},
		{
			name:     "self parent",
			mutate:   func(s *Stage) { s.Add(NewObject(Def{Name: "Loop", Parent: "Loop"})) },
			severity: SeverityError,
			want:     "its own parent",
		},
		{
			name: "parent cycle",
			mutate: func(s *Stage) {
				s.Add(NewObject(Def{Name: "A", Parent: "B"}))
				s.Add(NewObject(Def{Name: "B", Parent: "A"}))
			},
			severity: SeverityError,
			want:     "cycle",
		},
		{
			name: "bad camera lens",
			mutate: func(s *Stage) {
				l := testLens()
				l.ClipEnd = 0
				s.Add(NewObject(Def{Name: "Broken", Kind: scene.KindCamera, Lens: l}))
			},
			severity: SeverityError,
			want:     "clip range",
		},
		{
			name: "bad render size",
			mutate: func(s *Stage) {
				r := scene.DefaultRenderSettings()
				r.ResolutionX = 0
				s.SetRender(r)
			},
			severity: SeverityError,
			want:     "resolution",
		},
		{
			name:     "active camera missing",
			mutate:   func(s *Stage) { s.SetActiveCamera("Nope") },
			severity: SeverityError,
			want:     `active camera "Nope" does not exist`,
		},
		{
			name:     "active camera not a camera",
			mutate:   func(s *Stage) { s.SetActiveCamera("Cube") },
			severity: SeverityError,
			want:     "not a camera",
		},
		{
			name:     "no active camera",
			mutate:   func(s *Stage) { s.SetActiveCamera("") },
			severity: SeverityWarning,
			want:     "no active camera",
		},
		{
			name: "scaled camera",
			mutate: func(s *Stage) {
				tr := at(0, 0, 10)
				tr.Scale = Vec3{X: 2, Y: 2, Z: 2}
				s.Add(NewObject(Def{Name: "Big", Kind: scene.KindCamera, Transform: tr, Lens: testLens()}))
			},
			severity: SeverityWarning,
			want:     `camera is scaled through "Big"`,
		},
		{
			name: "camera under a scaled rig",
			mutate: func(s *Stage) {
				s.Lookup("Cam").parent = "Rig"
				s.Lookup("Rig").AddKeyframe(Keyframe{Frame: 5, Scale: &Vec3{X: 2, Y: 2, Z: 2}})
			},
			severity: SeverityWarning,
			want:     `camera is scaled through "Rig"`,
		},
		{
			name:     "keyframe out of range",
			mutate:   func(s *Stage) { s.Lookup("Cube").AddKeyframe(Keyframe{Frame: 99, Location: &Vec3{}}) },
			severity: SeverityWarning,
			want:     "keyframe 99 is outside frame range 1..24",
		},
		{
			name:     "focal length on a mesh",
			mutate:   func(s *Stage) { s.Lookup("Cube").AddKeyframe(Keyframe{Frame: 2, FocalLength: ptr(35.0)}) },
			severity: SeverityWarning,
			want:     "keys focal length on a MESH",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := buildValidStage()
			tt.mutate(s)
			findings := Validate(s)
			assert.True(t, hasFinding(findings, tt.severity, tt.want), "findings: %v", findings)
			assert.Equal(t, tt.severity == SeverityError, HasErrors(findings))
		})
	}
}

func TestValidationErrorString(t *testing.T) {
	e := ValidationError{Object: "Cube", Message: "duplicate name", Severity: SeverityError}
	assert.Equal(t, `[error] object "Cube": duplicate name`, e.Error())

	w := ValidationError{Message: "no active camera", Severity: SeverityWarning}
	assert.Equal(t, "[warning] no active camera", w.Error())
}

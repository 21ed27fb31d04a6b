package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"sync"
	"testing"

	"github.com/chazu/camframe/pkg/config"
	"github.com/chazu/camframe/pkg/monitoring"
	"github.com/google/go-cmp/cmp"
)

// ---------------------------------------------------------------------------
// Empty and comment-only sources produce empty, non-nil reports.
// ---------------------------------------------------------------------------

func TestE2EEmptySourceExtended(t *testing.T) {
	for _, source := range []string{"", "   \n\t\n", ";; nothing here\n; at all\n"} {
		report := NewApp().Run(context.Background(), source, config.Default())

		if len(report.Errors) != 0 {
			t.Errorf("%q: expected 0 errors, got %v", source, report.Errors)
		}
		// Ensure slices are non-nil (JSON should serialize as [] not null).
		if report.Pool == nil || report.Visible == nil || report.Selected == nil {
			t.Errorf("%q: name slices should be non-nil", source)
		}
		if report.Errors == nil || report.Warnings == nil {
			t.Errorf("%q: diagnostic slices should be non-nil", source)
		}
	}
}

// ---------------------------------------------------------------------------
// Scene errors surface as report errors and select nothing.
// ---------------------------------------------------------------------------

func TestE2ESyntaxErrorWithLineInfo(t *testing.T) {
	// Valid code on line 1, broken code on line 2 so line info is meaningful.
	source := "(camera \"Cam\")\n(object \"Cube\""
	report := NewApp().Run(context.Background(), source, config.Default())

	if len(report.Errors) == 0 {
		t.Fatal("expected at least one error for unmatched parens")
	}
	e := report.Errors[0]
	if e.Message == "" {
		t.Error("syntax error should have a non-empty message")
	}
	if e.Line > 0 {
		t.Logf("extracted line info: line=%d, message=%q", e.Line, e.Message)
	}
}

func TestE2ESceneErrors(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		wantErr string
	}{
		{"unknown keyword", `(camera "Cam" :zoom 2)`, "unknown keyword :zoom"},
		{"duplicate name", `(camera "Cam") (object "A") (object "A")`, `duplicate name "A"`},
		{"unknown parent", `(camera "Cam") (object "A" :parent "Nobody")`, `parent "Nobody" does not exist`},
		{"parent cycle", `(camera "Cam") (object "A" :parent "B") (object "B" :parent "A")`, "parent chain forms a cycle"},
		{"zero lens", `(camera "Cam" :lens 0) (object "A")`, "invalid camera"},
		{"inverted clip", `(camera "Cam" :clip-start 10 :clip-end 1) (object "A")`, "invalid camera"},
		{"bad render", `(render :resolution-x 0) (camera "Cam") (object "A")`, "invalid camera"},
		{"inverted frames", `(frames :start 10 :end 1) (camera "Cam")`, "frame start 10 is after frame end 1"},
		{"no camera", `(object "A" :shape (box 1 1 1))`, "no active camera"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report := NewApp().Run(context.Background(), tt.source, config.Default())
			if len(report.Errors) == 0 {
				t.Fatalf("expected an error containing %q, got none", tt.wantErr)
			}
			found := false
			for _, e := range report.Errors {
				if strings.Contains(e.Message, tt.wantErr) {
					found = true
				}
			}
			if !found {
				t.Errorf("errors %v do not mention %q", report.Errors, tt.wantErr)
			}
			if len(report.Selected) != 0 {
				t.Errorf("expected no selection, got %v", report.Selected)
			}
		})
	}
}

func TestE2EWarnings(t *testing.T) {
	source := `
(frames :start 1 :end 10)
(camera "Cam")
(object "A" :shape (box 1 1 1) :at (vec3 0 0 -5))
(keyframe "A" :frame 30 :at (vec3 0 0 -6))
(keyframe "A" :frame 2 :lens 40)
`
	report := NewApp().Run(context.Background(), source, config.Default())
	if len(report.Errors) != 0 {
		t.Fatalf("unexpected errors: %v", report.Errors)
	}
	if len(report.Warnings) != 2 {
		t.Fatalf("expected 2 warnings, got %v", report.Warnings)
	}
	for _, w := range report.Warnings {
		if w.Object != "A" {
			t.Errorf("warning %q names object %q, want A", w.Message, w.Object)
		}
	}
	if diff := cmp.Diff([]string{"A"}, report.Selected); diff != "" {
		t.Errorf("selected mismatch (-want +got):\n%s", diff)
	}
}

// ---------------------------------------------------------------------------
// Selection modes driven from the scene's own selection flags.
// ---------------------------------------------------------------------------

func TestE2EAdditiveKeepsSelection(t *testing.T) {
	source := `
(camera "Cam")
(object "Seen" :shape (box 1 1 1) :at (vec3 0 0 -5))
(object "Hidden" :shape (box 1 1 1) :at (vec3 0 0 5) :selected true)
(object "Other" :shape (box 1 1 1) :at (vec3 0 0 8))
`
	tests := []struct {
		name     string
		outside  bool
		additive bool
		want     []string
	}{
		{"inside replacing", false, false, []string{"Seen"}},
		{"inside additive", false, true, []string{"Seen", "Hidden"}},
		{"outside replacing", true, false, []string{"Hidden", "Other"}},
		{"outside additive", true, true, []string{"Hidden", "Other"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := config.Default()
			profile.Outside = tt.outside
			profile.Additive = tt.additive

			report := NewApp().Run(context.Background(), source, profile)
			if len(report.Errors) != 0 {
				t.Fatalf("unexpected errors: %v", report.Errors)
			}
			if diff := cmp.Diff(tt.want, report.Selected); diff != "" {
				t.Errorf("selected mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestE2ESelectedCameraIsCleared(t *testing.T) {
	source := `
(camera "Cam" :selected true)
(object "Seen" :shape (box 1 1 1) :at (vec3 0 0 -5))
`
	profile := config.Default()
	profile.Additive = true

	report := NewApp().Run(context.Background(), source, profile)
	if diff := cmp.Diff([]string{"Seen"}, report.Selected); diff != "" {
		t.Errorf("selected mismatch (-want +got):\n%s", diff)
	}
}

func TestE2EInvalidProfile(t *testing.T) {
	profile := config.Default()
	profile.Margin = 2

	report := NewApp().Run(context.Background(), `(camera "Cam") (object "A")`, profile)
	if len(report.Errors) == 0 || !strings.Contains(report.Errors[0].Message, "margin") {
		t.Errorf("expected a margin error, got %v", report.Errors)
	}
}

func TestE2ECancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	profile := config.Default()
	profile.Animate = true
	report := NewApp().Run(ctx, `(camera "Cam") (object "A" :at (vec3 0 0 5))`, profile)
	if len(report.Errors) == 0 || !strings.Contains(report.Errors[0].Message, "context canceled") {
		t.Errorf("expected a cancellation error, got %v", report.Errors)
	}
}

// ---------------------------------------------------------------------------
// Rapid evaluation: one App used from many goroutines.
// ---------------------------------------------------------------------------

func TestE2ERapidEvaluation(t *testing.T) {
	app := NewApp()

	var wg sync.WaitGroup
	results := make([]Report, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			source := fmt.Sprintf(`(camera "Cam") (object "A%d" :at (vec3 0 0 -5))`, i)
			results[i] = app.Run(context.Background(), source, config.Default())
		}(i)
	}
	wg.Wait()

	// Overlapping evaluations may supersede one another; every report is
	// either a clean selection or a superseded error.
	for i, r := range results {
		if len(r.Errors) > 0 {
			if !strings.Contains(r.Errors[0].Message, "superseded") {
				t.Errorf("run %d: unexpected error %v", i, r.Errors)
			}
			continue
		}
		want := []string{fmt.Sprintf("A%d", i)}
		if diff := cmp.Diff(want, r.Selected); diff != "" {
			t.Errorf("run %d: selected mismatch (-want +got):\n%s", i, diff)
		}
	}
}

// ---------------------------------------------------------------------------
// Command line
// ---------------------------------------------------------------------------

func TestRunPrintsSelection(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-scene", "examples/scenes/studio.lisp"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}
	if got := stdout.String(); got != "Table\nChair\n" {
		t.Errorf("stdout = %q, want Table and Chair", got)
	}
}

func TestRunJSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	args := []string{
		"-scene", "examples/scenes/studio.lisp",
		"-config", "examples/profiles/inside.yaml",
		"-anim", "-strategy", "sat", "-filter", "mesh", "-json",
	}
	if err := run(args, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v\nstderr: %s", err, stderr.String())
	}

	var report Report
	if err := json.Unmarshal(stdout.Bytes(), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout.String())
	}
	if report.Strategy != "sat" {
		t.Errorf("strategy = %q, want sat", report.Strategy)
	}
	if diff := cmp.Diff([]string{"Table", "Chair", "Drone"}, report.Selected); diff != "" {
		t.Errorf("selected mismatch (-want +got):\n%s", diff)
	}
	if report.Frames != 24 {
		t.Errorf("frames = %d, want 24", report.Frames)
	}
	if stderr.Len() != 0 {
		t.Errorf("json mode should not print progress, got %q", stderr.String())
	}
}

func TestRunProgress(t *testing.T) {
	var stdout, stderr bytes.Buffer
	err := run([]string{"-scene", "examples/scenes/studio.lisp", "-anim", "-outside"}, &stdout, &stderr)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(stderr.String(), "frame 24/24") {
		t.Errorf("expected progress on stderr, got %q", stderr.String())
	}
	if got := stdout.String(); got != "Shelf\nBackdrop\nKey\n" {
		t.Errorf("stdout = %q", got)
	}
}

func TestRunQuietRestoresLogging(t *testing.T) {
	var logged bytes.Buffer
	prevOut := log.Writer()
	log.SetOutput(&logged)
	defer log.SetOutput(prevOut)

	var lines []string
	prevLogf := monitoring.SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, fmt.Sprintf(format, v...))
	})
	defer monitoring.SetLogger(prevLogf)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-scene", "examples/scenes/studio.lisp", "-quiet"}, &stdout, &stderr); err != nil {
		t.Fatalf("run: %v", err)
	}

	if log.Writer() != &logged {
		t.Error("-quiet left the standard logger redirected")
	}
	monitoring.Logf("after %s", "quiet")
	if diff := cmp.Diff([]string{"after quiet"}, lines); diff != "" {
		t.Errorf("monitoring logger not restored (-want +got):\n%s", diff)
	}
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing scene flag", nil, "-scene is required"},
		{"missing scene file", []string{"-scene", "examples/scenes/nope.lisp"}, "failed to read scene"},
		{"bad margin", []string{"-scene", "examples/scenes/studio.lisp", "-margin", "0.9"}, "margin"},
		{"bad strategy", []string{"-scene", "examples/scenes/studio.lisp", "-strategy", "guess"}, "unknown containment strategy"},
		{"bad filter", []string{"-scene", "examples/scenes/studio.lisp", "-filter", "mesh,blob"}, "unknown object kind"},
		{"bad config", []string{"-scene", "examples/scenes/studio.lisp", "-config", "examples/scenes/rig.lisp"}, ".yaml or .yml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(tt.args, &stdout, &stderr)
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

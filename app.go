package main

import (
	"context"
	"log"

	"github.com/chazu/camframe/pkg/config"
	"github.com/chazu/camframe/pkg/engine"
	"github.com/chazu/camframe/pkg/scene"
	"github.com/chazu/camframe/pkg/selection"
)

// App ties the scene engine to a selection run.
type App struct {
	engine *engine.Engine

	// progress is handed to animated scans; nil means none.
	progress scene.ProgressSink
}

// EvalErrorData is a JSON-serializable diagnostic.
type EvalErrorData struct {
	Line    int    `json:"line,omitempty"`
	Object  string `json:"object,omitempty"`
	Message string `json:"message"`
}

// Report is the full result of one run.
type Report struct {
	Strategy string   `json:"strategy,omitempty"`
	Camera   string   `json:"camera,omitempty"`
	Pool     []string `json:"pool"`
	Visible  []string `json:"visible"`
	Selected []string `json:"selected"`
	Frames   int      `json:"frames"`
	Elapsed  float64  `json:"elapsed_ms"`

	Errors   []EvalErrorData `json:"errors"`
	Warnings []EvalErrorData `json:"warnings"`
}

// NewApp creates a new App with a fresh engine.
func NewApp() *App {
	return &App{engine: engine.NewEngine()}
}

// Run evaluates scene source and selects its objects as the profile says.
// Scene and selection failures are reported in Report.Errors.
func (a *App) Run(ctx context.Context, source string, profile *config.Profile) Report {
	report := Report{
		Pool:     []string{},
		Visible:  []string{},
		Selected: []string{},
		Errors:   []EvalErrorData{},
		Warnings: []EvalErrorData{},
	}
	fail := func(err error) Report {
		report.Errors = append(report.Errors, EvalErrorData{Message: err.Error()})
		return report
	}

	// Step 1: Evaluate and validate the scene source.
	checked, err := a.engine.Check(source)
	if err != nil {
		// Fatal error (panic, timeout, etc.)
		log.Printf("Evaluate fatal error: %v", err)
		return fail(err)
	}
	for _, w := range checked.Warnings {
		report.Warnings = append(report.Warnings, EvalErrorData{Object: w.Object, Message: w.Message})
	}
	if len(checked.Errors) > 0 {
		for _, e := range checked.Errors {
			report.Errors = append(report.Errors, EvalErrorData{Line: e.Line, Message: e.Message})
		}
		return report
	}
	st := checked.Stage

	// Step 2: Resolve the profile into options and a strategy.
	opts, err := profile.Options()
	if err != nil {
		return fail(err)
	}
	opts.Progress = a.progress
	containment, err := profile.Containment()
	if err != nil {
		return fail(err)
	}

	// Step 3: Select.
	sel := selection.New(containment)
	report.Strategy = sel.Strategy()
	report.Camera = st.ActiveCameraName()
	res, err := sel.Select(ctx, st, opts)
	if err != nil {
		log.Printf("Select error: %v", err)
		return fail(err)
	}

	report.Pool = res.Pool
	report.Visible = res.Visible
	report.Selected = res.Selected
	report.Frames = res.Frames
	report.Elapsed = float64(res.Elapsed.Microseconds()) / 1000
	return report
}

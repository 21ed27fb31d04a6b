// Command camframe selects the objects of a scene that its active camera
// can see.
//
// Usage:
//
//	camframe -scene shot.lisp [-config profile.yaml] [-outside] [-anim]
//	         [-additive] [-margin 0.03] [-filter mesh,curve]
//	         [-strategy projection|sat] [-json] [-quiet]
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/chazu/camframe/pkg/config"
	"github.com/chazu/camframe/pkg/kernel"
	"github.com/chazu/camframe/pkg/monitoring"
	"github.com/chazu/camframe/pkg/scene"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "camframe: %v\n", err)
		os.Exit(1)
	}
}

// stderrProgress prints animated scan progress on one line.
type stderrProgress struct {
	w          io.Writer
	start, end int
}

func (p *stderrProgress) Begin(start, end int) { p.start, p.end = start, end }
func (p *stderrProgress) Update(frame int) {
	fmt.Fprintf(p.w, "\rframe %d/%d", frame-p.start+1, p.end-p.start+1)
}
func (p *stderrProgress) End() { fmt.Fprintln(p.w) }

func kindNames() string {
	names := make([]string, 0, len(scene.AllKinds()))
	for _, k := range scene.AllKinds() {
		names = append(names, strings.ToLower(k.String()))
	}
	return strings.Join(names, ",")
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("camframe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		scenePath  = fs.String("scene", "", "scene description file (required)")
		configPath = fs.String("config", "", "YAML selection profile")
		outside    = fs.Bool("outside", false, "select objects the camera does not see")
		animate    = fs.Bool("anim", false, "scan every frame of the scene's frame range")
		additive   = fs.Bool("additive", false, "add to the existing selection instead of replacing it")
		margin     = fs.Float64("margin", config.DefaultMargin, "in-view tolerance, between -0.49 and 0.5")
		filter     = fs.String("filter", "", "comma-separated object kinds to consider: "+kindNames())
		strategy   = fs.String("strategy", config.DefaultStrategy, "containment strategy: "+strings.Join(kernel.Names(), ", "))
		asJSON     = fs.Bool("json", false, "print the full result as JSON")
		quiet      = fs.Bool("quiet", false, "suppress progress and diagnostic logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *scenePath == "" {
		fs.Usage()
		return fmt.Errorf("-scene is required")
	}

	profile := config.Default()
	if *configPath != "" {
		p, err := config.Load(*configPath)
		if err != nil {
			return err
		}
		profile = p
	}

	// Flags given on the command line override the profile.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "outside":
			profile.Outside = *outside
		case "anim":
			profile.Animate = *animate
		case "additive":
			profile.Additive = *additive
		case "margin":
			profile.Margin = *margin
		case "strategy":
			profile.Strategy = *strategy
		case "filter":
			profile.Filter.Enabled = *filter != ""
			profile.Filter.Kinds = strings.Split(*filter, ",")
		}
	})
	if err := profile.Validate(); err != nil {
		return err
	}

	source, err := os.ReadFile(*scenePath)
	if err != nil {
		return fmt.Errorf("failed to read scene: %w", err)
	}

	app := NewApp()
	if *quiet {
		prevOut := log.Writer()
		log.SetOutput(io.Discard)
		prevLogf := monitoring.SetLogger(nil)
		defer func() {
			log.SetOutput(prevOut)
			monitoring.SetLogger(prevLogf)
		}()
	} else if profile.Animate && !*asJSON {
		app.progress = &stderrProgress{w: stderr}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	report := app.Run(ctx, string(source), profile)

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		for _, w := range report.Warnings {
			if w.Object != "" {
				fmt.Fprintf(stderr, "warning: %s: %s\n", w.Object, w.Message)
			} else {
				fmt.Fprintf(stderr, "warning: %s\n", w.Message)
			}
		}
		for _, name := range report.Selected {
			fmt.Fprintln(stdout, name)
		}
	}

	if len(report.Errors) > 0 {
		msgs := make([]string, len(report.Errors))
		for i, e := range report.Errors {
			if e.Line > 0 {
				msgs[i] = fmt.Sprintf("%s: line %d: %s", *scenePath, e.Line, e.Message)
			} else {
				msgs[i] = e.Message
			}
		}
		return fmt.Errorf("%s", strings.Join(msgs, "\n"))
	}
	return nil
}

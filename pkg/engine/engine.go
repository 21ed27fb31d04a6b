// Package engine evaluates camframe scene descriptions. It wraps zygomys in
// a sandboxed environment and produces a stage.Stage from user source.
package engine

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/chazu/camframe/pkg/scene"
	"github.com/chazu/camframe/pkg/stage"
	zygo "github.com/glycerine/zygomys/zygo"
)

// EvalError represents a non-fatal error encountered during evaluation,
// such as a parse error or a runtime error in user code.
type EvalError struct {
	Line    int
	Col     int
	Message string
}

func (e EvalError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %s", e.Line, e.Message)
	}
	return e.Message
}

// EvalWarning is a non-blocking finding about an evaluated scene.
type EvalWarning struct {
	Object  string
	Message string
}

// EvalResult bundles an evaluation with the stage's validation findings.
type EvalResult struct {
	Stage    *stage.Stage
	Errors   []EvalError
	Warnings []EvalWarning
}

// Engine wraps the zygomys interpreter. It is safe for concurrent use;
// each call to Evaluate creates a fresh sandboxed environment.
type Engine struct {
	mu         sync.Mutex
	generation uint64
}

// NewEngine creates a new Engine instance.
func NewEngine() *Engine {
	return &Engine{}
}

// Evaluate runs scene source and produces a new Stage.
//
// Return semantics:
//   - On success: returns stage + nil errors + nil error
//   - On parse/eval failure: returns nil stage + eval errors + nil error
//   - On fatal failure (timeout, panic): returns nil + nil + error
func (e *Engine) Evaluate(source string) (*stage.Stage, []EvalError, error) {
	e.mu.Lock()
	e.generation++
	gen := e.generation
	e.mu.Unlock()

	ch := make(chan evalResult, 1)

	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- evalResult{err: fmt.Errorf("panic during evaluation: %v", r)}
			}
		}()

		st, evalErrs, err := e.evaluate(source)
		ch <- evalResult{stage: st, errors: evalErrs, err: err}
	}()

	return waitWithTimeout(ch, gen, &e.mu, &e.generation)
}

// Check evaluates source and validates the resulting stage. Validation
// errors are reported as EvalErrors without line information and leave
// Stage nil.
func (e *Engine) Check(source string) (EvalResult, error) {
	st, evalErrs, err := e.Evaluate(source)
	if err != nil || len(evalErrs) > 0 {
		return EvalResult{Errors: evalErrs}, err
	}

	var res EvalResult
	findings := stage.Validate(st)
	if !stage.HasErrors(findings) {
		res.Stage = st
	}
	for _, f := range findings {
		if f.Severity == stage.SeverityWarning {
			res.Warnings = append(res.Warnings, EvalWarning{Object: f.Object, Message: f.Message})
			continue
		}
		res.Errors = append(res.Errors, EvalError{Message: f.Error()})
	}
	return res, nil
}

// evaluate performs the actual zygomys evaluation in a fresh sandbox.
func (e *Engine) evaluate(source string) (*stage.Stage, []EvalError, error) {
	st := stage.New()

	// Empty source is a valid program that produces an empty stage.
	if strings.TrimSpace(source) == "" {
		return st, nil, nil
	}

	// Sandbox mode keeps user code away from the filesystem and syscalls.
	env := zygo.NewZlispSandbox()
	defer env.Stop()
	registerBuiltins(env, st)

	if err := env.LoadString(preprocessSource(source)); err != nil {
		return nil, parseZygomysError(err), nil
	}
	if _, err := env.Run(); err != nil {
		return nil, parseZygomysError(err), nil
	}

	if st.ActiveCameraName() == "" {
		for _, o := range st.All() {
			if o.Kind() == scene.KindCamera {
				st.SetActiveCamera(o.Name())
				break
			}
		}
	}
	return st, nil, nil
}

// linePattern matches zygomys error messages that include "Error on line N: ..."
var linePattern = regexp.MustCompile(`(?i)(?:error )?on line (\d+):\s*(.*)`)

// linePatternShort matches simpler "line N: ..." patterns.
var linePatternShort = regexp.MustCompile(`(?i)^line (\d+):\s*(.*)`)

// parseZygomysError converts a zygomys error into one or more EvalError
// values, extracting a line number when the message carries one.
func parseZygomysError(err error) []EvalError {
	msg := err.Error()

	for _, re := range []*regexp.Regexp{linePattern, linePatternShort} {
		if m := re.FindStringSubmatch(msg); m != nil {
			line, _ := strconv.Atoi(m[1])
			return []EvalError{{Line: line, Message: strings.TrimSpace(m[2])}}
		}
	}

	return []EvalError{{Message: strings.TrimSpace(msg)}}
}

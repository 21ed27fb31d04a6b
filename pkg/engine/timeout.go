package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/chazu/camframe/pkg/stage"
)

// EvalTimeout is the hard limit for a single evaluation.
const EvalTimeout = 5 * time.Second

// evalResult carries an evaluation's outputs back from its goroutine.
type evalResult struct {
	stage  *stage.Stage
	errors []EvalError
	err    error
}

// waitWithTimeout waits for a result from ch and gives up after
// EvalTimeout. A result whose generation is no longer current is
// discarded, since a newer evaluation has started.
//
// On timeout the evaluating goroutine may still be running; its result is
// dropped into the buffered channel and never read.
func waitWithTimeout(
	ch <-chan evalResult,
	gen uint64,
	mu *sync.Mutex,
	currentGen *uint64,
) (*stage.Stage, []EvalError, error) {
	timer := time.NewTimer(EvalTimeout)
	defer timer.Stop()

	select {
	case res := <-ch:
		mu.Lock()
		current := *currentGen
		mu.Unlock()

		if gen != current {
			return nil, nil, fmt.Errorf("evaluation superseded by newer request")
		}
		return res.stage, res.errors, res.err

	case <-timer.C:
		return nil, nil, fmt.Errorf("evaluation timed out after %s", EvalTimeout)
	}
}

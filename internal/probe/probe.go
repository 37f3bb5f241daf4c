// Package probe times units of work and turns them into samples.
//
// A probe body is a plain Work function. The Runner executes it a fixed
// number of times, times every iteration with the monotonic clock and takes
// a memory reading before the first and after the last iteration. Any error
// or panic aborts the remaining iterations and yields a failed sample; the
// Runner itself never returns an error.
package probe

import (
	"fmt"
)

// Work is a single iteration of a probe.
type Work func() error

// Iterations is the default number of times a probe body runs.
const Iterations = 5

// Failure is the error recorded when a probe iteration returns an error or
// panics.
type Failure struct {
	Probe     string
	Iteration int
	Err       error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("probe %s failed on iteration %d: %v", f.Probe, f.Iteration+1, f.Err)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// Cause returns the text recorded on the failed sample.
func (f *Failure) Cause() string {
	if f.Err == nil {
		return ""
	}
	return f.Err.Error()
}

// invoke runs one iteration, converting errors and panics into a *Failure.
func invoke(name string, iteration int, work Work) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &Failure{Probe: name, Iteration: iteration, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	if work == nil {
		return &Failure{Probe: name, Iteration: iteration, Err: fmt.Errorf("probe has no body")}
	}
	if werr := work(); werr != nil {
		return &Failure{Probe: name, Iteration: iteration, Err: werr}
	}
	return nil
}

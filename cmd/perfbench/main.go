package main

import (
	"errors"
	"fmt"
	"os"
)

// Exit codes for different failure modes
const (
	ExitSuccess     = 0 // All probes succeeded
	ExitProbeFailed = 1 // One or more probes failed or regressed
	ExitError       = 2 // Configuration or runtime error
)

// ProbeFailureError indicates that the suite ran to completion, but one or
// more probes failed or regressed against the baseline.
type ProbeFailureError struct {
	Message string
}

func (e *ProbeFailureError) Error() string {
	return e.Message
}

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var probeErr *ProbeFailureError
	if errors.As(err, &probeErr) {
		return ExitProbeFailed
	}
	// All other errors are configuration/runtime errors
	return ExitError
}

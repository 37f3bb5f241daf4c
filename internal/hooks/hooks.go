// Package hooks runs the commands configured around a benchmark run,
// for example to boot a simulator before the suite or upload results after.
package hooks

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"slices"
	"strings"

	"github.com/petprogress/perfbench/internal/template"
	"github.com/petprogress/perfbench/internal/utils"
)

// Lifecycle points.
const (
	BeforeRun = "before_run"
	AfterRun  = "after_run"
)

// HookConfig defines a single hook command.
type HookConfig struct {
	Command          string `yaml:"command" json:"command"`
	WorkingDirectory string `yaml:"working_directory,omitempty" json:"working_directory,omitempty"`
	ExitCodes        []int  `yaml:"exit_codes,omitempty" json:"exit_codes,omitempty"`
	ErrorOnFail      bool   `yaml:"error_on_fail,omitempty" json:"error_on_fail,omitempty"`
}

// HooksConfig holds the run lifecycle hooks.
type HooksConfig struct {
	BeforeRun []HookConfig `yaml:"before_run,omitempty" json:"before_run,omitempty"`
	AfterRun  []HookConfig `yaml:"after_run,omitempty" json:"after_run,omitempty"`
}

// IsZero reports whether no hooks are configured.
func (c HooksConfig) IsZero() bool {
	return len(c.BeforeRun) == 0 && len(c.AfterRun) == 0
}

// Runner executes hook commands at lifecycle points.
type Runner struct {
	// Dir anchors relative working directories. Empty means the process cwd.
	Dir string
	// Vars are rendered into commands and working directories and exported
	// as PERFBENCH_* environment variables. Nil disables both.
	Vars *template.Context
	// Output receives combined hook output when set.
	Output io.Writer
}

// Execute runs all hooks for a given lifecycle point in order.
// name identifies the lifecycle point for logging and error context.
func (r *Runner) Execute(ctx context.Context, name string, hooks []HookConfig) error {
	for i, h := range hooks {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("hook %s: context canceled: %w", name, err)
		}

		if err := r.runHook(ctx, name, i, h); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) runHook(ctx context.Context, name string, index int, h HookConfig) error {
	if strings.TrimSpace(h.Command) == "" {
		return fmt.Errorf("hook %s[%d]: empty command", name, index)
	}

	command, workDir := h.Command, h.WorkingDirectory
	if r.Vars != nil {
		var err error
		if command, err = template.Render(command, r.Vars); err != nil {
			return fmt.Errorf("hook %s[%d]: command: %w", name, index, err)
		}
		if workDir, err = template.Render(workDir, r.Vars); err != nil {
			return fmt.Errorf("hook %s[%d]: working_directory: %w", name, index, err)
		}
	}

	parts := strings.Fields(command)
	if len(parts) == 0 {
		return fmt.Errorf("hook %s[%d]: command %q renders empty", name, index, h.Command)
	}
	//nolint:gosec // hook commands come from the project's own .perfbench.yaml
	cmd := exec.CommandContext(ctx, parts[0], parts[1:]...)
	cmd.Dir = utils.ResolvePath(workDir, r.Dir)
	if r.Vars != nil {
		cmd.Env = append(os.Environ(), r.Vars.Environ()...)
	}

	slog.Debug("running hook", "point", name, "index", index, "command", command, "dir", cmd.Dir)
	output, err := cmd.CombinedOutput()

	if r.Output != nil && len(output) > 0 {
		fmt.Fprintf(r.Output, "[hook:%s] %s", name, output) //nolint:errcheck
		if !strings.HasSuffix(string(output), "\n") {
			fmt.Fprintln(r.Output) //nolint:errcheck
		}
	}

	exitCode := 0
	if err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) {
			// command not found, bad working directory
			if h.ErrorOnFail {
				return fmt.Errorf("hook %s[%d]: %w", name, index, err)
			}
			slog.Warn("hook failed, continuing", "point", name, "index", index, "error", err)
			return nil
		}
		exitCode = exitErr.ExitCode()
	}

	if isAcceptableExit(exitCode, h.ExitCodes) {
		return nil
	}
	if h.ErrorOnFail {
		return fmt.Errorf("hook %s[%d]: command exited with code %d", name, index, exitCode)
	}
	slog.Warn("hook exited with unexpected code, continuing", "point", name, "index", index, "code", exitCode)
	return nil
}

// isAcceptableExit checks whether exitCode is in the allowed list.
// An empty allowedCodes list defaults to allowing only exit code 0.
func isAcceptableExit(exitCode int, allowedCodes []int) bool {
	if len(allowedCodes) == 0 {
		return exitCode == 0
	}
	return slices.Contains(allowedCodes, exitCode)
}

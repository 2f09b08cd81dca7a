// Package runner executes external commands and reports their exit status.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"strings"

	"github.com/gridctl/maturinctl/pkg/logging"
)

//go:generate mockgen -destination=../dispatch/mock_runner_test.go -package=dispatch github.com/gridctl/maturinctl/pkg/runner Runner

// ErrNotFound is returned when the command executable cannot be located.
var ErrNotFound = errors.New("executable not found")

// Command describes one process invocation.
type Command struct {
	Name string   // Executable name or path
	Args []string // Arguments, not including Name
	Env  []string // Full environment (KEY=VALUE); nil inherits the process environment
	Dir  string   // Working directory; empty uses the current directory

	// Capture collects stdout/stderr into the Result instead of streaming
	// them to the runner's writers.
	Capture bool
}

// String renders the command line for logs.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Result is the outcome of a finished process.
type Result struct {
	ExitCode int
	Stdout   string // Only populated when Command.Capture is set
	Stderr   string // Only populated when Command.Capture is set
}

// Success reports whether the process exited with status 0.
func (r Result) Success() bool { return r.ExitCode == 0 }

// Runner runs commands to completion.
//
// A non-zero exit is not an error: it is reported through Result.ExitCode.
// Errors are reserved for failures to start or wait on the process.
type Runner interface {
	Run(ctx context.Context, cmd Command) (Result, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct {
	stdout io.Writer
	stderr io.Writer
	logger *slog.Logger
}

// New creates an ExecRunner that streams child output to the process stdout/stderr.
func New() *ExecRunner {
	return NewWithWriters(os.Stdout, os.Stderr)
}

// NewWithWriters creates an ExecRunner that streams child output to the given writers.
func NewWithWriters(stdout, stderr io.Writer) *ExecRunner {
	return &ExecRunner{
		stdout: stdout,
		stderr: stderr,
		logger: logging.NewDiscardLogger(),
	}
}

// SetLogger sets the logger for command tracing.
// If nil is passed, logging is disabled (default).
func (r *ExecRunner) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, c Command) (Result, error) {
	r.logger.Debug("running command", "cmd", c.Name, "args", c.Args, "dir", c.Dir)

	cmd := exec.CommandContext(ctx, c.Name, c.Args...)
	cmd.Env = c.Env
	cmd.Dir = c.Dir
	cmd.Stdin = nil

	var stdout, stderr bytes.Buffer
	if c.Capture {
		cmd.Stdout = &stdout
		cmd.Stderr = &stderr
	} else {
		cmd.Stdout = r.stdout
		cmd.Stderr = r.stderr
	}

	err := cmd.Run()
	res := Result{
		Stdout: stdout.String(),
		Stderr: stderr.String(),
	}
	if err == nil {
		return res, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		res.ExitCode = exitErr.ExitCode()
		r.logger.Debug("command exited", "cmd", c.Name, "code", res.ExitCode)
		return res, nil
	}
	if errors.Is(err, exec.ErrNotFound) {
		return res, fmt.Errorf("%s: %w", c.Name, ErrNotFound)
	}
	return res, fmt.Errorf("running %s: %w", c.Name, err)
}

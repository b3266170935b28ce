// Package runner executes external build tools. Each command runs with its
// own working directory and environment for the duration of the call, and a
// non-zero exit is reported as an *ExitError carrying the status.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/phuslu/log"
)

// Command describes one external process invocation
type Command struct {
	Name string   // Executable name or path
	Args []string // Arguments, excluding the executable
	Dir  string   // Working directory, empty for the current one
	Env  []string // KEY=VALUE entries merged over the inherited environment
}

// String renders the command line for logs and errors
func (c Command) String() string {
	parts := append([]string{c.Name}, c.Args...)
	for i, p := range parts {
		if strings.ContainsAny(p, " \t") {
			parts[i] = fmt.Sprintf("%q", p)
		}
	}
	return strings.Join(parts, " ")
}

// Runner executes commands
type Runner interface {
	Run(ctx context.Context, cmd Command) error
}

// ExitError reports a command that ran and exited with a non-zero status
type ExitError struct {
	Command string
	Code    int
	Err     error
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("command %s exited with status %d", e.Command, e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExecRunner runs commands as child processes
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
	logger *log.Logger
}

// NewExecRunner creates a runner streaming child output to stdout/stderr
func NewExecRunner(logger *log.Logger) *ExecRunner {
	return &ExecRunner{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		logger: logger,
	}
}

// Run starts the command and waits for it. Cancelling ctx kills the process.
func (r *ExecRunner) Run(ctx context.Context, cmd Command) error {
	r.logger.Info().Str("dir", cmd.Dir).Msg(cmd.String())

	c := exec.CommandContext(ctx, cmd.Name, cmd.Args...)
	c.Dir = cmd.Dir
	c.Stdout = r.Stdout
	c.Stderr = r.Stderr
	if len(cmd.Env) > 0 {
		c.Env = MergeEnv(os.Environ(), cmd.Env)
	}

	err := c.Run()
	if err == nil {
		return nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return &ExitError{Command: cmd.String(), Code: exitErr.ExitCode(), Err: err}
	}
	return fmt.Errorf("running %s: %w", cmd.Name, err)
}

// MergeEnv overlays KEY=VALUE overrides on base. Base ordering is kept,
// new keys are appended in override order and malformed entries are dropped.
func MergeEnv(base, overrides []string) []string {
	result := make([]string, 0, len(base)+len(overrides))
	index := make(map[string]int, len(base)+len(overrides))

	add := func(entry string) {
		k, _, ok := strings.Cut(entry, "=")
		if !ok || k == "" {
			return
		}
		if i, seen := index[k]; seen {
			result[i] = entry
			return
		}
		index[k] = len(result)
		result = append(result, entry)
	}

	for _, entry := range base {
		add(entry)
	}
	for _, entry := range overrides {
		add(entry)
	}
	return result
}

// Recorder is a Runner that records commands instead of executing them.
// Handler, when set, decides the outcome of each command.
type Recorder struct {
	Commands []Command
	Handler  func(Command) error
}

// Run records cmd and returns the Handler result
func (r *Recorder) Run(ctx context.Context, cmd Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.Commands = append(r.Commands, cmd)
	if r.Handler != nil {
		return r.Handler(cmd)
	}
	return nil
}

package reload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"unicode/utf8"

	appErrors "cheztheme/internal/errors"
)

const maxErrorSnippetLen = 200

// Runner executes an external command and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

// Run executes name with args. A non-zero exit yields a *CommandError in the
// error chain; a binary missing from PATH yields a cli_not_found error.
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	//nolint:gosec // G204: commands come from the user's settings
	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		out := stderr.Bytes()
		if len(bytes.TrimSpace(out)) == 0 {
			out = stdout.Bytes()
		}
		return stdout.Bytes(), formatCommandError(name, args, err, out)
	}
	return stdout.Bytes(), nil
}

// CommandError describes a command that ran and failed.
type CommandError struct {
	Name     string
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	command := strings.Join(append([]string{e.Name}, e.Args...), " ")
	if e.Output != "" {
		return fmt.Sprintf("%s failed: %s", command, e.Output)
	}
	return fmt.Sprintf("%s failed: %v", command, e.Err)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

func formatCommandError(name string, args []string, cmdErr error, out []byte) error {
	if errors.Is(cmdErr, exec.ErrNotFound) {
		return appErrors.New(appErrors.CodeCLINotFound, fmt.Sprintf("%s binary not found in PATH", name), cmdErr)
	}
	snippet := strings.TrimSpace(string(out))
	if len(snippet) > maxErrorSnippetLen {
		cut := maxErrorSnippetLen
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut] + "..."
	}
	ce := &CommandError{Name: name, Args: args, ExitCode: -1, Output: snippet, Err: cmdErr}
	var exitErr *exec.ExitError
	if errors.As(cmdErr, &exitErr) {
		ce.ExitCode = exitErr.ExitCode()
	}
	return appErrors.New(appErrors.CodeExternalCommandFailed, ce.Error(), ce)
}

// exitCode returns the exit status recorded in err, or -1.
func exitCode(err error) int {
	var ce *CommandError
	if errors.As(err, &ce) {
		return ce.ExitCode
	}
	return -1
}

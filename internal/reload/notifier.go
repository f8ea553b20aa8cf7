// Package reload runs the dotfiles apply command and tells running terminals
// to reload their configuration.
package reload

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"

	appErrors "cheztheme/internal/errors"
	"cheztheme/internal/logging"
)

// Defaults match a stock chezmoi + kitty setup.
const (
	DefaultCommand = "chezmoi"
	DefaultProcess = "kitty"
	DefaultSignal  = "SIGUSR1"
)

// DefaultArgs are passed to DefaultCommand.
var DefaultArgs = []string{"apply"}

// Notifier propagates an updated configuration to the outside world.
type Notifier interface {
	// ApplyDotfiles regenerates the user's dotfiles.
	ApplyDotfiles(ctx context.Context) error
	// TerminalPIDs lists running terminal processes. None is not an error.
	TerminalPIDs(ctx context.Context) ([]int, error)
	// Signal asks one terminal to reload.
	Signal(ctx context.Context, pid int) error
}

// Client is the default Notifier. It shells out for the apply command and
// process discovery, and delivers signals directly.
type Client struct {
	runner  Runner
	command string
	args    []string
	process string
	signal  unix.Signal
	kill    func(pid int, sig unix.Signal) error
	logger  zerolog.Logger
}

// Option configures a Client.
type Option func(*Client) error

// WithRunner replaces the command runner.
func WithRunner(r Runner) Option {
	return func(c *Client) error {
		if r != nil {
			c.runner = r
		}
		return nil
	}
}

// WithCommand overrides the dotfiles apply command.
func WithCommand(name string, args ...string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(name) == "" {
			return nil
		}
		c.command = name
		c.args = append([]string(nil), args...)
		return nil
	}
}

// WithProcess overrides the pgrep pattern used to find terminals.
func WithProcess(pattern string) Option {
	return func(c *Client) error {
		if trimmed := strings.TrimSpace(pattern); trimmed != "" {
			c.process = trimmed
		}
		return nil
	}
}

// WithSignal selects the reload signal by name, e.g. "SIGUSR1" or "usr1".
func WithSignal(name string) Option {
	return func(c *Client) error {
		if strings.TrimSpace(name) == "" {
			return nil
		}
		sig, err := ParseSignal(name)
		if err != nil {
			return err
		}
		c.signal = sig
		return nil
	}
}

// NewClient builds a Client with the given options applied over the defaults.
func NewClient(opts ...Option) (*Client, error) {
	c := &Client{
		runner:  ExecRunner{},
		command: DefaultCommand,
		args:    append([]string(nil), DefaultArgs...),
		process: DefaultProcess,
		signal:  unix.SIGUSR1,
		kill:    unix.Kill,
		logger:  logging.Component("reload"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// ParseSignal resolves a signal name with or without the SIG prefix.
func ParseSignal(name string) (unix.Signal, error) {
	upper := strings.ToUpper(strings.TrimSpace(name))
	if !strings.HasPrefix(upper, "SIG") {
		upper = "SIG" + upper
	}
	sig := unix.SignalNum(upper)
	if sig == 0 {
		return 0, appErrors.New(appErrors.CodeConfigurationError, fmt.Sprintf("unknown signal %q", name), nil)
	}
	return sig, nil
}

// ApplyDotfiles runs the configured apply command.
func (c *Client) ApplyDotfiles(ctx context.Context) error {
	c.logger.Debug().Str("command", c.command).Strs("args", c.args).Msg("running dotfiles apply")
	out, err := c.runner.Run(ctx, c.command, c.args...)
	if err != nil {
		return err
	}
	if len(out) > 0 {
		c.logger.Debug().Str("output", strings.TrimSpace(string(out))).Msg("dotfiles apply finished")
	}
	return nil
}

// TerminalPIDs runs pgrep for the configured pattern. pgrep exits with
// status 1 when nothing matches.
func (c *Client) TerminalPIDs(ctx context.Context) ([]int, error) {
	out, err := c.runner.Run(ctx, "pgrep", c.process)
	if err != nil {
		if exitCode(err) == 1 {
			return nil, nil
		}
		return nil, err
	}
	return parsePIDs(out)
}

func parsePIDs(out []byte) ([]int, error) {
	var pids []int
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		pid, err := strconv.Atoi(fields[0])
		if err != nil || pid <= 0 {
			return nil, appErrors.New(appErrors.CodeParseFailed, fmt.Sprintf("unexpected pgrep output %q", scanner.Text()), err)
		}
		pids = append(pids, pid)
	}
	if err := scanner.Err(); err != nil {
		return nil, appErrors.New(appErrors.CodeParseFailed, "read pgrep output", err)
	}
	return pids, nil
}

// Signal delivers the reload signal to pid.
func (c *Client) Signal(ctx context.Context, pid int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.kill(pid, c.signal); err != nil {
		return appErrors.New(appErrors.CodeExternalCommandFailed,
			fmt.Sprintf("send %s to pid %d: %v", unix.SignalName(c.signal), pid, err), err)
	}
	c.logger.Debug().Int("pid", pid).Str("signal", unix.SignalName(c.signal)).Msg("signaled terminal")
	return nil
}

package telemetry

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"codeberg.org/mutker/ecopass/internal/errors"
)

// CommandRunner runs name with args and returns its standard output.
type CommandRunner func(ctx context.Context, name string, args ...string) ([]byte, error)

// CommandInspector shells out to uptime and ps. Both commands are read-only.
type CommandInspector struct {
	timeout time.Duration
	run     CommandRunner
}

func NewCommandInspector(timeout time.Duration) *CommandInspector {
	return NewCommandInspectorWithRunner(timeout, runCommand)
}

// NewCommandInspectorWithRunner is NewCommandInspector with a custom runner,
// mainly for tests.
func NewCommandInspectorWithRunner(timeout time.Duration, run CommandRunner) *CommandInspector {
	if timeout <= 0 {
		timeout = defaultCommandTimeout
	}

	return &CommandInspector{
		timeout: timeout,
		run:     run,
	}
}

func (c *CommandInspector) LoadAverage(ctx context.Context) (string, error) {
	out, err := c.exec(ctx, "uptime")
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(string(out)), nil
}

// ProcessCount counts the lines of "ps -A -o pid=", one per process. The
// empty column header keeps the output header-free on Linux and BSD alike.
func (c *CommandInspector) ProcessCount(ctx context.Context) (int, error) {
	out, err := c.exec(ctx, "ps", "-A", "-o", "pid=")
	if err != nil {
		return 0, err
	}

	count := 0
	scanner := bufio.NewScanner(bytes.NewReader(out))
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) != "" {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, errors.New().Wrap(ErrParseFailed, err)
	}

	return count, nil
}

func (c *CommandInspector) exec(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.run(ctx, name, args...)
	if err != nil {
		return nil, errors.New().Wrap(ErrCommandFailed, fmt.Errorf("%s: %w", name, err))
	}

	return out, nil
}

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

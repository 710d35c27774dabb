package plugin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"time"
)

// DefaultTimeout bounds a single plugin call.
const DefaultTimeout = time.Second

// ErrTimeout is returned when a plugin does not answer within the timeout.
var ErrTimeout = errors.New("plugin timed out")

// Executor runs plugin processes with a per-call timeout.
type Executor struct {
	timeout time.Duration
}

// NewExecutor creates an Executor with the given timeout.
func NewExecutor(timeout time.Duration) *Executor {
	return &Executor{
		timeout: timeout,
	}
}

// Timeout returns the per-call timeout.
func (e *Executor) Timeout() time.Duration {
	return e.timeout
}

// Execute runs plugin once: req is written to its stdin as JSON and its
// stdout is parsed as a Response. The call is bounded by ctx and the
// executor's timeout.
func (e *Executor) Execute(ctx context.Context, plugin *Plugin, req *Request) (*Response, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", req.Op, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, plugin.Executable)
	cmd.Dir = plugin.Path
	cmd.Stdin = bytes.NewReader(payload)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// Plugins that fork helpers must not hold the pipes open past the deadline.
	cmd.WaitDelay = time.Second

	runErr := cmd.Run()
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return nil, fmt.Errorf("%s %s after %s: %w", plugin.Manifest.Name, req.Op, e.timeout, ErrTimeout)
	case runErr != nil && stderr.Len() > 0:
		return nil, fmt.Errorf("%s %s: %w: %s", plugin.Manifest.Name, req.Op, runErr, bytes.TrimSpace(stderr.Bytes()))
	case runErr != nil:
		return nil, fmt.Errorf("%s %s: %w", plugin.Manifest.Name, req.Op, runErr)
	}

	var resp Response
	if err := json.Unmarshal(stdout.Bytes(), &resp); err != nil {
		return nil, fmt.Errorf("decode %s response %q: %w", plugin.Manifest.Name, stdout.String(), err)
	}
	return &resp, nil
}

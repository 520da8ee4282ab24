// Package modelcli implements core.ModelClient on top of a local model
// CLI (claude, gemini, or any compatible print-mode binary). The binary
// receives the user prompt on stdin and the system prompt via a flag,
// and writes the completion to stdout.
package modelcli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/hugo-lorenzo-mato/tutor-ai/internal/core"
	"github.com/hugo-lorenzo-mato/tutor-ai/internal/logging"
)

// Config holds client configuration.
type Config struct {
	// Name identifies the client in logs and diagnostics.
	Name string
	// Path is the CLI binary, possibly multi-word (e.g. "gh copilot").
	Path string
	// Model is passed via --model when set.
	Model string
	// Timeout is the default per-call timeout when the request carries none.
	Timeout time.Duration
	// WorkDir is the working directory for the subprocess.
	WorkDir string
	// ExtraEnv is applied on top of the current process environment.
	ExtraEnv map[string]string
}

// DefaultTimeout applies when neither the config nor the request set one.
const DefaultTimeout = 5 * time.Minute

// stderrTailBytes bounds how much stderr is attached to errors.
const stderrTailBytes = 2048

// Client runs completions through a CLI subprocess.
type Client struct {
	cfg    Config
	logger *logging.Logger
}

// New creates a CLI-backed model client.
func New(cfg Config, logger *logging.Logger) *Client {
	if cfg.Name == "" {
		cfg.Name = "claude"
	}
	if cfg.Path == "" {
		cfg.Path = cfg.Name
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Client{cfg: cfg, logger: logger.WithComponent("modelcli")}
}

var _ core.ModelClient = (*Client)(nil)

// Name returns the client identifier.
func (c *Client) Name() string {
	return c.cfg.Name
}

// Ping verifies the binary exists and responds to --version.
func (c *Client) Ping(ctx context.Context) error {
	binary, _ := c.command()
	if _, err := exec.LookPath(binary); err != nil {
		return core.ErrValidation("CLI_NOT_FOUND",
			fmt.Sprintf("model CLI %q not found in PATH", binary)).WithCause(err)
	}

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, binary, "--version")
	if err := cmd.Run(); err != nil {
		return core.ErrGeneration("CLI_UNAVAILABLE",
			fmt.Sprintf("model CLI %q did not respond", binary)).WithCause(err)
	}
	return nil
}

// Complete runs one request through the CLI and returns raw stdout.
func (c *Client) Complete(ctx context.Context, req core.CompletionRequest) (string, error) {
	timeout := req.Timeout
	if timeout == 0 {
		timeout = c.cfg.Timeout
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	binary, baseArgs := c.command()
	args := append(baseArgs, "--print")
	if c.cfg.Model != "" {
		args = append(args, "--model", c.cfg.Model)
	}
	if req.SystemPrompt != "" {
		args = append(args, "--system-prompt", req.SystemPrompt)
	}

	// #nosec G204 -- binary path and args come from validated config
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdin = strings.NewReader(req.UserPrompt)
	if c.cfg.WorkDir != "" {
		cmd.Dir = c.cfg.WorkDir
	}
	cmd.Env = os.Environ()
	for k, v := range c.cfg.ExtraEnv {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	c.logger.Debug("invoking model CLI",
		"binary", binary,
		"model", c.cfg.Model,
		"prompt_length", len(req.UserPrompt),
		"timeout", timeout,
	)

	start := time.Now()
	err := cmd.Run()
	duration := time.Since(start)

	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", core.ErrGeneration("CLI_TIMEOUT",
				fmt.Sprintf("model CLI timed out after %s", timeout)).WithCause(ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", core.ErrGeneration("CLI_FAILED",
				fmt.Sprintf("model CLI exited with code %d: %s",
					exitErr.ExitCode(), tail(stderr.String()))).WithCause(err)
		}
		return "", core.ErrGeneration("CLI_FAILED", "model CLI failed to run").WithCause(err)
	}

	output := strings.TrimSpace(stdout.String())
	if output == "" {
		return "", core.ErrGeneration("EMPTY_OUTPUT", "model CLI produced no output")
	}

	c.logger.Debug("model CLI completed",
		"binary", binary,
		"duration", duration,
		"output_length", len(output),
	)
	return output, nil
}

// command splits a multi-word path into binary and leading args.
func (c *Client) command() (string, []string) {
	parts := strings.Fields(c.cfg.Path)
	if len(parts) == 0 {
		return c.cfg.Name, nil
	}
	return parts[0], parts[1:]
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > stderrTailBytes {
		s = s[len(s)-stderrTailBytes:]
	}
	return s
}

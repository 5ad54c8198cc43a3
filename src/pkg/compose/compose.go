package compose

import (
	"context"
	"fmt"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

var logger = log.WithField("package", "compose")

// CommandRunner abstracts process execution so tests can fake the
// orchestrator and the tools run through it.
type CommandRunner interface {
	// CombinedOutput runs argv and returns stdout+stderr interleaved.
	// Diagnostic sections echo everything a tool prints, warnings included.
	CombinedOutput(ctx context.Context, argv []string) ([]byte, error)
}

// ExecRunner runs commands with os/exec.
type ExecRunner struct{}

var _ CommandRunner = (*ExecRunner)(nil)

func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (e *ExecRunner) CombinedOutput(ctx context.Context, argv []string) ([]byte, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("empty command")
	}
	logger.WithField("argv", argv).Debug("Running command...")
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("command %q failed: %w", argv[0], err)
	}
	return output, nil
}

// Orchestrator is the container-orchestrator surface the runner consumes:
// list services, fetch service logs, execute a command in a service container.
type Orchestrator interface {
	PS(ctx context.Context) (string, error)
	Logs(ctx context.Context, service string) (string, error)
	Exec(ctx context.Context, service string, argv ...string) (string, error)
}

// Client talks to docker compose, directly or through sudo.
type Client struct {
	runner      CommandRunner
	composeFile string

	// prefix is the resolved way to invoke compose, e.g.
	// ["docker", "compose"] or ["sudo", "-n", "docker", "compose"].
	prefix []string
}

var _ Orchestrator = (*Client)(nil)

func NewClient(runner CommandRunner, composeFile string) *Client {
	return &Client{
		runner:      runner,
		composeFile: composeFile,
	}
}

var (
	directPrefix = []string{"docker", "compose"}
	sudoPrefix   = []string{"sudo", "-n", "docker", "compose"}
)

// ResolvePrefix probes how compose can be reached: unprivileged first, then
// sudo with non-interactive auth. If neither probe succeeds the sudo form is
// kept anyway; the probe is best effort and the real commands will surface
// the actual failure.
func (c *Client) ResolvePrefix(ctx context.Context) {
	for _, prefix := range [][]string{directPrefix, sudoPrefix} {
		if _, err := c.runner.CombinedOutput(ctx, append(append([]string{}, prefix...), "version")); err == nil {
			c.prefix = prefix
			logger.WithField("prefix", prefix).Debug("Resolved compose prefix")
			return
		}
	}
	logger.Warn("Could not confirm compose reachability, falling back to sudo")
	c.prefix = sudoPrefix
}

// Prefix returns the resolved invocation prefix, resolving lazily with a
// background context if ResolvePrefix was never called.
func (c *Client) Prefix() []string {
	if c.prefix == nil {
		c.ResolvePrefix(context.Background())
	}
	return c.prefix
}

func (c *Client) command(args ...string) []string {
	argv := append([]string{}, c.Prefix()...)
	if c.composeFile != "" {
		argv = append(argv, "-f", c.composeFile)
	}
	return append(argv, args...)
}

func (c *Client) PS(ctx context.Context) (string, error) {
	output, err := c.runner.CombinedOutput(ctx, c.command("ps"))
	if err != nil {
		return string(output), fmt.Errorf("listing compose services: %w", err)
	}
	return string(output), nil
}

func (c *Client) Logs(ctx context.Context, service string) (string, error) {
	output, err := c.runner.CombinedOutput(ctx, c.command("logs", "--no-color", service))
	if err != nil {
		return string(output), fmt.Errorf("fetching logs of %s: %w", service, err)
	}
	return string(output), nil
}

// Exec runs argv inside the named service container. -T because there is no
// TTY when output is being captured.
func (c *Client) Exec(ctx context.Context, service string, argv ...string) (string, error) {
	full := c.command(append([]string{"exec", "-T", service}, argv...)...)
	output, err := c.runner.CombinedOutput(ctx, full)
	if err != nil {
		return string(output), fmt.Errorf("exec in %s: %w", service, err)
	}
	return string(output), nil
}

// StackManager is the surface the rebuild sequence consumes.
type StackManager interface {
	Down(ctx context.Context, removeOrphans bool) (string, error)
	Build(ctx context.Context, noCache bool, services ...string) (string, error)
	Up(ctx context.Context, detach bool, extraEnv ...string) (string, error)
	RemoveImage(ctx context.Context, image string) (string, error)
}

var _ StackManager = (*Client)(nil)

func (c *Client) Down(ctx context.Context, removeOrphans bool) (string, error) {
	args := []string{"down"}
	if removeOrphans {
		args = append(args, "--remove-orphans")
	}
	output, err := c.runner.CombinedOutput(ctx, c.command(args...))
	if err != nil {
		return string(output), fmt.Errorf("compose down: %w", err)
	}
	return string(output), nil
}

func (c *Client) Build(ctx context.Context, noCache bool, services ...string) (string, error) {
	args := []string{"build"}
	if noCache {
		args = append(args, "--no-cache")
	}
	args = append(args, services...)
	output, err := c.runner.CombinedOutput(ctx, c.command(args...))
	if err != nil {
		return string(output), fmt.Errorf("compose build: %w", err)
	}
	return string(output), nil
}

// Up brings the stack up. extraEnv entries ("KEY=value") are injected into
// the compose invocation, where the compose file interpolates them.
func (c *Client) Up(ctx context.Context, detach bool, extraEnv ...string) (string, error) {
	args := []string{"up"}
	if detach {
		args = append(args, "-d")
	}
	argv := injectEnv(c.command(args...), extraEnv)
	output, err := c.runner.CombinedOutput(ctx, argv)
	if err != nil {
		return string(output), fmt.Errorf("compose up: %w", err)
	}
	return string(output), nil
}

// RemoveImage runs docker rmi with the resolved privilege level.
func (c *Client) RemoveImage(ctx context.Context, image string) (string, error) {
	prefix := c.Prefix()
	// the prefix always ends in "compose"; strip it to get bare docker
	argv := append(append([]string{}, prefix[:len(prefix)-1]...), "rmi", image)
	output, err := c.runner.CombinedOutput(ctx, argv)
	if err != nil {
		return string(output), fmt.Errorf("removing image %s: %w", image, err)
	}
	return string(output), nil
}

// injectEnv places KEY=value pairs where the invoking command will honor
// them: after "sudo -n" (sudo accepts VAR=val arguments), otherwise in front
// of the whole command via env(1).
func injectEnv(argv []string, env []string) []string {
	if len(env) == 0 {
		return argv
	}
	if argv[0] == "sudo" {
		out := append([]string{}, argv[:2]...)
		out = append(out, env...)
		return append(out, argv[2:]...)
	}
	out := append([]string{"env"}, env...)
	return append(out, argv...)
}

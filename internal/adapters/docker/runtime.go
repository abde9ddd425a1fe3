// Package docker implements ports.ContainerRuntime by shelling out to a container engine CLI.
package docker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
	"github.com/renato0307/shellbox/internal/shellquote"
)

// DefaultEngine is the container engine binary used when none is configured
const DefaultEngine = "docker"

// LabelSession marks containers created by shellbox
const LabelSession = "shellbox.session"

// Runtime implements ports.ContainerRuntime using the engine's command-line interface
type Runtime struct {
	cancelled     atomic.Bool
	engine        string
	runner        ports.CommandRunner
	workspaceRoot string
}

// Compile-time interface verification
var _ ports.ContainerRuntime = (*Runtime)(nil)

// NewRuntime creates a Runtime that invokes engine (e.g. "docker" or "podman")
func NewRuntime(engine string, runner ports.CommandRunner, workspaceRoot string) *Runtime {
	if engine == "" {
		engine = DefaultEngine
	}
	return &Runtime{
		engine:        engine,
		runner:        runner,
		workspaceRoot: workspaceRoot,
	}
}

func (r *Runtime) run(ctx context.Context, args ...string) (string, error) {
	return r.runner.Run(ctx, nil, r.engine, args...)
}

// RunContainer starts a detached container kept alive by an idle foreground process
func (r *Runtime) RunContainer(ctx context.Context, image, name string) (string, error) {
	logging.Logger.Info("Starting container", "image", image, "name", name)

	args := []string{
		"run", "-d",
		"--name", name,
		"--label", LabelSession + "=" + name,
	}
	if r.workspaceRoot != "" {
		args = append(args, "-w", r.workspaceRoot)
	}
	args = append(args, "--entrypoint", "tail", image, "-f", "/dev/null")

	output, err := r.run(ctx, args...)
	if err != nil {
		return "", fmt.Errorf("starting container %s: %w", name, err)
	}

	containerID := strings.TrimSpace(lastLine(output))
	logging.Logger.Debug("Container started", "name", name, "id", containerID)
	return containerID, nil
}

// StartContainer restarts a stopped container
func (r *Runtime) StartContainer(ctx context.Context, name string) error {
	if _, err := r.run(ctx, "start", name); err != nil {
		return fmt.Errorf("starting container %s: %w", name, err)
	}
	return nil
}

// StopContainer stops a running container
func (r *Runtime) StopContainer(ctx context.Context, name string) error {
	if _, err := r.run(ctx, "stop", name); err != nil {
		return fmt.Errorf("stopping container %s: %w", name, err)
	}
	return nil
}

// RemoveContainer force-removes a container
func (r *Runtime) RemoveContainer(ctx context.Context, name string) error {
	if _, err := r.run(ctx, "rm", "-f", name); err != nil {
		return fmt.Errorf("removing container %s: %w", name, err)
	}
	return nil
}

// ContainerExists inspects the container. A missing container is (false, nil).
func (r *Runtime) ContainerExists(ctx context.Context, name string) (bool, error) {
	_, err := r.run(ctx, "inspect", "--format", "{{.Name}}", name)
	if err == nil {
		return true, nil
	}

	var cmdErr *domain.CommandError
	if errors.As(err, &cmdErr) && isNoSuchContainer(cmdErr.Detail) {
		return false, nil
	}
	return false, fmt.Errorf("inspecting container %s: %w", name, err)
}

// ListContainers lists containers whose name contains namePrefix
func (r *Runtime) ListContainers(ctx context.Context, namePrefix string) ([]ports.ContainerInfo, error) {
	args := []string{"ps", "-a", "--format", "{{.Names}}\t{{.Image}}\t{{.State}}\t{{.Status}}"}
	if namePrefix != "" {
		args = append(args, "--filter", "name="+namePrefix)
	}

	output, err := r.run(ctx, args...)
	if err != nil {
		return nil, fmt.Errorf("listing containers: %w", err)
	}
	return parseContainerList(output), nil
}

// EngineVersion returns the server version reported by the engine
func (r *Runtime) EngineVersion(ctx context.Context) (string, error) {
	output, err := r.run(ctx, "version", "--format", "{{.Server.Version}}")
	if err != nil {
		return "", fmt.Errorf("reading engine version: %w", err)
	}
	return strings.TrimSpace(output), nil
}

// ExecuteCommand runs argv inside the container without a shell
func (r *Runtime) ExecuteCommand(ctx context.Context, container string, command ...string) (string, error) {
	args := append([]string{"exec", container}, command...)
	return r.run(ctx, args...)
}

// ExecuteShell runs script with sh -c inside the container
func (r *Runtime) ExecuteShell(ctx context.Context, container, script string) (string, error) {
	return r.run(ctx, "exec", container, "sh", "-c", script)
}

// ExecuteShellStreaming runs script with a terminal attached and forwards output chunks as
// they arrive. The cancel flag is checked at every chunk boundary and after completion;
// once observed the call ends with domain.ErrExecutionCancelled.
func (r *Runtime) ExecuteShellStreaming(ctx context.Context, container, script string, onChunk func(chunk string)) (string, error) {
	r.cancelled.Store(false)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	output, err := r.runner.Stream(ctx, func(chunk string) {
		if r.cancelled.Load() {
			cancel()
			return
		}
		if onChunk != nil {
			onChunk(chunk)
		}
	}, r.engine, "exec", "-t", container, "sh", "-c", script)

	if r.cancelled.Load() {
		logging.Logger.Info("Streaming execution cancelled", "container", container)
		return output, domain.ErrExecutionCancelled
	}
	return output, err
}

// CancelCurrentExecution flags in-flight streaming calls for cancellation
func (r *Runtime) CancelCurrentExecution() {
	r.cancelled.Store(true)
}

// ListFiles returns the raw `ls -la` listing of path
func (r *Runtime) ListFiles(ctx context.Context, container, path string) (string, error) {
	return r.ExecuteCommand(ctx, container, "ls", "-la", "--", path)
}

// ReadFile returns the content of path
func (r *Runtime) ReadFile(ctx context.Context, container, path string) (string, error) {
	return r.ExecuteCommand(ctx, container, "cat", "--", path)
}

// WriteFile replaces the content of path, streaming content through stdin
func (r *Runtime) WriteFile(ctx context.Context, container, path, content string) error {
	_, err := r.runner.Run(ctx, strings.NewReader(content), r.engine,
		"exec", "-i", container, "sh", "-c", "cat > "+shellquote.Quote(path))
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// EnsureDirectory creates path and its parents
func (r *Runtime) EnsureDirectory(ctx context.Context, container, path string) error {
	if _, err := r.ExecuteCommand(ctx, container, "mkdir", "-p", "--", path); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	return nil
}

// Rename moves from to to
func (r *Runtime) Rename(ctx context.Context, container, from, to string) error {
	if _, err := r.ExecuteCommand(ctx, container, "mv", "--", from, to); err != nil {
		return fmt.Errorf("renaming %s: %w", from, err)
	}
	return nil
}

// Remove deletes path; directories require recursive
func (r *Runtime) Remove(ctx context.Context, container, path string, recursive bool) error {
	flags := "-f"
	if recursive {
		flags = "-rf"
	}
	if _, err := r.ExecuteCommand(ctx, container, "rm", flags, "--", path); err != nil {
		return fmt.Errorf("removing %s: %w", path, err)
	}
	return nil
}

// FileExists reports whether path exists in the container
func (r *Runtime) FileExists(ctx context.Context, container, path string) bool {
	_, err := r.ExecuteCommand(ctx, container, "test", "-e", path)
	return err == nil
}

func parseContainerList(output string) []ports.ContainerInfo {
	var containers []ports.ContainerInfo
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		info := ports.ContainerInfo{Name: fields[0]}
		if len(fields) > 1 {
			info.Image = fields[1]
		}
		if len(fields) > 2 {
			info.Running = fields[2] == "running"
		}
		if len(fields) > 3 {
			info.Status = fields[3]
		}
		containers = append(containers, info)
	}
	return containers
}

func isNoSuchContainer(output string) bool {
	lower := strings.ToLower(output)
	return strings.Contains(lower, "no such object") ||
		strings.Contains(lower, "no such container") ||
		strings.Contains(lower, "no container with name")
}

// lastLine returns the last non-empty line; `run -d` may print pull progress first
func lastLine(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	return lines[len(lines)-1]
}

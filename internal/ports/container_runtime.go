package ports

import "context"

// ContainerInfo is a row of the container engine's listing
type ContainerInfo struct {
	Image   string
	Name    string
	Running bool
	Status  string
}

// ContainerLifecycle provisions and tears down containers
type ContainerLifecycle interface {
	ContainerExists(ctx context.Context, name string) (bool, error)
	EngineVersion(ctx context.Context) (string, error)
	ListContainers(ctx context.Context, namePrefix string) ([]ContainerInfo, error)
	RemoveContainer(ctx context.Context, name string) error
	RunContainer(ctx context.Context, image, name string) (string, error)
	StartContainer(ctx context.Context, name string) error
	StopContainer(ctx context.Context, name string) error
}

// ContainerExecutor runs commands inside a running container
type ContainerExecutor interface {
	// CancelCurrentExecution sets a cooperative flag observed by in-flight streaming calls.
	// It does not kill the remote process.
	CancelCurrentExecution()
	ExecuteCommand(ctx context.Context, container string, command ...string) (string, error)
	ExecuteShell(ctx context.Context, container, script string) (string, error)
	ExecuteShellStreaming(ctx context.Context, container, script string, onChunk func(chunk string)) (string, error)
}

// ContainerFiles performs file operations inside a container.
// Paths are absolute container paths; confinement is the caller's job.
type ContainerFiles interface {
	EnsureDirectory(ctx context.Context, container, path string) error
	FileExists(ctx context.Context, container, path string) bool
	ListFiles(ctx context.Context, container, path string) (string, error)
	ReadFile(ctx context.Context, container, path string) (string, error)
	Remove(ctx context.Context, container, path string, recursive bool) error
	Rename(ctx context.Context, container, from, to string) error
	WriteFile(ctx context.Context, container, path, content string) error
}

// ContainerRuntime is the composite interface
type ContainerRuntime interface {
	ContainerExecutor
	ContainerFiles
	ContainerLifecycle
}

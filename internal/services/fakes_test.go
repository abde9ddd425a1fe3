package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/ports"
)

// fakeRuntime is an in-memory ports.ContainerRuntime.
// Shell scripts are answered by the first matching handler.
type fakeRuntime struct {
	mu sync.Mutex

	cancelCalls int
	containers  map[string]bool
	dirs        map[string]bool
	files       map[string]string
	handlers    []shellHandler
	listings    map[string]string
	scripts     []string
	writes      []string

	removeErr error
	runErr    error
}

type shellHandler struct {
	contains   string
	respond    func(script string, onChunk func(string)) (string, error)
	respondCtx func(ctx context.Context, script string) (string, error)
}

var _ ports.ContainerRuntime = (*fakeRuntime)(nil)

func newFakeRuntime() *fakeRuntime {
	return &fakeRuntime{
		containers: make(map[string]bool),
		dirs:       make(map[string]bool),
		files:      make(map[string]string),
		listings:   make(map[string]string),
	}
}

// on registers a canned response for scripts containing substr
func (f *fakeRuntime) on(substr, output string, err error) {
	f.handle(substr, func(string, func(string)) (string, error) { return output, err })
}

func (f *fakeRuntime) handle(substr string, respond func(script string, onChunk func(string)) (string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, shellHandler{contains: substr, respond: respond})
}

// handleCtx registers a response that sees the caller's context
func (f *fakeRuntime) handleCtx(substr string, respond func(ctx context.Context, script string) (string, error)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers = append(f.handlers, shellHandler{contains: substr, respondCtx: respond})
}

func (f *fakeRuntime) scriptsRun() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.scripts...)
}

func (f *fakeRuntime) lastScript() string {
	scripts := f.scriptsRun()
	if len(scripts) == 0 {
		return ""
	}
	return scripts[len(scripts)-1]
}

func (f *fakeRuntime) dispatch(ctx context.Context, script string, onChunk func(string)) (string, error) {
	f.mu.Lock()
	f.scripts = append(f.scripts, script)
	handlers := append([]shellHandler(nil), f.handlers...)
	f.mu.Unlock()

	for _, h := range handlers {
		if strings.Contains(script, h.contains) {
			if h.respondCtx != nil {
				return h.respondCtx(ctx, script)
			}
			return h.respond(script, onChunk)
		}
	}
	return "", nil
}

func (f *fakeRuntime) ContainerExists(ctx context.Context, name string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.containers[name]
	return ok, nil
}

func (f *fakeRuntime) EngineVersion(ctx context.Context) (string, error) {
	return "27.0.1", nil
}

func (f *fakeRuntime) ListContainers(ctx context.Context, namePrefix string) ([]ports.ContainerInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ports.ContainerInfo
	for name, running := range f.containers {
		if strings.HasPrefix(name, namePrefix) {
			out = append(out, ports.ContainerInfo{Name: name, Running: running})
		}
	}
	return out, nil
}

func (f *fakeRuntime) RemoveContainer(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.containers, name)
	return nil
}

func (f *fakeRuntime) RunContainer(ctx context.Context, image, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.runErr != nil {
		return "", f.runErr
	}
	f.containers[name] = true
	return "id-" + name, nil
}

func (f *fakeRuntime) StartContainer(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.containers[name]; !ok {
		return domain.NewCommandError("start", 1, "No such container: "+name)
	}
	f.containers[name] = true
	return nil
}

func (f *fakeRuntime) StopContainer(ctx context.Context, name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.containers[name]; ok {
		f.containers[name] = false
	}
	return nil
}

func (f *fakeRuntime) CancelCurrentExecution() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelCalls++
}

func (f *fakeRuntime) cancelled() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cancelCalls
}

func (f *fakeRuntime) ExecuteCommand(ctx context.Context, container string, command ...string) (string, error) {
	return f.dispatch(ctx, strings.Join(command, " "), nil)
}

func (f *fakeRuntime) ExecuteShell(ctx context.Context, container, script string) (string, error) {
	return f.dispatch(ctx, script, nil)
}

func (f *fakeRuntime) ExecuteShellStreaming(ctx context.Context, container, script string, onChunk func(chunk string)) (string, error) {
	return f.dispatch(ctx, script, onChunk)
}

func (f *fakeRuntime) EnsureDirectory(ctx context.Context, container, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dirs[path] = true
	return nil
}

func (f *fakeRuntime) FileExists(ctx context.Context, container, path string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, isFile := f.files[path]
	return isFile || f.dirs[path]
}

func (f *fakeRuntime) ListFiles(ctx context.Context, container, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	listing, ok := f.listings[path]
	if !ok {
		return "", domain.NewCommandError("ls", 2, fmt.Sprintf("ls: %s: No such file or directory", path))
	}
	return listing, nil
}

func (f *fakeRuntime) ReadFile(ctx context.Context, container, path string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	content, ok := f.files[path]
	if !ok {
		return "", domain.NewCommandError("cat", 1, "cat: "+path+": No such file or directory")
	}
	return content, nil
}

func (f *fakeRuntime) Remove(ctx context.Context, container, path string, recursive bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.files, path)
	delete(f.dirs, path)
	return nil
}

func (f *fakeRuntime) Rename(ctx context.Context, container, from, to string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if content, ok := f.files[from]; ok {
		delete(f.files, from)
		f.files[to] = content
	}
	return nil
}

func (f *fakeRuntime) WriteFile(ctx context.Context, container, path, content string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.writes = append(f.writes, path)
	f.files[path] = content
	return nil
}

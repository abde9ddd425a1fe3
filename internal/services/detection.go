package services

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/logging"
	"github.com/renato0307/shellbox/internal/ports"
	"github.com/renato0307/shellbox/internal/shellquote"
)

// DockerfileCommand builds and runs the repository's Dockerfile with the engine inside the container
const DockerfileCommand = "docker build -t shellbox-app . && docker run --rm shellbox-app"

const dockerProbeScript = "command -v docker >/dev/null 2>&1 && docker info >/dev/null 2>&1"

// DetectionService works out how to run the repository cloned in a session container
type DetectionService struct {
	buildConfig ports.BuildConfigStore
	profiles    ports.RunProfileStore
	root        string
	runtime     ports.ContainerRuntime
}

// NewDetectionService creates a new DetectionService
func NewDetectionService(
	runtime ports.ContainerRuntime,
	profiles ports.RunProfileStore,
	buildConfig ports.BuildConfigStore,
	root string,
) *DetectionService {
	if root == "" {
		root = DefaultWorkspaceRoot
	}
	return &DetectionService{
		buildConfig: buildConfig,
		profiles:    profiles,
		root:        root,
		runtime:     runtime,
	}
}

// DetectRunCommand returns the command to run the project. A saved run profile wins;
// otherwise marker files are probed in priority order and the first match is used.
func (s *DetectionService) DetectRunCommand(ctx context.Context, container, repoURL string) (string, error) {
	if s.profiles != nil && repoURL != "" {
		saved, err := s.profiles.Command(repoURL)
		if err != nil {
			return "", err
		}
		if saved = strings.TrimSpace(saved); saved != "" {
			logging.Logger.Debug("Using saved run profile", "repo", repoURL)
			return saved, nil
		}
	}

	cfg, err := s.buildConfig.Load()
	if err != nil {
		return "", err
	}

	exists := func(name string) bool {
		return s.runtime.FileExists(ctx, container, path.Join(s.root, name))
	}

	if exists("Dockerfile") && s.dockerAvailable(ctx, container) {
		return DockerfileCommand, nil
	}
	if exists("Package.swift") {
		return "swift run", nil
	}

	hasPom := exists("pom.xml")
	gradleFile := ""
	for _, name := range []string{"build.gradle", "build.gradle.kts"} {
		if exists(name) {
			gradleFile = name
			break
		}
	}

	// With both build files present the configured tool decides
	if hasPom && gradleFile != "" && cfg.BuildTool == domain.BuildToolGradle {
		return s.gradleCommand(ctx, container, gradleFile, cfg, exists), nil
	}
	if hasPom {
		return s.mavenCommand(ctx, container, cfg, exists), nil
	}
	if gradleFile != "" {
		return s.gradleCommand(ctx, container, gradleFile, cfg, exists), nil
	}

	if exists("package.json") {
		return "npm install && npm start", nil
	}
	if exists("main.py") {
		return "python3 main.py", nil
	}
	if exists("Main.java") {
		return withArgs("javac", cfg.CustomArgs) + " Main.java && java Main", nil
	}
	if exists("go.mod") {
		return "go run .", nil
	}

	return "", domain.ErrProjectTypeUnknown
}

// dockerAvailable probes for a reachable container engine inside the session container
func (s *DetectionService) dockerAvailable(ctx context.Context, container string) bool {
	_, err := s.runtime.ExecuteShell(ctx, container, dockerProbeScript)
	if err != nil {
		logging.Logger.Debug("Dockerfile found but no container engine inside the session", "container", container)
		return false
	}
	return true
}

func (s *DetectionService) mavenCommand(ctx context.Context, container string, cfg domain.BuildConfiguration, exists func(string) bool) string {
	tool := "mvn"
	if exists("mvnw") {
		tool = "./mvnw"
	}
	goal := "package"
	if s.isSpringBoot(ctx, container, "pom.xml") {
		goal = "spring-boot:run"
	}
	return withArgs(tool+" "+goal, cfg.CustomArgs)
}

func (s *DetectionService) gradleCommand(ctx context.Context, container, buildFile string, cfg domain.BuildConfiguration, exists func(string) bool) string {
	tool := "gradle"
	if exists("gradlew") {
		tool = "./gradlew"
	}
	task := "build"
	if s.isSpringBoot(ctx, container, buildFile) {
		task = "bootRun"
	}
	return withArgs(tool+" "+task, cfg.CustomArgs)
}

func (s *DetectionService) isSpringBoot(ctx context.Context, container, buildFile string) bool {
	content, err := s.runtime.ReadFile(ctx, container, path.Join(s.root, buildFile))
	if err != nil {
		logging.Logger.Debug("Failed to read build file", "file", buildFile, "error", err)
		return false
	}
	return strings.Contains(content, "spring-boot") || strings.Contains(content, "org.springframework.boot")
}

func withArgs(command string, args []string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + shellquote.Join(args)
}

// toolchainFor returns the toolchain a command needs installed, or "" when none is handled
func toolchainFor(command string) string {
	for _, word := range strings.FieldsFunc(command, func(r rune) bool {
		return r == ' ' || r == '&' || r == ';' || r == '|' || r == '(' || r == ')'
	}) {
		switch word {
		case "npm", "npx", "node", "yarn", "pnpm":
			return toolchainNode
		case "python", "python3", "pip", "pip3":
			return toolchainPython
		case "go":
			return toolchainGo
		}
	}
	return ""
}

const (
	toolchainGo     = "go"
	toolchainNode   = "node"
	toolchainPython = "python"
)

// toolchainBinary is probed with command -v before installing
var toolchainBinary = map[string]string{
	toolchainGo:     "go",
	toolchainNode:   "npm",
	toolchainPython: "python3",
}

// installScript installs a toolchain with whichever package manager the image has
func installScript(toolchain string) string {
	packages := map[string][2]string{
		toolchainGo:     {"go", "golang-go"},
		toolchainNode:   {"nodejs npm", "nodejs npm"},
		toolchainPython: {"python3 py3-pip", "python3 python3-pip"},
	}[toolchain]

	return fmt.Sprintf(`if command -v apk >/dev/null 2>&1; then apk add --no-cache %s
elif command -v apt-get >/dev/null 2>&1; then apt-get update && apt-get install -y --no-install-recommends %s
else echo "no supported package manager" >&2; exit 1
fi`, packages[0], packages[1])
}

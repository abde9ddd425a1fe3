package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renato0307/shellbox/internal/domain"
)

type memProfiles struct {
	commands map[string]string
	err      error
}

func (m *memProfiles) Command(repoURL string) (string, error) {
	return m.commands[repoURL], m.err
}

func (m *memProfiles) SetCommand(repoURL, command string) error {
	if m.commands == nil {
		m.commands = make(map[string]string)
	}
	m.commands[repoURL] = command
	return nil
}

func newDetection(rt *fakeRuntime, profiles *memProfiles, cfg domain.BuildConfiguration) *DetectionService {
	return NewDetectionService(rt, profiles, &staticBuildConfig{cfg: cfg}, "/workspace")
}

func withFiles(rt *fakeRuntime, files map[string]string) *fakeRuntime {
	for name, content := range files {
		rt.files["/workspace/"+name] = content
	}
	return rt
}

func TestDetectRunCommand_MarkerFiles(t *testing.T) {
	tests := []struct {
		name     string
		files    map[string]string
		expected string
	}{
		{"swift", map[string]string{"Package.swift": ""}, "swift run"},
		{"node", map[string]string{"package.json": "{}"}, "npm install && npm start"},
		{"python", map[string]string{"main.py": ""}, "python3 main.py"},
		{"plain java", map[string]string{"Main.java": ""}, "javac Main.java && java Main"},
		{"go", map[string]string{"go.mod": ""}, "go run ."},
		{"maven", map[string]string{"pom.xml": "<project/>"}, "mvn package"},
		{"maven wrapper spring", map[string]string{"pom.xml": "<artifactId>spring-boot-starter</artifactId>", "mvnw": ""}, "./mvnw spring-boot:run"},
		{"gradle", map[string]string{"build.gradle": ""}, "gradle build"},
		{"gradle kts wrapper spring", map[string]string{"build.gradle.kts": `id("org.springframework.boot")`, "gradlew": ""}, "./gradlew bootRun"},
		{"swift wins over node", map[string]string{"Package.swift": "", "package.json": "{}"}, "swift run"},
		{"node wins over python", map[string]string{"package.json": "{}", "main.py": ""}, "npm install && npm start"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := withFiles(newFakeRuntime(), tt.files)
			svc := newDetection(rt, &memProfiles{}, domain.DefaultBuildConfiguration())

			command, err := svc.DetectRunCommand(context.Background(), "c1", "https://github.com/acme/app")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, command)
		})
	}
}

func TestDetectRunCommand_Dockerfile(t *testing.T) {
	t.Run("engine available", func(t *testing.T) {
		rt := withFiles(newFakeRuntime(), map[string]string{"Dockerfile": "", "Package.swift": ""})
		svc := newDetection(rt, &memProfiles{}, domain.DefaultBuildConfiguration())

		command, err := svc.DetectRunCommand(context.Background(), "c1", "")
		require.NoError(t, err)
		assert.Equal(t, DockerfileCommand, command)
	})

	t.Run("engine missing falls through", func(t *testing.T) {
		rt := withFiles(newFakeRuntime(), map[string]string{"Dockerfile": "", "Package.swift": ""})
		rt.on("docker info", "", errors.New("docker: not found"))
		svc := newDetection(rt, &memProfiles{}, domain.DefaultBuildConfiguration())

		command, err := svc.DetectRunCommand(context.Background(), "c1", "")
		require.NoError(t, err)
		assert.Equal(t, "swift run", command)
	})
}

func TestDetectRunCommand_BothBuildFiles(t *testing.T) {
	files := map[string]string{"pom.xml": "", "build.gradle": ""}

	maven := domain.DefaultBuildConfiguration()
	maven.BuildTool = domain.BuildToolMaven
	gradle := domain.DefaultBuildConfiguration()
	gradle.BuildTool = domain.BuildToolGradle

	svc := newDetection(withFiles(newFakeRuntime(), files), &memProfiles{}, maven)
	command, err := svc.DetectRunCommand(context.Background(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "mvn package", command)

	svc = newDetection(withFiles(newFakeRuntime(), files), &memProfiles{}, gradle)
	command, err = svc.DetectRunCommand(context.Background(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "gradle build", command)
}

func TestDetectRunCommand_CustomArgs(t *testing.T) {
	cfg := domain.DefaultBuildConfiguration()
	cfg.CustomArgs = []string{"-DskipTests", "-Dname=a b"}

	svc := newDetection(withFiles(newFakeRuntime(), map[string]string{"pom.xml": ""}), &memProfiles{}, cfg)
	command, err := svc.DetectRunCommand(context.Background(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "mvn package '-DskipTests' '-Dname=a b'", command)

	svc = newDetection(withFiles(newFakeRuntime(), map[string]string{"Main.java": ""}), &memProfiles{}, cfg)
	command, err = svc.DetectRunCommand(context.Background(), "c1", "")
	require.NoError(t, err)
	assert.Equal(t, "javac '-DskipTests' '-Dname=a b' Main.java && java Main", command)
}

func TestDetectRunCommand_ProfileWins(t *testing.T) {
	repo := "https://github.com/acme/app"
	rt := withFiles(newFakeRuntime(), map[string]string{"package.json": "{}"})
	profiles := &memProfiles{commands: map[string]string{repo: "  make dev \n"}}
	svc := newDetection(rt, profiles, domain.DefaultBuildConfiguration())

	command, err := svc.DetectRunCommand(context.Background(), "c1", repo)
	require.NoError(t, err)
	assert.Equal(t, "make dev", command)

	// blank profile falls back to detection
	profiles.commands[repo] = "   "
	command, err = svc.DetectRunCommand(context.Background(), "c1", repo)
	require.NoError(t, err)
	assert.Equal(t, "npm install && npm start", command)
}

func TestDetectRunCommand_Unknown(t *testing.T) {
	svc := newDetection(newFakeRuntime(), &memProfiles{}, domain.DefaultBuildConfiguration())

	_, err := svc.DetectRunCommand(context.Background(), "c1", "")
	assert.ErrorIs(t, err, domain.ErrProjectTypeUnknown)
}

func TestDetectRunCommand_BuildConfigError(t *testing.T) {
	rt := withFiles(newFakeRuntime(), map[string]string{"main.py": ""})
	svc := NewDetectionService(rt, &memProfiles{}, &staticBuildConfig{err: errors.New("invalid build configuration")}, "")

	_, err := svc.DetectRunCommand(context.Background(), "c1", "")
	assert.ErrorContains(t, err, "invalid build configuration")
}

func TestToolchainFor(t *testing.T) {
	tests := []struct {
		command  string
		expected string
	}{
		{"npm install && npm start", "node"},
		{"python3 main.py", "python"},
		{"go run .", "go"},
		{"swift run", ""},
		{"mvn package", ""},
		{"cd web&&yarn dev", "node"},
		{"echo gopher", ""},
	}

	for _, tt := range tests {
		t.Run(tt.command, func(t *testing.T) {
			assert.Equal(t, tt.expected, toolchainFor(tt.command))
		})
	}
}

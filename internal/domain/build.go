package domain

// BuildTool selects how Java sources are built
type BuildTool string

const (
	BuildToolGradle BuildTool = "gradle"
	BuildToolJavac  BuildTool = "javac"
	BuildToolMaven  BuildTool = "maven"
)

// Valid reports whether t is a known build tool
func (t BuildTool) Valid() bool {
	switch t {
	case BuildToolGradle, BuildToolJavac, BuildToolMaven:
		return true
	}
	return false
}

// JDKImage describes the container image used for Java projects
type JDKImage struct {
	Image    string
	IsCustom bool
	Name     string
	Version  string
}

// BuildConfiguration is the persisted Java build selection
type BuildConfiguration struct {
	BuildTool   BuildTool
	CustomArgs  []string
	SelectedJDK JDKImage
}

// DefaultBuildConfiguration is used when no configuration file exists
func DefaultBuildConfiguration() BuildConfiguration {
	return BuildConfiguration{
		BuildTool:  BuildToolJavac,
		CustomArgs: []string{},
		SelectedJDK: JDKImage{
			Image:   "eclipse-temurin:17-jdk",
			Name:    "Eclipse Temurin 17",
			Version: "17",
		},
	}
}

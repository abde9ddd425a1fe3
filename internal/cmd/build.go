package cmd

import (
	"fmt"
	"strings"

	"github.com/renato0307/shellbox/internal/domain"
	"github.com/renato0307/shellbox/internal/theme"
)

// BuildCmd manages the Java build configuration
type BuildCmd struct {
	Set  BuildSetCmd  `cmd:"set" help:"Change the build configuration"`
	Show BuildShowCmd `cmd:"show" help:"Show the build configuration" default:"1"`
}

// BuildShowCmd prints the build configuration
type BuildShowCmd struct {
	Format string `help:"Output format: table or json" enum:"table,json" default:"table"`
}

// Run executes the show command
func (b *BuildShowCmd) Run(container *Container) error {
	cfg, err := container.BuildConfig.Load()
	if err != nil {
		return err
	}
	if b.Format == "json" {
		return printJSON(cfg)
	}

	label := func(s string) string { return theme.LabelStyle.Render(s) }
	fmt.Printf("%s %s\n", label("Build tool:"), cfg.BuildTool)
	jdk := cfg.SelectedJDK.Name
	if cfg.SelectedJDK.IsCustom {
		jdk += " (custom)"
	}
	fmt.Printf("%s %s\n", label("JDK:       "), jdk)
	fmt.Printf("%s %s\n", label("Image:     "), cfg.SelectedJDK.Image)
	fmt.Printf("%s %s\n", label("Version:   "), cfg.SelectedJDK.Version)
	fmt.Printf("%s %s\n", label("Arguments: "), strings.Join(cfg.CustomArgs, " "))
	return nil
}

// BuildSetCmd updates fields of the build configuration; unset flags keep their value
type BuildSetCmd struct {
	Arg        []string `help:"Extra argument for Maven, Gradle or javac (repeatable, use --arg=-X for dashed values)" sep:"none"`
	ClearArgs  bool     `help:"Remove every extra argument"`
	JdkImage   string   `help:"Container image used for Java repositories"`
	JdkName    string   `help:"Display name of the JDK"`
	JdkVersion string   `help:"JDK version"`
	Tool       string   `help:"Build tool" enum:",javac,maven,gradle" default:""`
}

// Run executes the set command
func (b *BuildSetCmd) Run(container *Container) error {
	cfg, err := container.BuildConfig.Load()
	if err != nil {
		return err
	}

	if b.Tool != "" {
		cfg.BuildTool = domain.BuildTool(b.Tool)
	}
	if b.JdkImage != "" {
		cfg.SelectedJDK.Image = b.JdkImage
		cfg.SelectedJDK.IsCustom = true
	}
	if b.JdkName != "" {
		cfg.SelectedJDK.Name = b.JdkName
	}
	if b.JdkVersion != "" {
		cfg.SelectedJDK.Version = b.JdkVersion
	}
	if b.ClearArgs {
		cfg.CustomArgs = []string{}
	}
	cfg.CustomArgs = append(cfg.CustomArgs, b.Arg...)

	if err := container.BuildConfig.Save(cfg); err != nil {
		return err
	}
	fmt.Println("Build configuration saved")
	return nil
}

package cmd

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/renato0307/shellbox/internal/config"
	"github.com/renato0307/shellbox/internal/logging"
)

// CLI represents the command-line interface structure
type CLI struct {
	Version     kong.VersionFlag `help:"Show version information"`
	Debug       bool             `help:"Enable debug logging to file" short:"d"`
	DebugFile   string           `help:"Custom path for debug log file (disables automatic cleanup)"`
	MaxLogFiles int              `help:"Maximum number of log files to keep (0 = unlimited)" default:"1000"`

	Auth      AuthCmd      `cmd:"auth" help:"Manage the GitHub access token"`
	Build     BuildCmd     `cmd:"build" help:"Show or change the Java build configuration"`
	Files     FilesCmd     `cmd:"files" help:"Browse and edit files inside a session"`
	Git       GitCmd       `cmd:"git" help:"Source control inside a session"`
	Logs      LogsCmd      `cmd:"logs" help:"Show or export diagnostics and app logs"`
	Profile   ProfileCmd   `cmd:"profile" help:"Manage per-repository run commands"`
	Repos     ReposCmd     `cmd:"repos" help:"List GitHub repositories"`
	Run       RunCmd       `cmd:"run" help:"Detect and run the project inside a session"`
	Sessions  SessionsCmd  `cmd:"sessions" help:"Manage sessions (list, add, start, stop, del, prune)"`
	Settings  SettingsCmd  `cmd:"settings" help:"Manage settings (meta)"`
	Telemetry TelemetryCmd `cmd:"telemetry" help:"Show local run statistics"`

	// Internal fields (not flags)
	Container *Container       `kong:"-"`
	logStore  *logging.Store   `kong:"-"`
	settings  *config.Settings `kong:"-"`
}

// SetSettings sets the settings on the CLI struct
func (c *CLI) SetSettings(settings *config.Settings) {
	c.settings = settings
}

// AfterApply initializes logging after CLI parsing and applies settings
func (c *CLI) AfterApply(kctx *kong.Context) error {
	if c.settings == nil {
		c.settings = &config.Settings{}
	}

	// Precedence: CLI flags > env vars > settings.json > defaults
	if c.MaxLogFiles == config.DefaultMaxLogFiles {
		if _, hasEnv := os.LookupEnv("SHELLBOX_MAX_LOG_FILES"); !hasEnv {
			c.MaxLogFiles = c.settings.LogFiles()
		}
	}
	if !c.Debug {
		if _, hasEnv := os.LookupEnv("SHELLBOX_DEBUG"); !hasEnv {
			if c.settings.Debug != nil && *c.settings.Debug {
				c.Debug = true
			}
		}
	}

	// The store exists regardless of debug mode so failures can always be exported
	c.logStore = logging.NewStore(logging.DefaultStoreCapacity)
	if _, err := logging.Initialize(c.Debug, c.DebugFile, c.MaxLogFiles, c.logStore); err != nil {
		return err
	}

	// Create container AFTER logging is initialized so GORM's logger has somewhere to write
	container, err := NewContainer(c.settings, c.logStore)
	if err != nil {
		return fmt.Errorf("failed to initialize container: %w", err)
	}
	c.Container = container
	kctx.Bind(container)

	return nil
}

// Close closes all resources held by the CLI
func (c *CLI) Close() error {
	if c.Container != nil {
		return c.Container.Close()
	}
	return nil
}

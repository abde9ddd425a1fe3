package config

import (
	"os"
	"path/filepath"
)

// GetShellboxHome returns SHELLBOX_HOME or ~/.shellbox default
func GetShellboxHome() string {
	home := os.Getenv("SHELLBOX_HOME")
	if home == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return ".shellbox"
		}
		return filepath.Join(homeDir, ".shellbox")
	}
	return ExpandPath(home)
}

// GetSettingsPath returns $SHELLBOX_HOME/settings.json
func GetSettingsPath() string {
	return filepath.Join(GetShellboxHome(), "settings.json")
}

// GetBuildConfigPath returns $SHELLBOX_HOME/build-config.json
func GetBuildConfigPath() string {
	return filepath.Join(GetShellboxHome(), "build-config.json")
}

// GetRunProfilesPath returns $SHELLBOX_HOME/run-profiles.json
func GetRunProfilesPath() string {
	return filepath.Join(GetShellboxHome(), "run-profiles.json")
}

// GetSessionsPath returns $SHELLBOX_HOME/sessions.json
func GetSessionsPath() string {
	return filepath.Join(GetShellboxHome(), "sessions.json")
}

// GetTelemetryDBPath returns $SHELLBOX_HOME/telemetry.db
func GetTelemetryDBPath() string {
	return filepath.Join(GetShellboxHome(), "telemetry.db")
}

// GetCredentialsPath returns $SHELLBOX_HOME/credentials.json
func GetCredentialsPath() string {
	return filepath.Join(GetShellboxHome(), "credentials.json")
}

// ExpandPath expands ~ to home directory
func ExpandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			if len(path) == 1 {
				return homeDir
			}
			return filepath.Join(homeDir, path[1:])
		}
	}
	return path
}

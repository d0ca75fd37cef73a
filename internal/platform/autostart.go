package platform

import (
	"fmt"
	"os"
	"strings"
)

// Autostart registers the application to launch when the user logs in.
type Autostart struct {
	appName  string
	execPath func() (string, error)
}

// NewAutostart returns an Autostart for the running executable.
func NewAutostart(appName string) *Autostart {
	return &Autostart{appName: appName, execPath: os.Executable}
}

// Set enables or disables launch at login. Disabling an entry that does not
// exist is not an error.
func (autostart *Autostart) Set(enabled bool) error {
	if strings.TrimSpace(autostart.appName) == "" {
		return fmt.Errorf("autostart: app name is empty")
	}
	if !enabled {
		return autostart.disable()
	}
	execPath, err := autostart.execPath()
	if err != nil {
		return fmt.Errorf("autostart: resolve executable: %w", err)
	}
	if execPath == "" {
		return fmt.Errorf("autostart: exec path is empty")
	}
	return autostart.enable(execPath)
}

// configDir returns the OS-standard configuration directory.
func configDir() (string, error) {
	dir, err := os.UserConfigDir()
	if err == nil && dir != "" {
		return dir, nil
	}

	homeDir, homeErr := os.UserHomeDir()
	if homeErr != nil {
		if err != nil {
			return "", fmt.Errorf("get config dir: %w", err)
		}
		return "", fmt.Errorf("get config dir: %w", homeErr)
	}
	return fallbackConfigDir(homeDir), nil
}

func slug(appName string) string {
	name := strings.ToLower(strings.TrimSpace(appName))
	return strings.ReplaceAll(name, " ", "-")
}

//go:build windows

package log

import (
	"os"
	"path/filepath"
)

func defaultDir() (string, error) {
	appData := os.Getenv("LOCALAPPDATA")
	if appData == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		appData = filepath.Join(home, "AppData", "Local")
	}
	return filepath.Join(appData, "murmur", "logs"), nil
}

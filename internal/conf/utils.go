package conf

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/picturedesk/picturedesk/internal/errors"
)

// GetDefaultConfigPaths returns the directories searched for config.yaml. If
// one of them already holds a config.yaml only that directory is returned.
func GetDefaultConfigPaths() ([]string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, errors.New(err).
			Category(errors.CategorySystem).
			Context("operation", "get-home-directory").
			Build()
	}

	var configPaths []string
	switch runtime.GOOS {
	case "windows":
		configPaths = []string{filepath.Join(homeDir, "AppData", "Roaming", "picturedesk")}
	case "darwin":
		configPaths = []string{filepath.Join(homeDir, "Library", "Application Support", "picturedesk")}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", "picturedesk"),
			"/etc/picturedesk",
		}
	}

	for _, path := range configPaths {
		if _, err := os.Stat(filepath.Join(path, "config.yaml")); err == nil {
			return []string{path}, nil
		}
	}

	return configPaths, nil
}

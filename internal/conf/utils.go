// conf/utils.go various util functions for configuration package
package conf

import (
	"os"
	"path/filepath"
	"runtime"

	"github.com/tphakala/smartwaste/internal/errors"
)

const appDirName = "smartwaste"

// GetDefaultConfigPaths returns the directories searched for config.yaml. If a
// config file already exists in one of them, only that directory is returned.
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
		exePath, err := os.Executable()
		if err != nil {
			return nil, errors.New(err).
				Category(errors.CategorySystem).
				Context("operation", "get-executable-path").
				Build()
		}
		configPaths = []string{
			filepath.Dir(exePath),
			filepath.Join(homeDir, "AppData", "Roaming", appDirName),
		}
	default:
		configPaths = []string{
			filepath.Join(homeDir, ".config", appDirName),
			"/etc/" + appDirName,
		}
	}

	for _, path := range configPaths {
		if _, err := os.Stat(filepath.Join(path, "config.yaml")); err == nil {
			return []string{path}, nil
		}
	}

	return configPaths, nil
}

// GetBasePath resolves a relative path against the first config directory and
// makes sure its parent directory exists.
func GetBasePath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if !filepath.IsAbs(path) {
		configPaths, err := GetDefaultConfigPaths()
		if err != nil {
			return "", err
		}
		path = filepath.Join(configPaths[0], path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", errors.New(err).
			Category(errors.CategoryFileIO).
			Context("operation", "create-base-directory").
			Build()
	}
	return path, nil
}

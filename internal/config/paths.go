// Package config provides configuration management for sweep and chronicler.
package config

import (
	"os"
	"path/filepath"
	"runtime"
)

// Paths holds all the path configurations for the sweep toolset.
type Paths struct {
	// ConfigDir is the directory for configuration files (~/.config/sweep).
	ConfigDir string

	// DataDir is the directory for data files (~/.local/share/sweep),
	// including chronicler's history database.
	DataDir string

	// CacheDir is the directory for cache files (~/.cache/sweep).
	CacheDir string
}

// DefaultPaths returns the default paths based on XDG Base Directory spec.
// On Windows, it uses %APPDATA% instead.
func DefaultPaths() *Paths {
	home := homeDir()

	if runtime.GOOS == "windows" {
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(home, "AppData", "Roaming")
		}
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			localAppData = filepath.Join(home, "AppData", "Local")
		}

		return &Paths{
			ConfigDir: filepath.Join(appData, "sweep"),
			DataDir:   filepath.Join(localAppData, "sweep"),
			CacheDir:  filepath.Join(localAppData, "sweep", "cache"),
		}
	}

	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = filepath.Join(home, ".config")
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(home, ".local", "share")
	}

	cacheHome := os.Getenv("XDG_CACHE_HOME")
	if cacheHome == "" {
		cacheHome = filepath.Join(home, ".cache")
	}

	return &Paths{
		ConfigDir: filepath.Join(configHome, "sweep"),
		DataDir:   filepath.Join(dataHome, "sweep"),
		CacheDir:  filepath.Join(cacheHome, "sweep"),
	}
}

// ConfigFile returns the path to the main configuration file.
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// ChroniclerDB returns the default path to chronicler's SQLite database.
func (p *Paths) ChroniclerDB() string {
	return filepath.Join(p.DataDir, "chronicler", "history.db")
}

// LogFile returns the default path to the picker's diagnostic log.
func (p *Paths) LogFile() string {
	return filepath.Join(p.CacheDir, "sweep.log")
}

// EnsureDirectories creates all necessary directories.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.ConfigDir, p.DataDir, p.CacheDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

func homeDir() string {
	if home, err := os.UserHomeDir(); err == nil && home != "" {
		return home
	}
	return "."
}

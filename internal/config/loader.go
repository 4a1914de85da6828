package config

import (
	"os"
	"path/filepath"
)

// devFile is read from the working directory by development builds.
const devFile = ".photoeditrc"

// Loader finds and reads the configuration file.
type Loader struct {
	Version      string // build version; "dev" also checks the working directory
	OverridePath string // set at build time to pin a location
}

// NewLoader creates a new Loader.
func NewLoader(version string, overridePath string) *Loader {
	return &Loader{
		Version:      version,
		OverridePath: overridePath,
	}
}

// Load reads the first configuration file found, or returns the defaults
// when there is none.
func (l *Loader) Load() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

func userDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "photoedit")
}

// DefaultPath is where `config save` writes when no file exists yet.
func DefaultPath() string {
	return filepath.Join(userDir(), "config.rc")
}

// Save writes cfg to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(cfg.String()), 0o644)
}

// candidates lists the locations searched, most specific first.
func (l *Loader) candidates() []string {
	var paths []string
	if l.OverridePath != "" {
		paths = append(paths, l.OverridePath)
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			paths = append(paths, filepath.Join(wd, devFile))
		}
	}
	return append(paths, DefaultPath(), filepath.Join(userDir(), "photoedit.rc"))
}

// GetConfigPath returns the first existing configuration file, or "" when
// none exists.
func (l *Loader) GetConfigPath() string {
	for _, p := range l.candidates() {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

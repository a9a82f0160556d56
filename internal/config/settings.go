package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Settings are the service-level options loaded from a YAML file.
type Settings struct {
	// ListenAddr is the HTTP bind address, e.g. ":8080".
	ListenAddr string `yaml:"listen_addr"`
	// DataDir holds the SQLite database.
	DataDir string `yaml:"data_dir"`
	// MediaDir holds reference images and check-in thumbnails.
	MediaDir string `yaml:"media_dir"`
	// FontPath points to a TTF used for annotation labels. Optional; when
	// empty the renderer draws outlines and icons only.
	FontPath string `yaml:"font_path"`
	// LogMode selects the zap profile: "dev" or "prod".
	LogMode string `yaml:"log_mode"`
}

// DefaultSettings returns the settings used when no config file is given.
func DefaultSettings() Settings {
	return Settings{
		ListenAddr: ":8080",
		DataDir:    "data",
		MediaDir:   "data/media",
		LogMode:    "dev",
	}
}

// LoadSettings reads settings from a YAML file, filling unset fields with
// defaults. An unset media_dir derives from data_dir.
func LoadSettings(path string) (Settings, error) {
	var s Settings

	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultSettings(), fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse config %s: %w", path, err)
	}
	if s.ListenAddr == "" {
		s.ListenAddr = ":8080"
	}
	if s.DataDir == "" {
		s.DataDir = "data"
	}
	if s.MediaDir == "" {
		s.MediaDir = filepath.Join(s.DataDir, "media")
	}
	if s.LogMode == "" {
		s.LogMode = "dev"
	}
	return s, nil
}

// EnsureDirs creates the data and media directories.
func (s Settings) EnsureDirs() error {
	for _, dir := range []string{s.DataDir, s.MediaDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("create dir %s: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the SQLite file location.
func (s Settings) DatabasePath() string {
	return filepath.Join(s.DataDir, "toolcheck.db")
}

// Package config holds compiler-wide constants and the user-editable
// settings file the CLI and server both load at startup.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Version is the current snakec version, set at build time via
// -ldflags the way the teacher repo sets its own Version var.
var Version = "0.1.0"

const SourceFileExt = ".snek"

// SourceFileExtensions are all recognized source file extensions.
var SourceFileExtensions = []string{".snek", ".snake"}

// TrimSourceExt removes any recognized source extension from a filename.
func TrimSourceExt(name string) string {
	for _, ext := range SourceFileExtensions {
		if len(name) >= len(ext) && name[len(name)-len(ext):] == ext {
			return name[:len(name)-len(ext)]
		}
	}
	return name
}

// HasSourceExt reports whether path ends with a recognized source extension.
func HasSourceExt(path string) bool {
	for _, ext := range SourceFileExtensions {
		if len(path) >= len(ext) && path[len(path)-len(ext):] == ext {
			return true
		}
	}
	return false
}

// Settings is the on-disk (YAML) configuration for the CLI and the
// gRPC compile server: where to cache compiled assembly and which
// host/port the server binds to.
type Settings struct {
	CacheDir   string `yaml:"cache_dir"`
	ServerAddr string `yaml:"server_addr"`
}

// DefaultSettings mirrors the zero-config path a fresh checkout runs with.
func DefaultSettings() Settings {
	return Settings{
		CacheDir:   ".snakec-cache",
		ServerAddr: "127.0.0.1:7420",
	}
}

// Load reads a YAML settings file, falling back to DefaultSettings
// when path does not exist.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &s); err != nil {
		return s, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return s, nil
}

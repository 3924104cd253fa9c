package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadTiming loads the timing tiers.
// Search order: customPath -> ~/.blockfall/configs/timing.yaml -> ./configs/timing.yaml -> embedded default
//
// An explicit path must exist and parse. Candidates further down the list
// are skipped when unreadable or malformed. The returned file is validated:
// a tier with a missing or out-of-range field is an error, never a silent
// fallback to another source.
func LoadTiming(customPath string) (TimingFile, string, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return TimingFile{}, "", fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		cfg, err := ParseTiming(data)
		if err != nil {
			return TimingFile{}, "", fmt.Errorf("config: %s: %w", customPath, err)
		}
		return cfg, customPath, nil
	}

	candidates := []string{userConfigPath("timing.yaml"), filepath.Join("configs", "timing.yaml")}
	for _, path := range candidates {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var cfg TimingFile
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			continue
		}
		if err := cfg.Validate(); err != nil {
			return TimingFile{}, "", fmt.Errorf("config: %s: %w", path, err)
		}
		return cfg, path, nil
	}

	cfg, err := ParseTiming(defaultTimingYAML)
	if err != nil {
		return DefaultTimingFile(), "builtin", nil
	}
	return cfg, "embedded", nil
}

// ParseTiming decodes and validates a timing.yaml document.
func ParseTiming(data []byte) (TimingFile, error) {
	var cfg TimingFile
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return TimingFile{}, fmt.Errorf("failed to parse timing: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return TimingFile{}, err
	}
	return cfg, nil
}

// MarshalTiming encodes tiers back to YAML.
func MarshalTiming(f TimingFile) ([]byte, error) {
	return yaml.Marshal(f)
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".blockfall", "configs", filename)
}

package config

import (
	_ "embed"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

//go:embed defaults/timing.yaml
var defaultTimingYAML []byte

// DefaultTimingFile returns the built-in tiers without touching YAML.
func DefaultTimingFile() TimingFile {
	return TimingFile{
		Classic:  SpecFromModel(core.ClassicTiming()),
		Hardcore: SpecFromModel(core.HardcoreTiming()),
	}
}

// DefaultTimingYAML returns the embedded timing.yaml.
func DefaultTimingYAML() []byte {
	return defaultTimingYAML
}

package config

import (
	"fmt"
	"strings"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// Tier names a timing model in timing.yaml.
type Tier string

const (
	TierClassic  Tier = "classic"
	TierHardcore Tier = "hardcore"
)

// Tiers lists the known tiers in display order.
var Tiers = []Tier{TierClassic, TierHardcore}

// ResolveTier maps a difficulty level to a tier: levels 1 to 3 play classic,
// level 4 plays hardcore, and anything else falls back to classic.
func ResolveTier(level int) Tier {
	if level == 4 {
		return TierHardcore
	}
	return TierClassic
}

// TierByName parses a tier name case-insensitively.
func TierByName(name string) (Tier, error) {
	switch Tier(strings.ToLower(strings.TrimSpace(name))) {
	case TierClassic, "":
		return TierClassic, nil
	case TierHardcore:
		return TierHardcore, nil
	default:
		return "", fmt.Errorf("config: %w: %q", ErrUnknownTier, name)
	}
}

// Spec returns the raw entry for a tier.
func (f TimingFile) Spec(t Tier) (TimingSpec, error) {
	switch t {
	case TierClassic:
		return f.Classic, nil
	case TierHardcore:
		return f.Hardcore, nil
	default:
		return TimingSpec{}, fmt.Errorf("config: %w: %q", ErrUnknownTier, t)
	}
}

// Model returns the validated timing model for a tier.
func (f TimingFile) Model(t Tier) (core.TimingModel, error) {
	spec, err := f.Spec(t)
	if err != nil {
		return core.TimingModel{}, err
	}
	m, err := spec.Model()
	if err != nil {
		return core.TimingModel{}, fmt.Errorf("tier %s: %w", t, err)
	}
	return m, nil
}

// Validate checks every tier in the file.
func (f TimingFile) Validate() error {
	for _, t := range Tiers {
		if _, err := f.Model(t); err != nil {
			return err
		}
	}
	return nil
}

// Package config provides YAML-based timing-model configuration for the
// blockfall tiers, with embedded defaults and a user override search path.
package config

import (
	"errors"
	"fmt"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// ErrMissingField is wrapped when a tier omits a required timing field.
var ErrMissingField = errors.New("missing timing field")

// ErrUnknownTier is wrapped when a tier name cannot be resolved.
var ErrUnknownTier = errors.New("unknown tier")

// TimingSpec is the YAML form of core.TimingModel. Every field is a pointer
// so that an omitted key is detected instead of silently becoming zero.
type TimingSpec struct {
	DASMs              *float64 `yaml:"das_ms"`
	ARRMs              *float64 `yaml:"arr_ms"`
	IRSEnabled         *bool    `yaml:"irs_enabled"`
	IHSEnabled         *bool    `yaml:"ihs_enabled"`
	StrictDAS          *bool    `yaml:"strict_das"`
	LockDelayMs        *float64 `yaml:"lock_delay_ms"`
	LockResetOnMove    *bool    `yaml:"lock_reset_on_move"`
	LockResetOnRotate  *bool    `yaml:"lock_reset_on_rotate"`
	MaxLockResets      *int     `yaml:"max_lock_resets"` // null or absent: unlimited
	GravityMs          *float64 `yaml:"gravity_ms"`
	SoftDropMultiplier *float64 `yaml:"soft_drop_multiplier"`
}

// TimingFile is the layout of timing.yaml.
type TimingFile struct {
	Classic  TimingSpec `yaml:"classic"`
	Hardcore TimingSpec `yaml:"hardcore"`
}

// Model converts the spec to a validated core.TimingModel.
func (s TimingSpec) Model() (core.TimingModel, error) {
	var m core.TimingModel

	floats := []struct {
		name string
		src  *float64
		dst  *float64
	}{
		{"das_ms", s.DASMs, &m.DASMs},
		{"arr_ms", s.ARRMs, &m.ARRMs},
		{"lock_delay_ms", s.LockDelayMs, &m.LockDelayMs},
		{"gravity_ms", s.GravityMs, &m.GravityMs},
		{"soft_drop_multiplier", s.SoftDropMultiplier, &m.SoftDropMultiplier},
	}
	for _, f := range floats {
		if f.src == nil {
			return core.TimingModel{}, fmt.Errorf("config: %w: %s", ErrMissingField, f.name)
		}
		*f.dst = *f.src
	}

	flags := []struct {
		name string
		src  *bool
		dst  *bool
	}{
		{"irs_enabled", s.IRSEnabled, &m.IRSEnabled},
		{"ihs_enabled", s.IHSEnabled, &m.IHSEnabled},
		{"lock_reset_on_move", s.LockResetOnMove, &m.LockResetOnMove},
		{"lock_reset_on_rotate", s.LockResetOnRotate, &m.LockResetOnRotate},
	}
	for _, f := range flags {
		if f.src == nil {
			return core.TimingModel{}, fmt.Errorf("config: %w: %s", ErrMissingField, f.name)
		}
		*f.dst = *f.src
	}

	// strict_das is an opt-in extension; absent means off.
	if s.StrictDAS != nil {
		m.StrictDAS = *s.StrictDAS
	}

	m.MaxLockResets = core.UnlimitedLockResets
	if s.MaxLockResets != nil {
		m.MaxLockResets = *s.MaxLockResets
	}

	if err := m.Validate(); err != nil {
		return core.TimingModel{}, fmt.Errorf("config: %w", err)
	}
	return m, nil
}

// SpecFromModel is the inverse of TimingSpec.Model. An unlimited reset cap
// is written as null.
func SpecFromModel(m core.TimingModel) TimingSpec {
	s := TimingSpec{
		DASMs:              &m.DASMs,
		ARRMs:              &m.ARRMs,
		IRSEnabled:         &m.IRSEnabled,
		IHSEnabled:         &m.IHSEnabled,
		StrictDAS:          &m.StrictDAS,
		LockDelayMs:        &m.LockDelayMs,
		LockResetOnMove:    &m.LockResetOnMove,
		LockResetOnRotate:  &m.LockResetOnRotate,
		GravityMs:          &m.GravityMs,
		SoftDropMultiplier: &m.SoftDropMultiplier,
	}
	if m.MaxLockResets != core.UnlimitedLockResets {
		s.MaxLockResets = &m.MaxLockResets
	}
	return s
}

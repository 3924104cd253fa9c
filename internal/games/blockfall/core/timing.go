package core

import (
	"errors"
	"fmt"
	"math"
)

// UnlimitedLockResets disables the lock-reset cap.
const UnlimitedLockResets = -1

// ErrInvalidTiming is wrapped by every TimingModel validation failure.
var ErrInvalidTiming = errors.New("invalid timing model")

// TimingModel is the per-run timing configuration, selected by difficulty
// tier and applied once through Kernel.Configure. All durations are in
// milliseconds.
type TimingModel struct {
	DASMs       float64
	ARRMs       float64
	IRSEnabled  bool
	IHSEnabled  bool
	StrictDAS   bool // no free first move while charging
	LockDelayMs float64

	LockResetOnMove   bool
	LockResetOnRotate bool
	// MaxLockResets caps lock-timer resets per grounding;
	// UnlimitedLockResets removes the cap.
	MaxLockResets int

	GravityMs          float64
	SoftDropMultiplier float64
}

// ClassicTiming is the default tier.
func ClassicTiming() TimingModel {
	return TimingModel{
		DASMs:              150,
		ARRMs:              30,
		IRSEnabled:         true,
		IHSEnabled:         true,
		LockDelayMs:        500,
		LockResetOnMove:    true,
		LockResetOnRotate:  true,
		MaxLockResets:      15,
		GravityMs:          800,
		SoftDropMultiplier: 20,
	}
}

// HardcoreTiming is the strict-DAS competitive tier.
func HardcoreTiming() TimingModel {
	return TimingModel{
		DASMs:              120,
		ARRMs:              0,
		IRSEnabled:         true,
		IHSEnabled:         true,
		StrictDAS:          true,
		LockDelayMs:        300,
		LockResetOnMove:    true,
		LockResetOnRotate:  true,
		MaxLockResets:      8,
		GravityMs:          400,
		SoftDropMultiplier: 20,
	}
}

// Validate checks every field and reports the first violation.
func (t TimingModel) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"das_ms", t.DASMs},
		{"arr_ms", t.ARRMs},
		{"lock_delay_ms", t.LockDelayMs},
		{"gravity_ms", t.GravityMs},
		{"soft_drop_multiplier", t.SoftDropMultiplier},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidTiming, f.name, f.v)
		}
	}

	switch {
	case t.DASMs < 0:
		return fmt.Errorf("%w: das_ms must be >= 0, got %v", ErrInvalidTiming, t.DASMs)
	case t.ARRMs < 0:
		return fmt.Errorf("%w: arr_ms must be >= 0, got %v", ErrInvalidTiming, t.ARRMs)
	case t.LockDelayMs <= 0:
		return fmt.Errorf("%w: lock_delay_ms must be > 0, got %v", ErrInvalidTiming, t.LockDelayMs)
	case t.MaxLockResets < UnlimitedLockResets:
		return fmt.Errorf("%w: max_lock_resets must be >= 0 or unlimited, got %d", ErrInvalidTiming, t.MaxLockResets)
	case t.GravityMs <= 0:
		return fmt.Errorf("%w: gravity_ms must be > 0, got %v", ErrInvalidTiming, t.GravityMs)
	case t.SoftDropMultiplier < 1:
		return fmt.Errorf("%w: soft_drop_multiplier must be >= 1, got %v", ErrInvalidTiming, t.SoftDropMultiplier)
	}
	return nil
}

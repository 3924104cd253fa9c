package core_test

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

func TestBuiltInTimingModelsAreValid(t *testing.T) {
	require.NoError(t, core.ClassicTiming().Validate())
	require.NoError(t, core.HardcoreTiming().Validate())
}

func TestTimingValidate(t *testing.T) {
	testCases := []struct {
		name   string
		mutate func(*core.TimingModel)
		field  string
	}{
		{"negative das", func(m *core.TimingModel) { m.DASMs = -1 }, "das_ms"},
		{"negative arr", func(m *core.TimingModel) { m.ARRMs = -0.5 }, "arr_ms"},
		{"zero lock delay", func(m *core.TimingModel) { m.LockDelayMs = 0 }, "lock_delay_ms"},
		{"bad reset cap", func(m *core.TimingModel) { m.MaxLockResets = -2 }, "max_lock_resets"},
		{"zero gravity", func(m *core.TimingModel) { m.GravityMs = 0 }, "gravity_ms"},
		{"soft drop below one", func(m *core.TimingModel) { m.SoftDropMultiplier = 0.5 }, "soft_drop_multiplier"},
		{"nan das", func(m *core.TimingModel) { m.DASMs = math.NaN() }, "das_ms"},
		{"infinite arr", func(m *core.TimingModel) { m.ARRMs = math.Inf(1) }, "arr_ms"},
		{"nan lock delay", func(m *core.TimingModel) { m.LockDelayMs = math.NaN() }, "lock_delay_ms"},
		{"infinite lock delay", func(m *core.TimingModel) { m.LockDelayMs = math.Inf(1) }, "lock_delay_ms"},
		{"infinite gravity", func(m *core.TimingModel) { m.GravityMs = math.Inf(1) }, "gravity_ms"},
		{"nan gravity", func(m *core.TimingModel) { m.GravityMs = math.NaN() }, "gravity_ms"},
		{"infinite soft drop", func(m *core.TimingModel) { m.SoftDropMultiplier = math.Inf(1) }, "soft_drop_multiplier"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := core.ClassicTiming()
			tc.mutate(&m)
			err := m.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, core.ErrInvalidTiming))
			assert.Contains(t, err.Error(), tc.field)
		})
	}
}

func TestTimingZeroARRAndUnlimitedResetsAreValid(t *testing.T) {
	m := core.ClassicTiming()
	m.ARRMs = 0
	m.DASMs = 0
	m.MaxLockResets = core.UnlimitedLockResets
	assert.NoError(t, m.Validate())
}

func TestLockDelayExpiresAtDelay(t *testing.T) {
	l := core.NewLockDelay(core.ClassicTiming())

	assert.False(t, l.Advance(1000), "airborne pieces never expire")
	require.True(t, l.Ground())
	assert.False(t, l.Ground(), "already grounded")

	assert.False(t, l.Advance(499))
	assert.True(t, l.Advance(1))
	assert.Equal(t, core.Grounded, l.State().Phase)
}

func TestLockDelayResetCap(t *testing.T) {
	m := core.ClassicTiming()
	m.MaxLockResets = 2
	l := core.NewLockDelay(m)
	l.Ground()

	l.Advance(100)
	assert.True(t, l.OnMove())
	assert.Zero(t, l.State().TimerMs)
	l.Advance(100)
	assert.True(t, l.OnRotate())
	l.Advance(100)
	assert.False(t, l.OnMove(), "cap reached")

	st := l.State()
	assert.Equal(t, 2, st.ResetCount)
	assert.Equal(t, 100.0, st.TimerMs)
}

func TestLockDelayUnlimitedResets(t *testing.T) {
	m := core.ClassicTiming()
	m.MaxLockResets = core.UnlimitedLockResets
	l := core.NewLockDelay(m)
	l.Ground()

	for i := 0; i < 1000; i++ {
		l.Advance(400)
		require.True(t, l.OnMove(), "reset %d", i)
	}
	assert.False(t, l.Expired())
}

func TestLockDelayResetFlags(t *testing.T) {
	m := core.ClassicTiming()
	m.LockResetOnMove = false
	l := core.NewLockDelay(m)
	l.Ground()
	l.Advance(200)

	assert.False(t, l.OnMove())
	assert.True(t, l.OnRotate())
	assert.Equal(t, 1, l.State().ResetCount)
}

func TestLockDelayNoResetWhileAirborne(t *testing.T) {
	l := core.NewLockDelay(core.ClassicTiming())
	assert.False(t, l.OnMove())
	assert.False(t, l.OnRotate())
	assert.Zero(t, l.State().ResetCount)
}

func TestLockDelayLiftDiscardsState(t *testing.T) {
	l := core.NewLockDelay(core.ClassicTiming())
	l.Ground()
	l.Advance(300)
	l.OnMove()
	l.Lift()

	assert.Equal(t, core.LockState{Phase: core.Airborne}, l.State())
	require.True(t, l.Ground())
	assert.Zero(t, l.State().ResetCount)
}

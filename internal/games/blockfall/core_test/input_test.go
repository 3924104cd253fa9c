package core_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// track is a one-dimensional stand-in for the board: moves succeed while
// the position stays within [lo, hi].
type track struct {
	pos, lo, hi int
}

func (tr *track) move(dx int) bool {
	next := tr.pos + dx
	if next < tr.lo || next > tr.hi {
		return false
	}
	tr.pos = next
	return true
}

func TestInputDASThenARR(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming()) // das 150, arr 30
	tr := &track{lo: -100, hi: 100}

	in.KeyDown(core.KeyLeft)

	assert.Equal(t, 1, in.Update(100, 10, tr.move), "free first move while charging")
	assert.Equal(t, core.InputCharging, in.State().Phase)

	// 200ms total: DAS fires once, 50ms carries into ARR and fires once more.
	assert.Equal(t, 2, in.Update(100, 10, tr.move))
	assert.Equal(t, core.InputRepeating, in.State().Phase)

	// 20 + 100 = 120ms of ARR budget: four repeats.
	assert.Equal(t, 4, in.Update(100, 10, tr.move))
	assert.Equal(t, -7, tr.pos)
}

func TestInputNoRepeatBeforeDAS(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming())
	tr := &track{lo: -100, hi: 100}

	in.KeyDown(core.KeyRight)
	total := 0
	for i := 0; i < 9; i++ {
		total += in.Update(16, 10, tr.move)
	}
	assert.Equal(t, 1, total, "only the first-tick move before 150ms")

	total += in.Update(16, 10, tr.move)
	assert.Equal(t, 2, total, "DAS fires at 160ms")
}

func TestInputStrictDASWithInstantARR(t *testing.T) {
	in := core.NewInputTiming(core.HardcoreTiming()) // das 120, arr 0, strict
	tr := &track{hi: 4}

	in.KeyDown(core.KeyRight)
	assert.Zero(t, in.Update(100, 10, tr.move), "strict DAS has no first-tick move")
	assert.Equal(t, 4, in.Update(100, 10, tr.move), "instant ARR shifts to the wall")
	assert.Zero(t, in.Update(16, 10, tr.move))
	assert.Equal(t, 4, tr.pos)
}

func TestInputInstantARRBoundedByMaxShift(t *testing.T) {
	in := core.NewInputTiming(core.HardcoreTiming())
	tr := &track{lo: -100, hi: 100}

	in.KeyDown(core.KeyLeft)
	in.Update(200, 10, tr.move)
	assert.Equal(t, -10, tr.pos)
}

func TestInputFailedRepeatClearsARRTimer(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming())
	tr := &track{lo: -1}

	in.KeyDown(core.KeyLeft)
	in.Update(100, 10, tr.move)
	in.Update(100, 10, tr.move)

	assert.Equal(t, -1, tr.pos)
	assert.Zero(t, in.State().ARRTimerMs)
}

func TestInputKeyUpStopsShift(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming())
	tr := &track{lo: -100, hi: 100}

	in.KeyDown(core.KeyLeft)
	in.Update(200, 10, tr.move)
	in.KeyUp(core.KeyLeft)

	assert.Equal(t, core.InputIdle, in.State().Phase)
	assert.Zero(t, in.Update(500, 10, tr.move))
}

func TestInputOppositeKeyWhileActiveIsIgnored(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming())

	in.KeyDown(core.KeyLeft)
	in.KeyDown(core.KeyRight)
	assert.Equal(t, -1, in.State().ActiveDirection)

	in.KeyUp(core.KeyRight)
	assert.Equal(t, -1, in.State().ActiveDirection, "releasing the inactive key changes nothing")

	in.KeyUp(core.KeyLeft)
	assert.Equal(t, 0, in.State().ActiveDirection)
}

func TestInputSoftDropIsLevelTriggered(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming())
	assert.False(t, in.SoftDrop())

	in.KeyDown(core.KeySoftDrop)
	in.EndTick()
	assert.True(t, in.SoftDrop())

	in.KeyUp(core.KeySoftDrop)
	assert.False(t, in.SoftDrop())
}

func TestInputRotateBuffering(t *testing.T) {
	testCases := []struct {
		name       string
		irs        bool
		afterTick  int
		bufferedUp bool
	}{
		{"irs keeps request across ticks", true, 1, true},
		{"without irs request expires", false, 0, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			m := core.ClassicTiming()
			m.IRSEnabled = tc.irs
			in := core.NewInputTiming(m)

			in.KeyDown(core.KeyRotateCW)
			assert.Equal(t, 1, in.PendingRotate())
			assert.Equal(t, tc.bufferedUp, in.State().BufferedRotate != 0)

			in.EndTick()
			assert.Equal(t, tc.afterTick, in.PendingRotate())
		})
	}
}

func TestInputConsumeClearsRequests(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming())

	in.KeyDown(core.KeyRotateCCW)
	in.KeyDown(core.KeyHold)
	in.KeyDown(core.KeyHardDrop)

	assert.Equal(t, -1, in.ConsumeRotate())
	assert.Zero(t, in.ConsumeRotate())
	assert.True(t, in.ConsumeHold())
	assert.False(t, in.PendingHold())
	assert.True(t, in.ConsumeHardDrop())
	assert.False(t, in.ConsumeHardDrop())
}

func TestInputHardDropExpiresAtEndOfTick(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming())
	in.KeyDown(core.KeyHardDrop)
	in.EndTick()
	assert.False(t, in.ConsumeHardDrop())
}

func TestInputConfigureClearsTimers(t *testing.T) {
	in := core.NewInputTiming(core.ClassicTiming())
	tr := &track{lo: -100, hi: 100}
	in.KeyDown(core.KeyLeft)
	in.KeyDown(core.KeyHold)
	in.Update(200, 10, tr.move)

	in.Configure(core.HardcoreTiming())

	st := in.State()
	assert.Equal(t, core.InputIdle, st.Phase)
	assert.False(t, st.BufferedHold)
	assert.Zero(t, st.DASTimerMs)
}

func TestKeyNamesRoundTrip(t *testing.T) {
	for k := core.KeyLeft; k <= core.KeyHardDrop; k++ {
		got, ok := core.ParseKey(k.String())
		assert.True(t, ok)
		assert.Equal(t, k, got)
	}
	_, ok := core.ParseKey("jump")
	assert.False(t, ok)
}

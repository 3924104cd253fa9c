package replay

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

func scripted(tick uint64) core.Input {
	switch tick % 41 {
	case 2:
		return core.Input{Pressed: []core.Key{core.KeyLeft}}
	case 9:
		return core.Input{Released: []core.Key{core.KeyLeft}, Pressed: []core.Key{core.KeyRotateCW}}
	case 14:
		return core.Input{Pressed: []core.Key{core.KeyRight, core.KeyHold}}
	case 20:
		return core.Input{Released: []core.Key{core.KeyRight}, Pressed: []core.Key{core.KeySoftDrop}}
	case 27:
		return core.Input{Released: []core.Key{core.KeySoftDrop}}
	case 33:
		return core.Input{Pressed: []core.Key{core.KeyHardDrop}}
	}
	return core.Input{}
}

// record plays ticks with the scripted input and returns the sealed log.
func record(t *testing.T, opts core.Options, ticks uint64) (Log, *core.Kernel) {
	t.Helper()
	k, err := core.New(opts)
	require.NoError(t, err)

	rec := NewRecorder(opts, "classic", 16)
	for i := uint64(1); i <= ticks; i++ {
		in := scripted(i)
		delta := 16.0
		if i%100 == 0 {
			delta = 33
		}
		k.Update(delta, in)
		rec.Record(k.Tick(), delta, in)
	}
	return rec.Finish(k.Snapshot()), k
}

func TestRecorderSkipsIdleTicks(t *testing.T) {
	opts := core.DefaultOptions()
	rec := NewRecorder(opts, "classic", 16)

	rec.Record(1, 16, core.Input{})
	rec.Record(2, 16, core.Input{Pressed: []core.Key{core.KeyHold}})
	rec.Record(3, 20, core.Input{})
	rec.Record(4, 0, core.Input{})

	assert.Equal(t, 3, rec.Frames())
	l := rec.log
	assert.Equal(t, uint64(4), l.Ticks)
	assert.Equal(t, []string{"hold"}, l.Frames[0].Pressed)
	assert.Equal(t, 20.0, l.Frames[1].DeltaMs)
	assert.Equal(t, -1.0, l.Frames[2].DeltaMs)
}

func TestReplayReproducesRun(t *testing.T) {
	opts := core.DefaultOptions()
	opts.Seed = 42
	l, k := record(t, opts, 2500)

	require.NotNil(t, l.Final)
	assert.Positive(t, l.Final.PiecesLocked)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, l))
	decoded, err := Decode(&buf)
	require.NoError(t, err)

	got, err := Verify(decoded)
	require.NoError(t, err)
	assert.Equal(t, *l.Final, got)

	replayed, err := Simulate(decoded)
	require.NoError(t, err)
	assert.Equal(t, k.Snapshot(), replayed.Snapshot())
}

func TestReplayDetectsTampering(t *testing.T) {
	opts := core.DefaultOptions()
	l, _ := record(t, opts, 1200)

	for i, f := range l.Frames {
		if len(f.Pressed) > 0 && f.Pressed[0] == "left" {
			l.Frames[i].Pressed = []string{"right"}
		}
	}

	_, err := Verify(l)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMismatch))
}

func TestReplayCarriesTimingModel(t *testing.T) {
	opts := core.DefaultOptions()
	opts.Timing = core.HardcoreTiming()
	opts.Timing.MaxLockResets = core.UnlimitedLockResets
	l, _ := record(t, opts, 300)

	data, err := Marshal(l)
	require.NoError(t, err)
	assert.Contains(t, string(data), "strict_das: true")

	decoded, err := Unmarshal(data)
	require.NoError(t, err)
	got, err := decoded.Options()
	require.NoError(t, err)
	assert.Equal(t, opts, got)
}

func TestDecodeRejectsOtherVersions(t *testing.T) {
	_, err := Decode(strings.NewReader("version: 7\nseed: 1\n"))
	assert.True(t, errors.Is(err, ErrVersion))

	l, _ := record(t, core.DefaultOptions(), 10)
	l.RandVersion = core.RandVersion + 1
	_, err = Simulate(l)
	assert.True(t, errors.Is(err, ErrVersion))
}

func TestSimulateRejectsBadFrames(t *testing.T) {
	base, _ := record(t, core.DefaultOptions(), 100)

	testCases := []struct {
		name   string
		mutate func(*Log)
	}{
		{"unknown key", func(l *Log) { l.Frames = []Frame{{Tick: 3, Pressed: []string{"jump"}}} }},
		{"tick zero", func(l *Log) { l.Frames = []Frame{{Tick: 0}} }},
		{"past the end", func(l *Log) { l.Frames = []Frame{{Tick: l.Ticks + 1}} }},
		{"duplicate", func(l *Log) { l.Frames = []Frame{{Tick: 5}, {Tick: 5}} }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := base
			tc.mutate(&l)
			_, err := Simulate(l)
			assert.True(t, errors.Is(err, ErrBadFrame), "got %v", err)
		})
	}
}

func TestBoardRows(t *testing.T) {
	k, err := core.New(core.DefaultOptions())
	require.NoError(t, err)
	k.HardDrop()

	rows := BoardRows(k.BoardSnapshot())
	require.Len(t, rows, 20)
	assert.Equal(t, "....ZZ....", rows[18])
	assert.Equal(t, ".....ZZ...", rows[19])
	assert.Equal(t, strings.Repeat(".", 10), rows[0])
}

func TestSimulateWithObservesEveryEvent(t *testing.T) {
	l, k := record(t, core.DefaultOptions(), 600)

	var locked, spawned int
	_, err := SimulateWith(l, func(e core.Event) {
		switch e.Kind {
		case core.EventPieceLocked:
			locked++
		case core.EventPieceSpawned:
			spawned++
		}
	})
	require.NoError(t, err)

	assert.Equal(t, k.Snapshot().PiecesLocked, locked)
	assert.GreaterOrEqual(t, spawned, locked+1, "first spawn is included")
}

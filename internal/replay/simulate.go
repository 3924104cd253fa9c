package replay

import (
	"fmt"
	"slices"

	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// Simulate replays the log on a fresh kernel and returns it after the last
// recorded tick.
func Simulate(l Log) (*core.Kernel, error) {
	return SimulateWith(l, nil)
}

// SimulateWith is Simulate with every kernel event passed to observe,
// starting with the first spawn.
func SimulateWith(l Log, observe func(core.Event)) (*core.Kernel, error) {
	opts, err := l.Options()
	if err != nil {
		return nil, err
	}
	k, err := core.New(opts)
	if err != nil {
		return nil, fmt.Errorf("replay: %w", err)
	}

	frames := make(map[uint64]Frame, len(l.Frames))
	for _, f := range l.Frames {
		if f.Tick == 0 || f.Tick > l.Ticks {
			return nil, fmt.Errorf("replay: %w: tick %d outside 1..%d", ErrBadFrame, f.Tick, l.Ticks)
		}
		if _, dup := frames[f.Tick]; dup {
			return nil, fmt.Errorf("replay: %w: duplicate tick %d", ErrBadFrame, f.Tick)
		}
		frames[f.Tick] = f
	}

	emit := func(evs []core.Event) {
		if observe == nil {
			return
		}
		for _, e := range evs {
			observe(e)
		}
	}
	emit(k.DrainEvents())

	for tick := uint64(1); tick <= l.Ticks; tick++ {
		delta := l.DeltaMs
		var in core.Input
		if f, ok := frames[tick]; ok {
			if in, err = f.Input(); err != nil {
				return nil, err
			}
			switch {
			case f.DeltaMs < 0:
				delta = 0
			case f.DeltaMs > 0:
				delta = f.DeltaMs
			}
		}
		emit(k.Update(delta, in).Events)
	}
	return k, nil
}

// Verify re-simulates the log and compares the outcome with the recorded
// Final. It returns the re-simulated state either way.
func Verify(l Log) (Final, error) {
	k, err := Simulate(l)
	if err != nil {
		return Final{}, err
	}
	got := FinalFromSnapshot(k.Snapshot())
	if l.Final == nil {
		return got, nil
	}
	want := *l.Final
	switch {
	case got.Tick != want.Tick:
		return got, fmt.Errorf("replay: %w: tick %d, recorded %d", ErrMismatch, got.Tick, want.Tick)
	case got.PiecesLocked != want.PiecesLocked:
		return got, fmt.Errorf("replay: %w: %d pieces locked, recorded %d", ErrMismatch, got.PiecesLocked, want.PiecesLocked)
	case got.LinesCleared != want.LinesCleared:
		return got, fmt.Errorf("replay: %w: %d lines, recorded %d", ErrMismatch, got.LinesCleared, want.LinesCleared)
	case got.TopOut != want.TopOut:
		return got, fmt.Errorf("replay: %w: top-out %q, recorded %q", ErrMismatch, got.TopOut, want.TopOut)
	case !slices.Equal(got.Board, want.Board):
		return got, fmt.Errorf("replay: %w: board differs", ErrMismatch)
	}
	return got, nil
}

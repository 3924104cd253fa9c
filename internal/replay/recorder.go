package replay

import (
	"github.com/vovakirdan/blockfall/internal/config"
	"github.com/vovakirdan/blockfall/internal/games/blockfall/core"
)

// Recorder accumulates frames while a host drives a kernel. Call Record
// after every Kernel.Update with the same arguments.
type Recorder struct {
	log Log
}

// NewRecorder starts a log for a kernel built from opts.
func NewRecorder(opts core.Options, tier string, deltaMs float64) *Recorder {
	return &Recorder{log: Log{
		Version:     Version,
		RandVersion: core.RandVersion,
		Seed:        opts.Seed,
		Tier:        tier,
		Width:       opts.Width,
		Height:      opts.Height,
		Timing:      config.SpecFromModel(opts.Timing),
		DeltaMs:     deltaMs,
	}}
}

// Record stores the input of tick. Idle ticks at the default delta only
// advance the tick count.
func (r *Recorder) Record(tick uint64, deltaMs float64, in core.Input) {
	r.log.Ticks = tick
	if len(in.Pressed) == 0 && len(in.Released) == 0 && !in.SoftDrop && deltaMs == r.log.DeltaMs {
		return
	}
	f := Frame{
		Tick:     tick,
		Pressed:  keyNames(in.Pressed),
		Released: keyNames(in.Released),
		SoftDrop: in.SoftDrop,
	}
	if deltaMs != r.log.DeltaMs {
		f.DeltaMs = deltaMs
		if deltaMs == 0 {
			f.DeltaMs = -1 // zero-length tick; 0 means "default"
		}
	}
	r.log.Frames = append(r.log.Frames, f)
}

// Frames returns the number of stored frames.
func (r *Recorder) Frames() int {
	return len(r.log.Frames)
}

// Finish seals the log with the kernel's end state.
func (r *Recorder) Finish(s core.Snapshot) Log {
	final := FinalFromSnapshot(s)
	out := r.log
	out.Ticks = s.Tick
	out.Final = &final
	out.Frames = append([]Frame(nil), r.log.Frames...)
	return out
}

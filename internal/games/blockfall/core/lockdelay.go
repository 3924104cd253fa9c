package core

// LockPhase is the lock-delay state of the active piece.
type LockPhase int

const (
	Airborne LockPhase = iota
	Grounded
)

func (p LockPhase) String() string {
	if p == Grounded {
		return "grounded"
	}
	return "airborne"
}

// LockState is a read-only view of the lock-delay machine.
type LockState struct {
	Phase      LockPhase
	TimerMs    float64
	ResetCount int
}

// LockDelay tracks how long the active piece has rested on something and
// decides when it must commit. Reaching the delay is a hard timeout.
type LockDelay struct {
	delayMs       float64
	resetOnMove   bool
	resetOnRotate bool
	maxResets     int

	grounded   bool
	timerMs    float64
	resetCount int
}

// NewLockDelay returns a machine configured from t.
func NewLockDelay(t TimingModel) *LockDelay {
	l := &LockDelay{}
	l.Configure(t)
	return l
}

// Configure applies a timing model and clears any running timer.
func (l *LockDelay) Configure(t TimingModel) {
	l.delayMs = t.LockDelayMs
	l.resetOnMove = t.LockResetOnMove
	l.resetOnRotate = t.LockResetOnRotate
	l.maxResets = t.MaxLockResets
	l.Reset()
}

// Reset returns to Airborne with a cleared timer and reset count.
func (l *LockDelay) Reset() {
	l.grounded = false
	l.timerMs = 0
	l.resetCount = 0
}

// Ground enters Grounded if the piece was airborne. It reports whether
// this call started a new grounding.
func (l *LockDelay) Ground() bool {
	if l.grounded {
		return false
	}
	l.grounded = true
	l.timerMs = 0
	l.resetCount = 0
	return true
}

// Lift returns to Airborne, discarding the timer.
func (l *LockDelay) Lift() {
	if l.grounded {
		l.Reset()
	}
}

// Advance adds elapsed grounded time and reports whether the piece must
// commit now.
func (l *LockDelay) Advance(deltaMs float64) bool {
	if !l.grounded {
		return false
	}
	l.timerMs += deltaMs
	return l.Expired()
}

// Expired reports whether the grounded timer has reached the delay.
func (l *LockDelay) Expired() bool {
	return l.grounded && l.timerMs >= l.delayMs
}

// OnMove is called after a successful horizontal move. It reports whether
// the timer was reset.
func (l *LockDelay) OnMove() bool {
	if !l.grounded || !l.resetOnMove {
		return false
	}
	return l.tryReset()
}

// OnRotate is called after a successful rotation. It reports whether the
// timer was reset.
func (l *LockDelay) OnRotate() bool {
	if !l.grounded || !l.resetOnRotate {
		return false
	}
	return l.tryReset()
}

func (l *LockDelay) tryReset() bool {
	if l.maxResets != UnlimitedLockResets && l.resetCount >= l.maxResets {
		return false
	}
	l.timerMs = 0
	l.resetCount++
	return true
}

// State returns a snapshot of the machine.
func (l *LockDelay) State() LockState {
	phase := Airborne
	if l.grounded {
		phase = Grounded
	}
	return LockState{Phase: phase, TimerMs: l.timerMs, ResetCount: l.resetCount}
}

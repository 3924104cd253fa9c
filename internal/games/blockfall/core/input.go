package core

// Key is a logical kernel input. Hosts translate physical keys into these.
type Key int

const (
	KeyLeft Key = iota
	KeyRight
	KeySoftDrop
	KeyRotateCW
	KeyRotateCCW
	KeyHold
	KeyHardDrop
)

func (k Key) String() string {
	switch k {
	case KeyLeft:
		return "left"
	case KeyRight:
		return "right"
	case KeySoftDrop:
		return "soft_drop"
	case KeyRotateCW:
		return "rotate_cw"
	case KeyRotateCCW:
		return "rotate_ccw"
	case KeyHold:
		return "hold"
	case KeyHardDrop:
		return "hard_drop"
	default:
		return "unknown"
	}
}

// ParseKey is the inverse of Key.String.
func ParseKey(s string) (Key, bool) {
	for k := KeyLeft; k <= KeyHardDrop; k++ {
		if k.String() == s {
			return k, true
		}
	}
	return 0, false
}

// InputPhase is the horizontal auto-shift state.
type InputPhase int

const (
	InputIdle InputPhase = iota
	InputCharging
	InputRepeating
)

func (p InputPhase) String() string {
	switch p {
	case InputCharging:
		return "charging"
	case InputRepeating:
		return "repeating"
	default:
		return "idle"
	}
}

// InputState is a read-only view of the input controller.
type InputState struct {
	Phase           InputPhase
	ActiveDirection int // -1 left, 1 right, 0 none
	DASTimerMs      float64
	ARRTimerMs      float64
	BufferedRotate  int // -1 counter-clockwise, 1 clockwise, 0 none
	BufferedHold    bool
	SoftDrop        bool
}

// InputTiming resolves delayed auto-shift and auto-repeat for horizontal
// movement, the level-triggered soft drop, and one-shot rotate/hold
// requests. It is mutated only by key edges and Update.
type InputTiming struct {
	dasMs  float64
	arrMs  float64
	irs    bool
	ihs    bool
	strict bool

	leftHeld  bool
	rightHeld bool
	downHeld  bool

	active    int
	repeating bool
	firstTick bool
	dasTimer  float64
	arrTimer  float64

	bufferedRotate int
	bufferedHold   bool

	// Requests valid for the current tick only, used when IRS/IHS are off.
	directRotate int
	directHold   bool
	hardDrop     bool
}

// NewInputTiming returns a controller configured from t.
func NewInputTiming(t TimingModel) *InputTiming {
	in := &InputTiming{}
	in.Configure(t)
	return in
}

// Configure applies a timing model and clears all timing and buffered state.
func (in *InputTiming) Configure(t TimingModel) {
	in.dasMs = t.DASMs
	in.arrMs = t.ARRMs
	in.irs = t.IRSEnabled
	in.ihs = t.IHSEnabled
	in.strict = t.StrictDAS
	in.Reset()
}

// Reset clears timers, the active direction and every pending request.
// Physical held-key state is kept so a key still down after a restart is
// not forgotten.
func (in *InputTiming) Reset() {
	in.active = 0
	in.repeating = false
	in.firstTick = false
	in.dasTimer = 0
	in.arrTimer = 0
	in.bufferedRotate = 0
	in.bufferedHold = false
	in.directRotate = 0
	in.directHold = false
	in.hardDrop = false
}

// KeyDown handles a press edge.
func (in *InputTiming) KeyDown(k Key) {
	switch k {
	case KeyLeft:
		in.leftHeld = true
		in.startHorizontal(-1)
	case KeyRight:
		in.rightHeld = true
		in.startHorizontal(1)
	case KeySoftDrop:
		in.downHeld = true
	case KeyRotateCW:
		in.requestRotate(1)
	case KeyRotateCCW:
		in.requestRotate(-1)
	case KeyHold:
		if in.ihs {
			in.bufferedHold = true
		} else {
			in.directHold = true
		}
	case KeyHardDrop:
		in.hardDrop = true
	}
}

// KeyUp handles a release edge.
func (in *InputTiming) KeyUp(k Key) {
	switch k {
	case KeyLeft:
		in.leftHeld = false
		in.stopHorizontal(-1)
	case KeyRight:
		in.rightHeld = false
		in.stopHorizontal(1)
	case KeySoftDrop:
		in.downHeld = false
	}
}

func (in *InputTiming) requestRotate(dir int) {
	if in.irs {
		in.bufferedRotate = dir
	} else {
		in.directRotate = dir
	}
}

// startHorizontal begins charging unless a direction is already active.
func (in *InputTiming) startHorizontal(dir int) {
	if in.active != 0 {
		return
	}
	in.active = dir
	in.repeating = false
	in.firstTick = true
	in.dasTimer = 0
	in.arrTimer = 0
}

func (in *InputTiming) stopHorizontal(dir int) {
	if in.active != dir {
		return
	}
	in.active = 0
	in.repeating = false
	in.firstTick = false
	in.dasTimer = 0
	in.arrTimer = 0
}

// Update advances the horizontal timers by deltaMs, calling move for each
// shift that fires. maxShift bounds instant (ARR 0) repeats. It returns
// the number of successful moves.
func (in *InputTiming) Update(deltaMs float64, maxShift int, move func(dx int) bool) int {
	if in.active == 0 {
		return 0
	}
	dir := in.active
	moves := 0
	try := func() bool {
		if move(dir) {
			moves++
			return true
		}
		return false
	}

	if !in.repeating {
		in.dasTimer += deltaMs
		first := in.firstTick
		in.firstTick = false
		if in.dasTimer < in.dasMs {
			if first && !in.strict {
				try()
			}
			return moves
		}
		// Charge complete: shift once and carry the overflow into ARR.
		in.repeating = true
		in.arrTimer = in.dasTimer - in.dasMs
		if in.arrMs <= 0 {
			in.shiftToWall(maxShift, try)
			return moves
		}
		try()
		in.repeat(try)
		return moves
	}

	if in.arrMs <= 0 {
		in.shiftToWall(maxShift, try)
		return moves
	}
	in.arrTimer += deltaMs
	in.repeat(try)
	return moves
}

func (in *InputTiming) repeat(try func() bool) {
	for in.arrTimer >= in.arrMs {
		in.arrTimer -= in.arrMs
		if !try() {
			in.arrTimer = 0
			return
		}
	}
}

func (in *InputTiming) shiftToWall(maxShift int, try func() bool) {
	for i := 0; i < maxShift && try(); i++ {
	}
}

// SoftDrop reports whether soft drop is requested this tick. It is level
// triggered and has no timing state.
func (in *InputTiming) SoftDrop() bool {
	return in.downHeld
}

// PendingRotate returns the requested rotation direction, or 0.
func (in *InputTiming) PendingRotate() int {
	if in.directRotate != 0 {
		return in.directRotate
	}
	return in.bufferedRotate
}

// ConsumeRotate clears the pending rotation and returns its direction.
func (in *InputTiming) ConsumeRotate() int {
	dir := in.PendingRotate()
	in.directRotate = 0
	in.bufferedRotate = 0
	return dir
}

// PendingHold reports whether a hold was requested.
func (in *InputTiming) PendingHold() bool {
	return in.directHold || in.bufferedHold
}

// ConsumeHold clears the pending hold and reports whether one was pending.
func (in *InputTiming) ConsumeHold() bool {
	ok := in.PendingHold()
	in.directHold = false
	in.bufferedHold = false
	return ok
}

// ConsumeHardDrop clears and returns the hard-drop request.
func (in *InputTiming) ConsumeHardDrop() bool {
	ok := in.hardDrop
	in.hardDrop = false
	return ok
}

// EndTick drops requests that are only valid for the tick they arrived in.
// Buffered IRS/IHS requests survive until consumed.
func (in *InputTiming) EndTick() {
	in.directRotate = 0
	in.directHold = false
	in.hardDrop = false
}

// State returns a snapshot of the controller.
func (in *InputTiming) State() InputState {
	phase := InputIdle
	switch {
	case in.active != 0 && in.repeating:
		phase = InputRepeating
	case in.active != 0:
		phase = InputCharging
	}
	return InputState{
		Phase:           phase,
		ActiveDirection: in.active,
		DASTimerMs:      in.dasTimer,
		ARRTimerMs:      in.arrTimer,
		BufferedRotate:  in.bufferedRotate,
		BufferedHold:    in.bufferedHold,
		SoftDrop:        in.downHeld,
	}
}

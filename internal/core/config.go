package core

// DefaultTickRate is the host tick rate when none is configured.
const DefaultTickRate = 60

// RuntimeConfig is handed to Game.Reset at the start of every run.
type RuntimeConfig struct {
	ScreenW  int
	ScreenH  int
	TickRate int   // ticks per second
	Seed     int64 // 0 lets the host pick one
}

// DefaultConfig is an 80x24 terminal at the default tick rate.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: DefaultTickRate,
	}
}

// TickDeltaMs is the simulated time one tick covers.
func (c RuntimeConfig) TickDeltaMs() float64 {
	if c.TickRate <= 0 {
		return 1000.0 / DefaultTickRate
	}
	return 1000.0 / float64(c.TickRate)
}

// GameState is the host-visible summary of a run.
type GameState struct {
	Score    int
	Lines    int
	Pieces   int
	GameOver bool
	Paused   bool
}

// StepResult is returned from every Game.Step.
type StepResult struct {
	State GameState
}

package core

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW    int    // Screen width in characters
	ScreenH    int    // Screen height in characters
	TickRate   int    // Simulation ticks per second for fixed-step games
	Seed       int64  // RNG seed; 0 means seed from the clock in the platform layer
	ConfigPath string // Optional custom YAML config for the selected game
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 60,
	}
}

// GameState is the platform-facing summary of a fixed-step game.
type GameState struct {
	Score    int
	GameOver bool
	Paused   bool
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State  GameState
	Scored int // Points gained during this tick
}

// Package registry provides a global registry of games.
// Games register themselves in init() functions, allowing the platform
// to discover and instantiate games without hardcoded dependencies.
//
// Two kinds of games exist: fixed-step games implementing Game, driven by
// the platform's own tick loop, and arcade games, which are rule sets run
// by an engine.Controller.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/engine"
)

// Game is the interface for fixed-step games.
// Games contain pure logic with no external dependencies (especially no Bubble Tea).
// The platform handles input mapping, timing, and rendering.
type Game interface {
	// ID returns a unique identifier for this game (e.g., "snake").
	// Used for CLI commands and score storage.
	ID() string

	// Title returns a human-readable name for display.
	Title() string

	// Reset initializes or resets the game state.
	// Called once at start and again when restarting after game over.
	Reset(cfg core.RuntimeConfig)

	// Step advances the simulation by one fixed tick.
	Step(in core.InputFrame) core.StepResult

	// Render draws the current game state into the provided screen buffer.
	// The screen is pre-cleared before this call.
	Render(dst *core.Screen)

	// State returns the current game state (score, game over, paused).
	State() core.GameState
}

// Kind distinguishes how a game is driven.
type Kind int

const (
	KindStep Kind = iota
	KindArcade
)

func (k Kind) String() string {
	if k == KindArcade {
		return "arcade"
	}
	return "step"
}

// GameInfo contains metadata about a registered game.
type GameInfo struct {
	ID    string
	Title string
	Kind  Kind
}

// Factory is a function that creates a new instance of a game.
type Factory func() Game

// RulesLoader builds arcade rules, reading configuration from configPath
// or the default search locations when it is empty.
type RulesLoader func(configPath string) (engine.Rules, error)

type entry struct {
	info    GameInfo
	factory Factory
	loader  RulesLoader
}

var (
	entries = make(map[string]entry)
	mu      sync.RWMutex
)

func add(e entry) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := entries[e.info.ID]; exists {
		panic(fmt.Sprintf("registry: game %q already registered", e.info.ID))
	}
	entries[e.info.ID] = e
}

// Register adds a fixed-step game factory to the registry.
// Typically called from a game's init() function.
// Panics if a game with the same ID is already registered.
func Register(id string, f Factory) {
	// Get title by creating a temporary instance
	title := f().Title()
	add(entry{info: GameInfo{ID: id, Title: title, Kind: KindStep}, factory: f})
}

// RegisterArcade adds an arcade rule set to the registry.
func RegisterArcade(id, title string, load RulesLoader) {
	add(entry{info: GameInfo{ID: id, Title: title, Kind: KindArcade}, loader: load})
}

// List returns information about all registered games, sorted by ID.
func List() []GameInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]GameInfo, 0, len(entries))
	for _, e := range entries {
		result = append(result, e.info)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Lookup returns the metadata for a game.
func Lookup(id string) (GameInfo, bool) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	return e.info, ok
}

// Create instantiates a new fixed-step game by its ID.
// Returns an error if the game ID is not registered or is an arcade game.
func Create(id string) (Game, error) {
	mu.RLock()
	defer mu.RUnlock()

	e, ok := entries[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown game %q", id)
	}
	if e.factory == nil {
		return nil, fmt.Errorf("registry: game %q is not a step game", id)
	}
	return e.factory(), nil
}

// LoadRules builds the rules of an arcade game.
func LoadRules(id, configPath string) (engine.Rules, error) {
	mu.RLock()
	e, ok := entries[id]
	mu.RUnlock()

	if !ok {
		return engine.Rules{}, fmt.Errorf("registry: unknown game %q", id)
	}
	if e.loader == nil {
		return engine.Rules{}, fmt.Errorf("registry: game %q is not an arcade game", id)
	}
	return e.loader(configPath)
}

// Exists checks if a game with the given ID is registered.
func Exists(id string) bool {
	_, ok := Lookup(id)
	return ok
}

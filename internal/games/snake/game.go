// Package snake implements the grid snake game: the snake moves one cell
// per step, each food is worth a fixed number of points and grows the
// snake by one, and hitting a wall or itself ends the game.
package snake

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/bubblepop/internal/config"
	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/registry"
)

// Direction represents the snake's movement direction.
type Direction int

const (
	DirRight Direction = iota
	DirDown
	DirLeft
	DirUp
)

// Point represents a grid cell.
type Point struct {
	X, Y int
}

// Game implements the Snake game.
type Game struct {
	cfg     config.SnakeConfig
	cfgPath string
	loaded  bool

	rng            *rand.Rand
	tickRate       int
	tick           uint64
	score          int
	moveEveryTicks int
	moveTicker     int

	// Snake state
	snake     []Point // Head at index 0
	direction Direction
	nextDir   Direction // Buffered direction for next move
	growing   bool      // If true, don't remove tail on next move
	food      Point

	// Layout
	screenW    int
	screenH    int
	hudHeight  int
	mapOffsetX int
	mapOffsetY int

	gameOver bool
	paused   bool
	tooSmall bool
}

// New creates a snake game that loads its configuration on Reset.
func New() *Game {
	return &Game{}
}

// NewWithConfig creates a snake game with a fixed configuration.
func NewWithConfig(cfg config.SnakeConfig) *Game {
	return &Game{cfg: cfg, loaded: true}
}

func init() {
	registry.Register("snake", func() registry.Game {
		return New()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string { return "snake" }

// Title returns the display name.
func (g *Game) Title() string { return "Snake" }

// Reset initializes/restarts the game.
func (g *Game) Reset(rc core.RuntimeConfig) {
	if !g.loaded || rc.ConfigPath != g.cfgPath {
		cfg, err := config.LoadSnake(rc.ConfigPath)
		if err != nil {
			cfg = config.DefaultSnakeConfig()
		}
		g.cfg, g.cfgPath, g.loaded = cfg, rc.ConfigPath, true
	}

	g.rng = rand.New(rand.NewSource(rc.Seed))
	g.tick = 0
	g.score = 0
	g.gameOver = false
	g.paused = false
	g.screenW = rc.ScreenW
	g.screenH = rc.ScreenH
	g.hudHeight = 1

	tickRate := rc.TickRate
	if tickRate <= 0 {
		tickRate = core.DefaultConfig().TickRate
	}
	g.tickRate = tickRate
	g.moveEveryTicks = max(1, g.cfg.StepMs*tickRate/1000)
	g.moveTicker = 0

	// Grid plus a one-cell border on every side
	requiredW := g.cfg.Grid + 2
	requiredH := g.cfg.Grid + 2 + g.hudHeight
	g.tooSmall = g.screenW < requiredW || g.screenH < requiredH
	g.mapOffsetX = (g.screenW-g.cfg.Grid)/2
	g.mapOffsetY = g.hudHeight + 1

	g.snake = []Point{{X: g.cfg.Grid / 2, Y: g.cfg.Grid / 2}}
	g.direction = DirRight
	g.nextDir = DirRight
	g.growing = false
	g.spawnFood()
}

// spawnFood places food on a free cell: a bounded number of random draws,
// then a row-major scan for the first free cell.
func (g *Game) spawnFood() {
	for range g.cfg.Attempts {
		p := Point{X: g.rng.Intn(g.cfg.Grid), Y: g.rng.Intn(g.cfg.Grid)}
		if !g.isSnakeAt(p) {
			g.food = p
			return
		}
	}
	for y := range g.cfg.Grid {
		for x := range g.cfg.Grid {
			if p := (Point{X: x, Y: y}); !g.isSnakeAt(p) {
				g.food = p
				return
			}
		}
	}
	// Board is full
	g.food = Point{X: -1, Y: -1}
	g.gameOver = true
}

// isSnakeAt checks if the snake occupies the given point.
func (g *Game) isSnakeAt(p Point) bool {
	for _, seg := range g.snake {
		if seg == p {
			return true
		}
	}
	return false
}

// Step advances the game by one tick.
func (g *Game) Step(input core.InputFrame) core.StepResult {
	g.tick++

	if input.Has(core.ActionRestart) && g.gameOver {
		g.Reset(core.RuntimeConfig{
			Seed:       g.rng.Int63(),
			ScreenW:    g.screenW,
			ScreenH:    g.screenH,
			TickRate:   g.tickRate,
			ConfigPath: g.cfgPath,
		})
		return core.StepResult{State: g.State()}
	}

	if input.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}

	if g.gameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.processInput(input)

	g.moveTicker++
	if g.moveTicker < g.moveEveryTicks {
		return core.StepResult{State: g.State()}
	}
	g.moveTicker = 0

	before := g.score
	g.moveSnake()
	return core.StepResult{State: g.State(), Scored: g.score - before}
}

// processInput handles direction changes.
func (g *Game) processInput(input core.InputFrame) {
	newDir := g.nextDir

	switch {
	case input.Has(core.ActionUp):
		newDir = DirUp
	case input.Has(core.ActionDown):
		newDir = DirDown
	case input.Has(core.ActionLeft):
		newDir = DirLeft
	case input.Has(core.ActionRight):
		newDir = DirRight
	}

	// Prevent instant reversal
	if !isOpposite(newDir, g.direction) {
		g.nextDir = newDir
	}
}

func isOpposite(d1, d2 Direction) bool {
	return (d1 == DirUp && d2 == DirDown) ||
		(d1 == DirDown && d2 == DirUp) ||
		(d1 == DirLeft && d2 == DirRight) ||
		(d1 == DirRight && d2 == DirLeft)
}

// moveSnake moves the snake one cell in the current direction.
func (g *Game) moveSnake() {
	g.direction = g.nextDir

	head := g.snake[0]
	switch g.direction {
	case DirUp:
		head.Y--
	case DirDown:
		head.Y++
	case DirLeft:
		head.X--
	case DirRight:
		head.X++
	}

	if head.X < 0 || head.X >= g.cfg.Grid || head.Y < 0 || head.Y >= g.cfg.Grid {
		g.gameOver = true
		return
	}

	// The tail moves away this step unless the snake is growing
	checkLen := len(g.snake)
	if !g.growing {
		checkLen--
	}
	for i := range checkLen {
		if g.snake[i] == head {
			g.gameOver = true
			return
		}
	}

	g.snake = append([]Point{head}, g.snake...)

	if head == g.food {
		g.score += g.cfg.FoodPoints
		g.growing = true
		g.spawnFood()
	}

	if g.growing {
		g.growing = false
	} else {
		g.snake = g.snake[:len(g.snake)-1]
	}
}

// Render draws the game to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	snap := g.Snapshot()
	dst.DrawTextColored(1, 0, fmt.Sprintf("Snake  Score: %d  Length: %d", snap.Score, snap.Len), core.ColorWhite)

	if snap.Phase == PhaseTooSmall {
		g.renderOverlay(dst, "Window too small", fmt.Sprintf("Need %dx%d", g.cfg.Grid+2, g.cfg.Grid+3))
		return
	}

	dst.DrawBox(core.NewRect(g.mapOffsetX-1, g.mapOffsetY-1, g.cfg.Grid+2, g.cfg.Grid+2), core.ColorGray)

	if snap.Food.X >= 0 {
		dst.SetColored(g.mapOffsetX+snap.Food.X, g.mapOffsetY+snap.Food.Y, '*', core.ColorRed)
	}
	for i, seg := range g.snake {
		r := 'o'
		if i == 0 {
			r = 'O'
		}
		dst.SetColored(g.mapOffsetX+seg.X, g.mapOffsetY+seg.Y, r, core.ColorGreen)
	}

	switch snap.Phase {
	case PhaseOver:
		g.renderOverlay(dst, "Game Over", "Press R to restart")
	case PhasePaused:
		g.renderOverlay(dst, "Paused", "Press P to continue")
	}
}

// renderOverlay draws a centered overlay message.
func (g *Game) renderOverlay(dst *core.Screen, line1, line2 string) {
	boxW := max(len(line1), len(line2)) + 4
	boxH := 5
	box := core.NewRect((dst.Width()-boxW)/2, (dst.Height()-boxH)/2, boxW, boxH)

	dst.FillRect(box, ' ', core.ColorDefault)
	dst.DrawBox(box, core.ColorYellow)
	dst.DrawTextCentered(box.Y+1, line1, core.ColorYellow)
	dst.DrawTextCentered(box.Y+3, line2, core.ColorWhite)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	phase := g.phase()
	return core.GameState{
		Score:    g.score,
		GameOver: phase == PhaseOver,
		Paused:   phase == PhasePaused,
	}
}

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "unknown"
	}
}

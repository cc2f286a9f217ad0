package tui

import (
	"fmt"

	"github.com/vovakirdan/bubblepop/internal/core"
	"github.com/vovakirdan/bubblepop/internal/engine"
)

// Glyphs used to draw the arena.
const (
	glyphNormal = 'o'
	glyphBonus  = '$'
	glyphHazard = '*'
	glyphFreeze = '#'
	glyphActor  = '='
	glyphCursor = '+'
)

// arena maps the simulation field onto the terminal. Row 0 holds the HUD,
// row 1 and the second to last row the border, and the last row the help
// line.
type arena struct {
	field core.Box
	area  core.Rect
	cellW float64
	cellH float64
}

func newArena(field core.Box, screenW, screenH int) arena {
	area := core.NewRect(1, 2, max(1, screenW-2), max(1, screenH-4))
	return arena{
		field: field,
		area:  area,
		cellW: field.W / float64(area.W),
		cellH: field.H / float64(area.H),
	}
}

// contains reports whether a screen cell lies inside the drawable area.
func (a arena) contains(x, y int) bool {
	return x >= a.area.X && x < a.area.Right() && y >= a.area.Y && y < a.area.Bottom()
}

// toField maps a screen cell to the field point at the cell's center.
func (a arena) toField(x, y int) (fx, fy float64, ok bool) {
	if !a.contains(x, y) {
		return 0, 0, false
	}
	fx = a.field.X + (float64(x-a.area.X)+0.5)*a.cellW
	fy = a.field.Y + (float64(y-a.area.Y)+0.5)*a.cellH
	return fx, fy, true
}

// toScreen projects a field box into screen cells.
func (a arena) toScreen(b core.Box) core.Rect {
	local := core.NewBox(b.X-a.field.X, b.Y-a.field.Y, b.W, b.H)
	r := local.ToCells(a.cellW, a.cellH)
	r.X += a.area.X
	r.Y += a.area.Y
	return r
}

// fill paints r clipped to the drawable area.
func (a arena) fill(dst *core.Screen, r core.Rect, glyph rune, c core.Color) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			if a.contains(x, y) {
				dst.SetColored(x, y, glyph, c)
			}
		}
	}
}

func entityGlyph(e engine.Entity, frozen bool) (rune, core.Color) {
	switch e.Category {
	case engine.CategoryBonus:
		return glyphBonus, core.ColorGold
	case engine.CategoryHazard:
		return glyphHazard, core.ColorBomb
	case engine.CategoryFreeze:
		return glyphFreeze, core.ColorIce
	}
	if frozen {
		return glyphNormal, core.ColorIce
	}
	return glyphNormal, core.PaletteColor(uint64(e.ID))
}

// draw renders the field, its entities and the actor.
func (a arena) draw(dst *core.Screen, snap engine.Snapshot) {
	dst.DrawBox(core.NewRect(a.area.X-1, a.area.Y-1, a.area.W+2, a.area.H+2), core.ColorGray)

	for _, e := range snap.Entities {
		glyph, color := entityGlyph(e, snap.Frozen)
		a.fill(dst, a.toScreen(e.Bounds()), glyph, color)
	}
	if snap.Actor != nil {
		a.fill(dst, a.toScreen(*snap.Actor), glyphActor, core.ColorWhite)
	}
}

// hudLine summarizes the snapshot in one line.
func hudLine(title string, snap engine.Snapshot) string {
	line := fmt.Sprintf("%s  %s  Score: %d  Best: %d", title, snap.Mode.Title(), snap.Score, snap.Best)
	if snap.Survival {
		line += fmt.Sprintf("  Lives: %d", snap.Lives)
	}
	if snap.Timed {
		line += fmt.Sprintf("  Time: %ds", snap.TimeLeft)
	}
	if snap.Frozen {
		line += "  FROZEN"
	}
	return line
}

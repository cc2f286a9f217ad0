// Package core provides fundamental types and utilities for the arcade platform.
// It contains no external dependencies (especially no Bubble Tea) to keep game
// logic pure and testable.
package core

import "math"

// Rect represents an integer axis-aligned rectangle in screen cells.
type Rect struct {
	X, Y int // Top-left corner position
	W, H int // Width and height
}

// NewRect creates a new rectangle with the given position and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{X: x, Y: y, W: w, H: h}
}

// Right returns the x-coordinate of the right edge.
func (r Rect) Right() int {
	return r.X + r.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.H
}

// Box is an axis-aligned bounding box in continuous field coordinates.
// Simulation code works in Box space; rendering converts to Rect cells.
type Box struct {
	X, Y float64 // Top-left corner
	W, H float64
}

// NewBox creates a box at (x, y) with the given size.
func NewBox(x, y, w, h float64) Box {
	return Box{X: x, Y: y, W: w, H: h}
}

// Square creates a size x size box at (x, y).
func Square(x, y, size float64) Box {
	return Box{X: x, Y: y, W: size, H: size}
}

// Right returns the x-coordinate of the right edge.
func (b Box) Right() float64 {
	return b.X + b.W
}

// Bottom returns the y-coordinate of the bottom edge.
func (b Box) Bottom() float64 {
	return b.Y + b.H
}

// Intersects reports whether two boxes overlap on both axes.
// Touching edges do not count as overlap.
func (b Box) Intersects(other Box) bool {
	if b.X >= other.Right() || other.X >= b.Right() {
		return false
	}
	if b.Y >= other.Bottom() || other.Y >= b.Bottom() {
		return false
	}
	return true
}

// Contains reports whether the point lies inside the box.
// The top-left edge is inclusive, the bottom-right edge exclusive.
func (b Box) Contains(x, y float64) bool {
	return x >= b.X && x < b.Right() && y >= b.Y && y < b.Bottom()
}

// Inside reports whether the box lies entirely within outer.
func (b Box) Inside(outer Box) bool {
	return b.X >= outer.X && b.Y >= outer.Y && b.Right() <= outer.Right() && b.Bottom() <= outer.Bottom()
}

// ToCells projects the box into a cell grid where one cell spans
// cellW x cellH field units. The result is at least one cell in each axis.
func (b Box) ToCells(cellW, cellH float64) Rect {
	if cellW <= 0 || cellH <= 0 {
		return Rect{}
	}
	x := int(math.Floor(b.X / cellW))
	y := int(math.Floor(b.Y / cellH))
	right := int(math.Ceil(b.Right() / cellW))
	bottom := int(math.Ceil(b.Bottom() / cellH))
	return Rect{X: x, Y: y, W: max(1, right-x), H: max(1, bottom-y)}
}

// Clamp restricts a value to be within [lo, hi].
func Clamp(val, lo, hi int) int {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// ClampF restricts a float64 value to be within [lo, hi].
func ClampF(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

package core

// Color represents a foreground color for a screen cell.
// Values map to ANSI 256-color codes in the platform layer.
type Color uint8

// Predefined colors for game elements.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorCoral
	ColorTeal
	ColorSky
	ColorSage
	ColorCream
	ColorPlum
	ColorMint
	ColorGold
	ColorBomb
	ColorIce
	ColorGray
)

// BubblePalette is the rotation of colors used for ordinary bubbles.
var BubblePalette = []Color{
	ColorCoral,
	ColorTeal,
	ColorSky,
	ColorSage,
	ColorCream,
	ColorPlum,
	ColorMint,
}

// PaletteColor picks a stable palette color for an arbitrary key.
func PaletteColor(key uint64) Color {
	return BubblePalette[key%uint64(len(BubblePalette))]
}

package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Predefined colors for profile elements.
const (
	ColorDefault     Color = iota
	ColorGreen             // Ground surface
	ColorBrown             // Ground fill
	ColorYellow            // Coins
	ColorCyan              // Chunk seams
	ColorGray              // Floor and axes
	ColorBrightWhite       // HUD text
)

package iostreams

import "github.com/charmbracelet/lipgloss"

// ─── Named Colors ─────────────────────────────────────────────────
// Canonical color values by X11/CSS name (or nearest recognized name).
// These define the actual colors. They never change.
var (
	ColorBurntOrange = lipgloss.Color("#E8714A") // Warm orange (nearest: X11 Coral)
	ColorDeepSkyBlue = lipgloss.Color("#00BFFF") // Exact X11/CSS: DeepSkyBlue
	ColorEmerald     = lipgloss.Color("#04B575") // Vivid green (nearest: X11 MediumSeaGreen)
	ColorAmber       = lipgloss.Color("#FFCC00") // Warm yellow (nearest: X11 Gold)
	ColorHotPink     = lipgloss.Color("#FF5F87") // Bright pink (nearest: X11 HotPink)
	ColorDimGray     = lipgloss.Color("#626262") // Near X11 DimGray
	ColorOrchid      = lipgloss.Color("#AD58B4") // Purple-pink (nearest: X11 MediumOrchid)
	ColorSkyBlue     = lipgloss.Color("#87CEEB") // Exact X11/CSS: SkyBlue
	ColorOnyx        = lipgloss.Color("#3C3C3C") // Very dark gray
	ColorSilver      = lipgloss.Color("#A0A0A0") // Muted silver (nearest: X11 DarkGray)
)

// ─── Semantic Theme ───────────────────────────────────────────────
// Intent-based aliases. Swap the RHS to change the entire color theme.
var (
	ColorPrimary   = ColorBurntOrange // Brand primary
	ColorSecondary = ColorDeepSkyBlue // Brand secondary
	ColorSuccess   = ColorEmerald
	ColorWarning   = ColorAmber
	ColorError     = ColorHotPink
	ColorMuted     = ColorDimGray
	ColorHighlight = ColorOrchid
	ColorInfo      = ColorSkyBlue
	ColorBorder    = ColorOnyx
	ColorSubtle    = ColorSilver
)

// Text styles backing the ColorScheme semantic methods.
var (
	ErrorStyle     = lipgloss.NewStyle().Foreground(ColorError)
	SuccessStyle   = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle   = lipgloss.NewStyle().Foreground(ColorWarning)
	MutedStyle     = lipgloss.NewStyle().Foreground(ColorMuted)
	HighlightStyle = lipgloss.NewStyle().Foreground(ColorHighlight)
)

// Concrete color styles, pure foreground color with no decorations.
// Used by ColorScheme concrete color methods (Blue, Cyan).
var (
	BlueStyle = lipgloss.NewStyle().Foreground(ColorDeepSkyBlue)
	CyanStyle = lipgloss.NewStyle().Foreground(ColorInfo)
)

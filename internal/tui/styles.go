package tui

import "github.com/charmbracelet/lipgloss"

var (
	ColorBg         = lipgloss.Color("#0a0a0a")
	ColorBgAlt      = lipgloss.Color("#0f0f0f")
	ColorBorder     = lipgloss.Color("#1a3a1a")
	ColorPrimary    = lipgloss.Color("#00ff41")
	ColorPrimaryDim = lipgloss.Color("#00aa2a")
	ColorPrimaryBg  = lipgloss.Color("#0a1f0a")
	ColorAmber      = lipgloss.Color("#ffb000")
	ColorRed        = lipgloss.Color("#ff3333")
	ColorCyan       = lipgloss.Color("#00b8ff")
	ColorText       = lipgloss.Color("#e5e5e5")
	ColorMuted      = lipgloss.Color("#707070")
	ColorDim        = lipgloss.Color("#404040")
	ColorGhost      = lipgloss.Color("#252525")
	ColorSelect     = lipgloss.Color("#003300")
)

var (
	TextPrimary  = lipgloss.NewStyle().Foreground(ColorPrimary)
	TextAmber    = lipgloss.NewStyle().Foreground(ColorAmber)
	TextRed      = lipgloss.NewStyle().Foreground(ColorRed)
	TextCyan     = lipgloss.NewStyle().Foreground(ColorCyan)
	TextMuted    = lipgloss.NewStyle().Foreground(ColorMuted)
	TextDim      = lipgloss.NewStyle().Foreground(ColorDim)
	TextBold     = lipgloss.NewStyle().Foreground(ColorText).Bold(true)
	TextSelected = lipgloss.NewStyle().
			Background(ColorSelect).
			Foreground(ColorPrimary).
			Bold(true)

	TabActive = lipgloss.NewStyle().
			Background(ColorPrimaryBg).
			Foreground(ColorPrimary).
			Bold(true).
			Padding(0, 2)
	TabInactive = lipgloss.NewStyle().
			Foreground(ColorMuted).
			Padding(0, 2)

	StatusBarStyle = lipgloss.NewStyle().
			Background(ColorBgAlt).
			Foreground(ColorMuted).
			Padding(0, 1)
)

// ForRate shades a value by attack rate: calm green below 25%, amber below
// 60%, red above.
func ForRate(rate float64) lipgloss.Style {
	switch {
	case rate >= 0.6:
		return TextRed.Bold(true)
	case rate >= 0.25:
		return TextAmber
	default:
		return TextPrimary
	}
}

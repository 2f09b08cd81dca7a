package output

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
)

// Amber color theme shared with the gridctl family of tools.
var (
	ColorAmber  = lipgloss.Color("#f59e0b")
	ColorYellow = lipgloss.Color("#eab308")
	ColorWhite  = lipgloss.Color("#fafaf9")
	ColorMuted  = lipgloss.Color("#78716c")
	ColorGreen  = lipgloss.Color("#10b981")
	ColorRed    = lipgloss.Color("#f43f5e")
	ColorGray   = lipgloss.Color("#a8a29e")
)

var levelColors = map[log.Level]lipgloss.Color{
	log.DebugLevel: ColorMuted,
	log.InfoLevel:  ColorAmber,
	log.WarnLevel:  ColorYellow,
	log.ErrorLevel: ColorRed,
}

// amberStyles returns charmbracelet/log styles with amber theme.
func amberStyles() *log.Styles {
	styles := log.DefaultStyles()
	for level, color := range levelColors {
		style := lipgloss.NewStyle().SetString(strings.ToUpper(level.String())).Foreground(color)
		if level != log.DebugLevel {
			style = style.Bold(true)
		}
		styles.Levels[level] = style
	}
	styles.Timestamp = lipgloss.NewStyle().Foreground(ColorMuted)
	styles.Key = lipgloss.NewStyle().Foreground(ColorAmber)
	styles.Value = lipgloss.NewStyle().Foreground(ColorGray)
	return styles
}

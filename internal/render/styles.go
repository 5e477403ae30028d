package render

import "github.com/charmbracelet/lipgloss"

// 配色沿用原看板的青色系
var (
	colorAccent = lipgloss.Color("#00E5FF")
	colorBar    = lipgloss.Color("#00CFEA")
	colorTrack  = lipgloss.Color("#04262B")
	colorText   = lipgloss.Color("#BFEFF6")
	colorWarn   = lipgloss.Color("#F4D03F")
	colorOK     = lipgloss.Color("#2CD7C7")
	colorMuted  = lipgloss.Color("#2C4A54")
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	headingStyle = lipgloss.NewStyle().Bold(true).Foreground(colorText)
	mutedStyle   = lipgloss.NewStyle().Foreground(colorMuted)
	warnStyle    = lipgloss.NewStyle().Foreground(colorWarn)
	okStyle      = lipgloss.NewStyle().Foreground(colorOK)
	fillStyle    = lipgloss.NewStyle().Foreground(colorBar)
	trackStyle   = lipgloss.NewStyle().Foreground(colorTrack)
	boxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBar).
			Padding(0, 1)
)

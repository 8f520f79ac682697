package tui

import "github.com/charmbracelet/lipgloss"

var (
	colorInk     = lipgloss.AdaptiveColor{Light: "#0F172A", Dark: "#E2E8F0"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#64748B", Dark: "#94A3B8"}
	colorAccent  = lipgloss.Color("#06B6D4")
	colorIncome  = lipgloss.Color("#20D3A2")
	colorExpense = lipgloss.Color("#FF5C73")
	colorWarn    = lipgloss.Color("#F59E0B")
	colorBorder  = lipgloss.AdaptiveColor{Light: "#CBD5E1", Dark: "#334155"}
	colorSelect  = lipgloss.AdaptiveColor{Light: "#DBEAFE", Dark: "#1E3A8A"}
)

var (
	appNameStyle     = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Padding(0, 1)
	activeTabStyle   = lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Underline(true).Padding(0, 1)
	inactiveTabStyle = lipgloss.NewStyle().Foreground(colorMuted).Padding(0, 1)
	titleStyle       = lipgloss.NewStyle().Foreground(colorInk).Bold(true)
	mutedStyle       = lipgloss.NewStyle().Foreground(colorMuted)
	incomeStyle      = lipgloss.NewStyle().Foreground(colorIncome)
	expenseStyle     = lipgloss.NewStyle().Foreground(colorExpense)
	warnBannerStyle  = lipgloss.NewStyle().Foreground(colorWarn).Bold(true)
	errorStyle       = lipgloss.NewStyle().Foreground(colorExpense)
	okStyle          = lipgloss.NewStyle().Foreground(colorIncome)
	selectedRowStyle = lipgloss.NewStyle().Background(colorSelect)
	labelStyle       = lipgloss.NewStyle().Foreground(colorMuted).Width(14)
	focusStyle       = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	helpStyle        = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorWarn).
			Padding(1, 2)
)

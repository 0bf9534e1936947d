package tui

import "github.com/charmbracelet/lipgloss"

// Color palette
const (
  colorAccent   = "#F74242"
  colorButton   = "#FCD567"
  colorSuccess  = "#42EE5C"
  colorError    = "#EF4444"
  colorInfo     = "#9CA3AF"
  colorText     = "#FAFAFA"
  colorBorder   = "#4B5563"
  colorDarkText = "#000000"
)

var (
  CounterLabelStyle = lipgloss.NewStyle().
    Bold(true).
    Foreground(lipgloss.Color(colorText))

  CounterValueStyle = lipgloss.NewStyle().
    Bold(true).
    Foreground(lipgloss.Color(colorAccent))

  InputStyle = lipgloss.NewStyle().
    Border(lipgloss.RoundedBorder()).
    BorderForeground(lipgloss.Color(colorBorder)).
    Padding(0, 1).
    Width(36)

  ButtonStyle = lipgloss.NewStyle().
    Foreground(lipgloss.Color(colorDarkText)).
    Background(lipgloss.Color(colorButton)).
    Padding(0, 2)

  DisabledButtonStyle = lipgloss.NewStyle().
    Foreground(lipgloss.Color(colorInfo)).
    Padding(0, 2)

  SuccessBannerStyle = lipgloss.NewStyle().
    Foreground(lipgloss.Color(colorDarkText)).
    Background(lipgloss.Color(colorSuccess)).
    Padding(0, 1)

  ErrorBannerStyle = lipgloss.NewStyle().
    Foreground(lipgloss.Color(colorText)).
    Background(lipgloss.Color(colorError)).
    Padding(0, 1)

  InfoStyle = lipgloss.NewStyle().
    Foreground(lipgloss.Color(colorInfo))

  HintStyle = lipgloss.NewStyle().
    Foreground(lipgloss.Color(colorError))

  BoxStyle = lipgloss.NewStyle().
    Border(lipgloss.RoundedBorder()).
    BorderForeground(lipgloss.Color(colorBorder)).
    Padding(1, 2)
)

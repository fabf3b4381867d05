package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EcoQuest theme (CLI + TUI).

const (
	IconLeaf    = "🍃"
	IconSparkle = "✨"
	IconPlus    = "➕"
	IconDone    = "✅"
	IconTrophy  = "🏆"
	IconPoints  = "💎"
	IconFire    = "🔥"
	IconPin     = "📍"
	IconInfo    = "ℹ️"
	IconWarn    = "⚠️"
	IconError   = "🥀"
	IconShop    = "🛍️"
	IconCloud   = "☁️"
	IconScroll  = "📜"
)

var (
	cPrimary = lipgloss.Color("35")  // green
	cAccent  = lipgloss.Color("78")  // mint
	cGood    = lipgloss.Color("42")  // bright green
	cWarn    = lipgloss.Color("214") // orange
	cBad     = lipgloss.Color("196") // red
	cMuted   = lipgloss.Color("244") // gray
	cGold    = lipgloss.Color("220") // gold
	cSky     = lipgloss.Color("39")  // blue
)

var (
	Title = lipgloss.NewStyle().Bold(true).Foreground(cAccent)
	H2    = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Muted = lipgloss.NewStyle().Foreground(cMuted)
	Key   = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	Good  = lipgloss.NewStyle().Bold(true).Foreground(cGood)
	Warn  = lipgloss.NewStyle().Bold(true).Foreground(cWarn)
	Bad   = lipgloss.NewStyle().Bold(true).Foreground(cBad)
	Gold  = lipgloss.NewStyle().Bold(true).Foreground(cGold)
	Sky   = lipgloss.NewStyle().Foreground(cSky)

	Panel       = lipgloss.NewStyle().BorderStyle(lipgloss.RoundedBorder()).BorderForeground(cPrimary).Padding(0, 1)
	PanelTitle  = lipgloss.NewStyle().Bold(true).Foreground(cPrimary)
	SelectedRow = lipgloss.NewStyle().Bold(true).Foreground(cGold).Background(cPrimary)

	BadgeStageUp = lipgloss.NewStyle().Bold(true).Foreground(cGold).Render("STAGE UP")
)

func Heading(icon string, title string) string {
	icon = strings.TrimSpace(icon)
	if icon != "" {
		icon += " "
	}
	return Title.Render(icon + title)
}

func LabelValue(label string, value any) string {
	return fmt.Sprintf("%s %v", Key.Render(label+":"), value)
}

func Points(n int) string {
	return Gold.Render(fmt.Sprintf("%dP", n))
}

// StageIcon returns the plant emoji for a stage label.
func StageIcon(stage string) string {
	switch strings.ToLower(stage) {
	case "flower":
		return "🌷"
	case "fruit":
		return "🍎"
	case "tree":
		return "🌳"
	default:
		return "🌱"
	}
}

func StageText(stage string) string {
	return Good.Render(StageIcon(stage) + " " + stage)
}

func CategoryIcon(category string) string {
	switch strings.ToLower(category) {
	case "energy":
		return "⚡"
	case "transport":
		return "🚲"
	case "waste":
		return "♻️"
	case "food":
		return "🥗"
	case "nature":
		return "🌿"
	case "recovered":
		return "📥"
	default:
		return IconLeaf
	}
}

func WeatherIcon(condition string) string {
	switch condition {
	case "Sunny":
		return "☀️"
	case "Clouds":
		return IconCloud
	case "Rain":
		return "🌧️"
	case "Snow":
		return "❄️"
	default:
		return "🌡️"
	}
}

// ProgressBar draws value/total as a fixed-width bar.
func ProgressBar(value int, total int, width int) string {
	if total <= 0 {
		total = 1
	}
	if width <= 3 {
		width = 3
	}
	if value < 0 {
		value = 0
	}
	if value > total {
		value = total
	}
	filled := int(float64(value) / float64(total) * float64(width))
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat("-", width-filled) + "]"
}

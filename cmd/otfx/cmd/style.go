package cmd

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	laneStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	blockStyle  = lipgloss.NewStyle().PaddingLeft(2)
)

package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	SubtleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	SuccessStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	OrderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)
)

// RenderDayHeader formats the "profile / date" banner above a day view.
func RenderDayHeader(profileName, day string) string {
	return TitleStyle.Render(day) + SubtleStyle.Render(" · "+profileName)
}

// RenderThingLine formats one numbered thing with its reactions tail.
func RenderThingLine(order int, content string, reactionsTail string) string {
	line := fmt.Sprintf("%s %s", OrderStyle.Render(fmt.Sprintf("%d.", order)), content)
	if reactionsTail != "" {
		line += "  " + SubtleStyle.Render(reactionsTail)
	}
	return line
}

// RenderReactionsTail renders per-emoji counts as a compact suffix,
// e.g. "❤️ 2  🎉 1".
func RenderReactionsTail(counts map[string]int, ordered []string) string {
	var parts []string
	for _, emoji := range ordered {
		if n := counts[emoji]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", emoji, n))
		}
	}
	return strings.Join(parts, "  ")
}

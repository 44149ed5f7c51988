package output

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("37"))  // dark green
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))   // red
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))  // yellow
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))  // cyan
	debugStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250")) // light grey
	detailStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))  // purple
)

var StyleSymbols = map[string]string{
	"pass":    "✓",
	"fail":    "✗",
	"warning": "!",
	"info":    "ℹ",
	"arrow":   "→",
	"bullet":  "•",
	"hline":   "━",
}

func PrintSuccess(text string) {
	fmt.Println(successStyle.Render(StyleSymbols["pass"] + " " + text))
}
func PrintError(text string) {
	fmt.Println(errorStyle.Render(StyleSymbols["fail"] + " " + text))
}
func PrintWarning(text string) {
	fmt.Println(warningStyle.Render(StyleSymbols["warning"] + " " + text))
}
func PrintInfo(text string) {
	fmt.Println(infoStyle.Render(StyleSymbols["info"] + " " + text))
}
func PrintDetail(text string) {
	fmt.Println(detailStyle.Render(text))
}


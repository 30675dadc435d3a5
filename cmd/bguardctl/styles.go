package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00D26A"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFB800"))
	errStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FF3838"))
	keyStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

func printOK(format string, args ...any) {
	fmt.Fprintln(os.Stderr, okStyle.Render("✓ "+fmt.Sprintf(format, args...)))
}

func printWarn(format string, args ...any) {
	fmt.Fprintln(os.Stderr, warnStyle.Render("! "+fmt.Sprintf(format, args...)))
}

// fatal prints the error and exits with status 1.
func fatal(format string, args ...any) {
	fmt.Fprintln(os.Stderr, errStyle.Render("✗ "+fmt.Sprintf(format, args...)))
	os.Exit(1)
}

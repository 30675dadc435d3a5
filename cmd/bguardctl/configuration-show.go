package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bguard/bguard-suite/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show BGuard configuration attributes and their sources",
	Long: `Show BGuard configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources, i.e. the environment variables and the config
file. These may not reflect the values used by a running server.

Config file location: /etc/bguard/bguard.yml (or BGUARD_CONFIG_PATH)

Example:
  bguardctl configuration show
  bguardctl configuration show --output json`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(os.Stdout, output); err != nil {
			fatal("Failed to show configuration: %v", err)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or json)")
}

var sourceStyles = map[string]lipgloss.Style{
	"default":     mutedStyle,
	"file":        okStyle,
	"environment": warnStyle,
}

func showConfiguration(w io.Writer, output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	switch output {
	case "json":
		jsonOutput, err := cfg.FormatJSON()
		if err != nil {
			return err
		}
		fmt.Fprintln(w, jsonOutput)
	case "text":
		fmt.Fprint(w, formatAttributes(cfg))
	default:
		return fmt.Errorf("unknown output format %q", output)
	}

	if err := cfg.Validate(); err != nil {
		printWarn("Configuration is invalid: %v", err)
	}
	return nil
}

func formatAttributes(cfg *config.BGuardConfig) string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("BGuard configuration") + "\n")
	sb.WriteString(mutedStyle.Render("Config file: "+cfg.ConfigFilePath()) + "\n\n")

	nameCol := lipgloss.NewStyle().Width(24)
	valueCol := lipgloss.NewStyle().Width(40)
	sb.WriteString(keyStyle.Render(nameCol.Render("NAME")+valueCol.Render("VALUE")+"SOURCE") + "\n")

	for _, attr := range cfg.Attributes() {
		value := attr.Value
		if value == "" {
			value = "(not set)"
		}
		style, ok := sourceStyles[attr.Source]
		if !ok {
			style = lipgloss.NewStyle()
		}
		sb.WriteString(nameCol.Render(attr.Name) + valueCol.Render(value) + style.Render(attr.Source) + "\n")
	}
	return sb.String()
}

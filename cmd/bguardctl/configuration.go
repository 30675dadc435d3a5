package main

import (
	"github.com/spf13/cobra"
)

// configurationCmd represents the configuration command
var configurationCmd = &cobra.Command{
	Use:   "configuration",
	Short: "Inspect BGuard configuration",
	Long:  `Inspect BGuard configuration settings.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		fatal("Command 'configuration' requires a subcommand (show)")
	},
}

func init() {
	rootCmd.AddCommand(configurationCmd)
}

package main

import (
	"github.com/spf13/cobra"
)

// userCmd represents the user command
var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage users",
	Long:  `Bootstrap user accounts. Day-to-day user management goes through the API.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		fatal("Command 'user' requires a subcommand (create)")
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
}

package main

import (
	"github.com/spf13/cobra"
)

// dbCmd represents the db command
var dbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the database",
	Long:  `Manage the database schema and migrations.`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
		fatal("Command 'db' requires a subcommand (migrate, down, status)")
	},
}

func init() {
	rootCmd.AddCommand(dbCmd)
}

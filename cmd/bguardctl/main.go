package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bguardctl",
	Short: "Run and administer the BGuard Suite API server",
	Long: `bguardctl runs the BGuard Suite API server and performs the
administrative tasks that cannot go through the API: schema migrations,
bootstrapping organizations and platform administrators, and inspecting
the effective configuration.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// waitCmd represents the wait command
var waitCmd = &cobra.Command{
	Use:   "wait",
	Short: "Wait for the BGuard server to be ready",
	Long: `Wait for the BGuard server to be ready by polling the status endpoint.

The server is ready once /status answers 200, which means it can reach
its database. This command will repeatedly check until that happens or
the maximum number of retries is reached.

Example:
  bguardctl wait
  bguardctl wait --port 3000 --retries 60`,
	Run: func(cmd *cobra.Command, args []string) {
		host, _ := cmd.Flags().GetString("host")
		port, _ := cmd.Flags().GetInt("port")
		retries, _ := cmd.Flags().GetInt("retries")

		version, err := waitForServer(fmt.Sprintf("http://%s:%d/status", host, port), retries, time.Second)
		if err != nil {
			fatal("Server did not become ready: %v", err)
		}

		printOK("BGuard server %s is ready", version)
	},
}

func init() {
	rootCmd.AddCommand(waitCmd)
	waitCmd.Flags().String("host", "localhost", "Server host to check")
	waitCmd.Flags().IntP("port", "p", defaultPortInt(), "Server port to check")
	waitCmd.Flags().IntP("retries", "r", 90, "Number of retries")
}

// waitForServer polls url until it answers 200 and returns the reported
// server version.
func waitForServer(url string, retries int, interval time.Duration) (string, error) {
	client := &http.Client{Timeout: 2 * time.Second}

	fmt.Fprintln(os.Stderr, "Waiting for BGuard to be ready...")

	for i := 0; i < retries; i++ {
		resp, err := client.Get(url)
		if err == nil {
			var status struct {
				Version string `json:"version"`
			}
			_ = json.NewDecoder(resp.Body).Decode(&status)
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				fmt.Fprintln(os.Stderr)
				return status.Version, nil
			}
		}

		fmt.Fprint(os.Stderr, ".")
		time.Sleep(interval)
	}

	fmt.Fprintln(os.Stderr)
	return "", fmt.Errorf("not ready after %d attempts", retries)
}

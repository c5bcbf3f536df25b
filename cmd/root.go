// ABOUTME: Root command for the bloom CLI
// ABOUTME: Handles global flags and configuration

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	apiURL      string
	jsonOutput  bool
	storageFlag string
	envFile     string
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "bloom",
	Short: "CLI for the Bloom Refresh community events platform",
	Long: `bloom is a command-line client for the Bloom Refresh API.

It keeps you logged in across runs, refreshing your access token before it
expires and once more if the server rejects it.

Environment Variables:
  BLOOM_API_URL   Backend API URL (default: http://localhost:5001/api)
  BLOOM_STORAGE   Session storage: file, bolt, redis or memory (default: file)

Run "bloom env" for the full list.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides BLOOM_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&storageFlag, "storage", "", "Session storage backend (overrides BLOOM_STORAGE)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Dotenv file to load before reading the environment")
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// execute runs fn with a context cancelled on SIGINT/SIGTERM and exits with
// its code when non-zero
func execute(fn func(ctx context.Context) int) {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	exitCode := fn(ctx)
	cancel()
	if exitCode != 0 {
		os.Exit(exitCode)
	}
}

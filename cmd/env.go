// ABOUTME: Env command listing the environment variables bloom reads
// ABOUTME: Output is generated from the config struct tags

package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloomrefresh/bloom-cli/internal/config"
)

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List supported environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		if code := runEnv(os.Stdout); code != 0 {
			os.Exit(code)
		}
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}

func runEnv(w io.Writer) int {
	desc, err := config.Describe()
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitBackend
	}
	fmt.Fprintln(w, desc)
	return exitOK
}

// ABOUTME: Entry point for the bloom CLI
// ABOUTME: Command-line client for the Bloom Refresh community events platform

package main

import (
	"fmt"
	"os"

	"github.com/bloomrefresh/bloom-cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ABOUTME: Health command for the bloom CLI
// ABOUTME: Checks connectivity to each backend service

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloomrefresh/bloom-cli/internal/client"
	"github.com/bloomrefresh/bloom-cli/internal/ui"
)

var healthCmd = &cobra.Command{
	Use:       "health [SERVICE]",
	Short:     "Check backend connectivity",
	Long:      `Check connectivity to the Bloom Refresh services (auth, events, users, reports).`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: client.Services,
	Run: func(cmd *cobra.Command, args []string) {
		services := client.Services
		if len(args) == 1 {
			services = args
		}
		execute(func(ctx context.Context) int {
			return runHealth(ctx, os.Stdout, services)
		})
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

// serviceHealth is one row of the health report
type serviceHealth struct {
	Service string `json:"service"`
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// runHealth executes the health checks and returns exit code
func runHealth(ctx context.Context, w io.Writer, services []string) int {
	cfg, err := loadConfig()
	if err != nil {
		return reportError(w, err)
	}
	c := client.New(cfg.APIURL, client.WithTimeout(cfg.Timeout))

	exitCode := exitOK
	results := make([]serviceHealth, 0, len(services))
	for _, svc := range services {
		resp, err := c.Health(ctx, svc)
		if err != nil {
			code := reportErrorCode(err)
			if code > exitCode {
				exitCode = code
			}
			results = append(results, serviceHealth{Service: svc, Status: "unreachable", Error: err.Error()})
			continue
		}
		results = append(results, serviceHealth{Service: svc, Status: resp.Status, Version: resp.Version})
	}

	if IsJSONOutput() {
		writeJSON(w, map[string]any{"backend": cfg.APIURL, "services": results})
	} else {
		fmt.Fprintln(w, formatHealthHuman(cfg.APIURL, results))
	}
	return exitCode
}

// formatHealthHuman formats health results for human readability
func formatHealthHuman(url string, results []serviceHealth) string {
	out := ui.Field("Backend", url)
	for _, r := range results {
		line := r.Status
		if r.Version != "" {
			line += " (" + r.Version + ")"
		}
		if r.Error != "" {
			line = ui.StatusError.Render(r.Status) + ": " + r.Error
		} else {
			line = ui.StatusOK.Render(line)
		}
		out += "\n" + ui.Field(r.Service, line)
	}
	return out
}

// ABOUTME: Token command for inspecting and refreshing the access token
// ABOUTME: "show" prints the token and expiry; "refresh" renews it on demand

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/bloomrefresh/bloom-cli/internal/ui"
)

var forceRefresh bool

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Inspect or refresh the access token",
}

var tokenShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current access token",
	Long:  `Print the current access token, for use with curl or other tools.`,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runTokenShow(ctx, os.Stdout)
		})
	},
}

var tokenRefreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the access token",
	Long: `Refresh the access token if it expires within the refresh threshold.

With --force the token is exchanged regardless of its expiry, and a failed
refresh logs you out.`,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runTokenRefresh(ctx, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenShowCmd, tokenRefreshCmd)
	tokenRefreshCmd.Flags().BoolVar(&forceRefresh, "force", false, "Refresh even if the token is not close to expiry")
}

// runTokenShow prints the raw token
func runTokenShow(ctx context.Context, w io.Writer) int {
	return withApp(ctx, w, func(a *app) int {
		tok := a.store.Token()
		if tok == "" {
			fmt.Fprintln(w, "Error: not logged in")
			return exitInvalid
		}

		if IsJSONOutput() {
			out := sessionJSON(a.store.Snapshot())
			out["token"] = tok
			writeJSON(w, out)
			return exitOK
		}
		fmt.Fprintln(w, tok)
		return exitOK
	})
}

// runTokenRefresh refreshes the token, proactively or forced
func runTokenRefresh(ctx context.Context, w io.Writer) int {
	return withApp(ctx, w, func(a *app) int {
		before := a.store.Token()
		if before == "" {
			fmt.Fprintln(w, "Error: not logged in")
			return exitInvalid
		}

		if forceRefresh {
			if _, err := a.store.ForceRefresh(ctx); err != nil {
				a.store.Logout()
				fmt.Fprintln(w, ui.Failure("Refresh failed, logged out"))
				return reportError(w, err)
			}
		} else if _, ok := a.store.RefreshToken(ctx); !ok {
			fmt.Fprintln(w, "Error: token could not be refreshed; see log output or run bloom login")
			return exitBackend
		}

		refreshed := a.store.Token() != before
		if IsJSONOutput() {
			out := sessionJSON(a.store.Snapshot())
			out["refreshed"] = refreshed
			writeJSON(w, out)
			return exitOK
		}

		if refreshed {
			fmt.Fprintln(w, ui.Success("Token refreshed"))
		} else {
			fmt.Fprintln(w, ui.Success(fmt.Sprintf("Token still valid for more than %s, not refreshed", a.store.Threshold())))
		}
		fmt.Fprintln(w, ui.Field("Token", describeExpiry(a.store.Token(), time.Now())))
		return exitOK
	})
}

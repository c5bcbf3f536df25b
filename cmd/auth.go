// ABOUTME: Login, signup, logout and whoami commands
// ABOUTME: Drive the session store and report the resulting auth state

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/bloomrefresh/bloom-cli/internal/models"
	"github.com/bloomrefresh/bloom-cli/internal/session"
	"github.com/bloomrefresh/bloom-cli/internal/token"
	"github.com/bloomrefresh/bloom-cli/internal/ui"
)

var (
	loginUsername  string
	loginPassword  string
	signupUsername string
	signupEmail    string
	signupPassword string
	signupRole     string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and save the session",
	Long: `Log in with your username and password. Missing values are prompted for.

Set ACCESSIBLE=1 for plain line-based prompts.`,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runLogin(ctx, os.Stdin, os.Stdout)
		})
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runSignup(ctx, os.Stdin, os.Stdout)
		})
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session and forget the saved token",
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runLogout(ctx, os.Stdout)
		})
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged-in user",
	Long: `Show the logged-in user and when the access token expires.

Exit codes:
  0 - Logged in
  1 - Not logged in`,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runWhoami(ctx, os.Stdout)
		})
	},
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd)

	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")

	signupCmd.Flags().StringVarP(&signupUsername, "username", "u", "", "Username")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Email address")
	signupCmd.Flags().StringVarP(&signupPassword, "password", "p", "", "Password (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupRole, "role", "", "Account type: volunteer or organizer")
}

func prompter(in io.Reader, w io.Writer) *ui.Prompter {
	return ui.NewPrompter(in, w, os.Getenv("ACCESSIBLE") != "")
}

// runLogin prompts for missing credentials, logs in and returns exit code
func runLogin(ctx context.Context, in io.Reader, w io.Writer) int {
	creds := models.LoginRequest{Username: loginUsername, Password: loginPassword}
	if err := prompter(in, w).Login(ctx, &creds); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	if err := creds.Validate(); err != nil {
		return reportError(w, err)
	}

	return withApp(ctx, w, func(a *app) int {
		if err := a.store.Login(ctx, creds.Username, creds.Password); err != nil {
			return reportError(w, err)
		}

		snap := a.store.Snapshot()
		if IsJSONOutput() {
			writeJSON(w, sessionJSON(snap))
		} else {
			fmt.Fprintln(w, ui.Success(fmt.Sprintf("Logged in as %s (%s)", snap.User.Username, snap.User.Role)))
		}
		return exitOK
	})
}

// runSignup registers an account and returns exit code
func runSignup(ctx context.Context, in io.Reader, w io.Writer) int {
	req := models.SignupRequest{
		Username: signupUsername,
		Email:    signupEmail,
		Password: signupPassword,
		Role:     models.Role(strings.ToLower(signupRole)),
	}
	if err := prompter(in, w).Signup(ctx, &req); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitInvalid
	}
	if err := req.Validate(); err != nil {
		return reportError(w, err)
	}

	return withApp(ctx, w, func(a *app) int {
		outcome, err := a.store.Signup(ctx, req)
		if err != nil {
			return reportError(w, err)
		}

		if IsJSONOutput() {
			out := sessionJSON(a.store.Snapshot())
			out["outcome"] = outcome.String()
			writeJSON(w, out)
			return exitOK
		}

		if outcome == models.OutcomeAccountCreated {
			fmt.Fprintln(w, ui.Success(fmt.Sprintf("Account %s created", req.Username)))
			fmt.Fprintln(w, ui.Help.Render("Check your email if asked to verify, then run: bloom login -u "+req.Username))
			return exitOK
		}
		fmt.Fprintln(w, ui.Success(fmt.Sprintf("Account %s created and logged in", req.Username)))
		return exitOK
	})
}

// runLogout ends the session; it succeeds even when already logged out
func runLogout(ctx context.Context, w io.Writer) int {
	return withApp(ctx, w, func(a *app) int {
		a.store.SignOut(ctx)
		if IsJSONOutput() {
			writeJSON(w, sessionJSON(a.store.Snapshot()))
		} else {
			fmt.Fprintln(w, ui.Success("Logged out"))
		}
		return exitOK
	})
}

// runWhoami prints the current session
func runWhoami(ctx context.Context, w io.Writer) int {
	return withApp(ctx, w, func(a *app) int {
		snap := a.store.Snapshot()

		if IsJSONOutput() {
			writeJSON(w, sessionJSON(snap))
		} else {
			fmt.Fprintln(w, formatWhoamiHuman(snap, time.Now()))
		}
		if !snap.IsAuthenticated {
			return exitInvalid
		}
		return exitOK
	})
}

// formatWhoamiHuman formats the session for human readability
func formatWhoamiHuman(snap session.Session, now time.Time) string {
	if !snap.IsAuthenticated {
		return ui.Failure("Not logged in")
	}

	lines := []string{}
	if snap.User != nil {
		lines = append(lines,
			ui.Field("User", snap.User.Username),
			ui.Field("Role", string(snap.User.Role)))
		if snap.User.Email != "" {
			lines = append(lines, ui.Field("Email", snap.User.Email))
		}
	}
	lines = append(lines, ui.Field("Token", describeExpiry(snap.Token, now)))
	return strings.Join(lines, "\n")
}

// describeExpiry summarises when a token expires
func describeExpiry(raw string, now time.Time) string {
	exp, ok, err := token.Expiry(raw)
	switch {
	case err != nil:
		return "unreadable (" + err.Error() + ")"
	case !ok:
		return "no expiry"
	case !exp.After(now):
		return "expired " + exp.Format(time.RFC3339)
	default:
		return fmt.Sprintf("expires in %s (%s)", exp.Sub(now).Round(time.Second), exp.Format(time.RFC3339))
	}
}

// sessionJSON is the JSON view of a session; the token itself is omitted
func sessionJSON(snap session.Session) map[string]any {
	out := map[string]any{
		"authenticated": snap.IsAuthenticated,
		"user":          snap.User,
	}
	if snap.Token != "" {
		if exp, ok, err := token.Expiry(snap.Token); err == nil && ok {
			out["expires_at"] = exp.UTC().Format(time.RFC3339)
		}
	}
	return out
}

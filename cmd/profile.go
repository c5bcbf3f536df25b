// ABOUTME: Profile command for viewing and editing user profiles
// ABOUTME: Defaults to the logged-in user when no ID is given

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bloomrefresh/bloom-cli/internal/models"
	"github.com/bloomrefresh/bloom-cli/internal/ui"
)

var (
	profileName   string
	profileAvatar string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View or edit user profiles",
}

var profileGetCmd = &cobra.Command{
	Use:   "get [USER_ID]",
	Short: "Show a profile (yours by default)",
	Args:  cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		userID := ""
		if len(args) == 1 {
			userID = args[0]
		}
		execute(func(ctx context.Context) int {
			return runProfileGet(ctx, os.Stdout, userID)
		})
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Change your profile",
	Run: func(cmd *cobra.Command, args []string) {
		var up models.ProfileUpdate
		if cmd.Flags().Changed("name") {
			up.Name = &profileName
		}
		if cmd.Flags().Changed("avatar") {
			up.AvatarURL = &profileAvatar
		}
		execute(func(ctx context.Context) int {
			return runProfileUpdate(ctx, os.Stdout, up)
		})
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
	profileCmd.AddCommand(profileGetCmd, profileUpdateCmd)

	profileUpdateCmd.Flags().StringVar(&profileName, "name", "", "Display name")
	profileUpdateCmd.Flags().StringVar(&profileAvatar, "avatar", "", "Avatar image URL")
}

func runProfileGet(ctx context.Context, w io.Writer, userID string) int {
	return withApp(ctx, w, func(a *app) int {
		if userID == "" {
			id, ok := currentUserID(a)
			if !ok {
				fmt.Fprintln(w, ui.Failure("Not logged in; pass a user ID"))
				return exitInvalid
			}
			userID = id
		}

		p, err := a.api.GetProfile(ctx, userID)
		if err != nil {
			return reportError(w, err)
		}
		printProfile(w, p)
		return exitOK
	})
}

func runProfileUpdate(ctx context.Context, w io.Writer, up models.ProfileUpdate) int {
	if up.Name == nil && up.AvatarURL == nil {
		return reportError(w, &models.ValidationError{Field: "profile", Message: "nothing to change; pass --name or --avatar"})
	}

	return withApp(ctx, w, func(a *app) int {
		userID, ok := currentUserID(a)
		if !ok {
			fmt.Fprintln(w, ui.Failure("Not logged in"))
			return exitInvalid
		}

		p, err := a.api.UpdateProfile(ctx, userID, up)
		if err != nil {
			return reportError(w, err)
		}
		printProfile(w, p)
		return exitOK
	})
}

func currentUserID(a *app) (string, bool) {
	snap := a.store.Snapshot()
	if !snap.IsAuthenticated || snap.User == nil || snap.User.ID == "" {
		return "", false
	}
	return snap.User.ID, true
}

func printProfile(w io.Writer, p *models.Profile) {
	if IsJSONOutput() {
		writeJSON(w, p)
		return
	}

	out := ui.Field("User", p.UserID)
	if p.Name != "" {
		out += "\n" + ui.Field("Name", p.Name)
	}
	if p.AvatarURL != "" {
		out += "\n" + ui.Field("Avatar", p.AvatarURL)
	}
	if p.JoinedAt != "" {
		out += "\n" + ui.Field("Joined", p.JoinedAt)
	}
	fmt.Fprintln(w, out)
}

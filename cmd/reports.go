// ABOUTME: Reports command for post-event impact reports
// ABOUTME: Submit a report, fetch one, or list by event or user

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bloomrefresh/bloom-cli/internal/models"
	"github.com/bloomrefresh/bloom-cli/internal/ui"
)

var (
	reportBags   int
	reportPhotos []string
	reportsEvent string
	reportsUser  string
)

var reportsCmd = &cobra.Command{
	Use:     "reports",
	Aliases: []string{"report"},
	Short:   "Submit and browse impact reports",
}

var reportsSubmitCmd = &cobra.Command{
	Use:     "submit EVENT_ID",
	Short:   "Submit an impact report for an event",
	Example: `  bloom reports submit e1 --bags 12 --photo https://example.com/before.jpg --photo https://example.com/after.jpg`,
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		in := models.ReportInput{BagsCollected: reportBags, PhotoURLs: append([]string{}, reportPhotos...)}
		execute(func(ctx context.Context) int {
			return runReportsSubmit(ctx, os.Stdout, args[0], in)
		})
	},
}

var reportsGetCmd = &cobra.Command{
	Use:   "get REPORT_ID",
	Short: "Show one report",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runReportsGet(ctx, os.Stdout, args[0])
		})
	},
}

var reportsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reports for an event or a user",
	Long: `List reports filed for an event (--event) or submitted by a user (--user).

With neither flag, lists your own reports.`,
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runReportsList(ctx, os.Stdout, reportsEvent, reportsUser)
		})
	},
}

func init() {
	rootCmd.AddCommand(reportsCmd)
	reportsCmd.AddCommand(reportsSubmitCmd, reportsGetCmd, reportsListCmd)

	reportsSubmitCmd.Flags().IntVar(&reportBags, "bags", 0, "Number of bags of litter collected")
	reportsSubmitCmd.Flags().StringArrayVar(&reportPhotos, "photo", nil, "Photo URL (repeatable)")

	reportsListCmd.Flags().StringVar(&reportsEvent, "event", "", "Event ID")
	reportsListCmd.Flags().StringVar(&reportsUser, "user", "", "User ID")
	reportsListCmd.MarkFlagsMutuallyExclusive("event", "user")
}

func runReportsSubmit(ctx context.Context, w io.Writer, eventID string, in models.ReportInput) int {
	if err := in.Validate(); err != nil {
		return reportError(w, err)
	}

	return withApp(ctx, w, func(a *app) int {
		rep, err := a.api.SubmitReport(ctx, eventID, in)
		if err != nil {
			return reportError(w, err)
		}
		if IsJSONOutput() {
			writeJSON(w, rep)
		} else {
			fmt.Fprintln(w, ui.Success(fmt.Sprintf("Report %s submitted for event %s", rep.ReportID, eventID)))
		}
		return exitOK
	})
}

func runReportsGet(ctx context.Context, w io.Writer, id string) int {
	return withApp(ctx, w, func(a *app) int {
		rep, err := a.api.GetReport(ctx, id)
		if err != nil {
			return reportError(w, err)
		}
		if IsJSONOutput() {
			writeJSON(w, rep)
		} else {
			fmt.Fprintln(w, formatReportHuman(rep))
		}
		return exitOK
	})
}

// runReportsList lists by event, by user, or for the logged-in user
func runReportsList(ctx context.Context, w io.Writer, eventID, userID string) int {
	return withApp(ctx, w, func(a *app) int {
		var (
			reports []models.Report
			err     error
		)
		switch {
		case eventID != "":
			reports, err = a.api.EventReports(ctx, eventID)
		case userID != "":
			reports, err = a.api.UserReports(ctx, userID)
		default:
			snap := a.store.Snapshot()
			if !snap.IsAuthenticated || snap.User == nil {
				fmt.Fprintln(w, ui.Failure("Not logged in; pass --event or --user"))
				return exitInvalid
			}
			reports, err = a.api.UserReports(ctx, snap.User.ID)
		}
		if err != nil {
			return reportError(w, err)
		}

		if IsJSONOutput() {
			writeJSON(w, reports)
		} else if len(reports) == 0 {
			fmt.Fprintln(w, "No reports found.")
		} else {
			fmt.Fprintln(w, ui.ReportsTable(reports))
		}
		return exitOK
	})
}

// formatReportHuman formats a report for human readability
func formatReportHuman(rep *models.Report) string {
	out := ui.Field("Report", rep.ReportID) + "\n"
	out += ui.Field("Event", rep.EventID) + "\n"
	out += ui.Field("Submitted by", rep.SubmittedBy) + "\n"
	out += ui.Field("Bags", strconv.Itoa(rep.BagsCollected))
	if rep.SubmittedAt != "" {
		out += "\n" + ui.Field("Submitted", rep.SubmittedAt)
	}
	for _, url := range rep.PhotoURLs {
		out += "\n" + ui.Field("Photo", url)
	}
	return out
}

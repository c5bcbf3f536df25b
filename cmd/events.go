// ABOUTME: Events command tree: list, get, create, update, delete and RSVP
// ABOUTME: Every call goes through the authenticated client

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
	eventCategory    string
	eventDate        string
	eventLat         float64
	eventLng         float64
	eventRadius      float64
	eventTitle       string
	eventDescription string
	eventAddress     string
	eventCapacity    int
	eventSupplies    string
	assumeYes        bool
)

var eventsCmd = &cobra.Command{
	Use:     "events",
	Aliases: []string{"event"},
	Short:   "Browse and manage community events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events",
	Long: `List events, optionally filtered.

Location filtering needs all of --lat, --lng and --radius.`,
	Run: func(cmd *cobra.Command, args []string) {
		f := models.EventFilters{Category: eventCategory, Date: eventDate}
		if cmd.Flags().Changed("lat") && cmd.Flags().Changed("lng") && cmd.Flags().Changed("radius") {
			f.Lat, f.Lng, f.Radius = &eventLat, &eventLng, &eventRadius
		}
		execute(func(ctx context.Context) int {
			return runEventsList(ctx, os.Stdout, f)
		})
	},
}

var eventsGetCmd = &cobra.Command{
	Use:   "get EVENT_ID",
	Short: "Show one event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runEventsGet(ctx, os.Stdout, args[0])
		})
	},
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event (organizers)",
	Example: `  bloom events create --title "Beach Cleanup" --date 2026-05-01T09:00:00Z \
    --lat 37.77 --lng -122.42 --address "Ocean Beach" --capacity 30`,
	Run: func(cmd *cobra.Command, args []string) {
		in := models.EventInput{
			Title:       eventTitle,
			Description: eventDescription,
			Category:    eventCategory,
			Location:    models.Location{Latitude: eventLat, Longitude: eventLng, Address: eventAddress},
			DateTime:    eventDate,
			Supplies:    eventSupplies,
		}
		if cmd.Flags().Changed("capacity") {
			in.Capacity = &eventCapacity
		}
		execute(func(ctx context.Context) int {
			return runEventsCreate(ctx, os.Stdout, in)
		})
	},
}

var eventsUpdateCmd = &cobra.Command{
	Use:   "update EVENT_ID",
	Short: "Change fields of an event",
	Long:  `Change fields of an event. Only the flags you pass are sent.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		flags := cmd.Flags()
		var up models.EventUpdate
		if flags.Changed("title") {
			up.Title = &eventTitle
		}
		if flags.Changed("date") {
			up.DateTime = &eventDate
		}
		if flags.Changed("capacity") {
			up.Capacity = &eventCapacity
		}
		if flags.Changed("supplies") {
			up.Supplies = &eventSupplies
		}
		if flags.Changed("lat") || flags.Changed("lng") || flags.Changed("address") {
			up.Location = &models.Location{Latitude: eventLat, Longitude: eventLng, Address: eventAddress}
		}
		execute(func(ctx context.Context) int {
			return runEventsUpdate(ctx, os.Stdout, args[0], up)
		})
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete EVENT_ID",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runEventsDelete(ctx, os.Stdin, os.Stdout, args[0])
		})
	},
}

var eventsRSVPCmd = &cobra.Command{
	Use:   "rsvp EVENT_ID",
	Short: "Register for an event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runRSVP(ctx, os.Stdout, args[0])
		})
	},
}

var eventsCancelRSVPCmd = &cobra.Command{
	Use:   "cancel-rsvp EVENT_ID",
	Short: "Withdraw your registration",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runCancelRSVP(ctx, os.Stdout, args[0])
		})
	},
}

var eventsRSVPStatusCmd = &cobra.Command{
	Use:   "rsvp-status EVENT_ID",
	Short: "Check whether you are registered",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		execute(func(ctx context.Context) int {
			return runRSVPStatus(ctx, os.Stdout, args[0])
		})
	},
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.AddCommand(eventsListCmd, eventsGetCmd, eventsCreateCmd, eventsUpdateCmd,
		eventsDeleteCmd, eventsRSVPCmd, eventsCancelRSVPCmd, eventsRSVPStatusCmd)

	eventsListCmd.Flags().StringVar(&eventCategory, "category", "", "Only events in this category")
	eventsListCmd.Flags().StringVar(&eventDate, "date", "", "Only events on this date (YYYY-MM-DD)")
	eventsListCmd.Flags().Float64Var(&eventLat, "lat", 0, "Latitude of the search centre")
	eventsListCmd.Flags().Float64Var(&eventLng, "lng", 0, "Longitude of the search centre")
	eventsListCmd.Flags().Float64Var(&eventRadius, "radius", 0, "Search radius in km")

	for _, c := range []*cobra.Command{eventsCreateCmd, eventsUpdateCmd} {
		c.Flags().StringVar(&eventTitle, "title", "", "Event title")
		c.Flags().StringVar(&eventDate, "date", "", "Start time (RFC 3339, e.g. 2026-05-01T09:00:00Z)")
		c.Flags().Float64Var(&eventLat, "lat", 0, "Latitude")
		c.Flags().Float64Var(&eventLng, "lng", 0, "Longitude")
		c.Flags().StringVar(&eventAddress, "address", "", "Street address")
		c.Flags().IntVar(&eventCapacity, "capacity", 0, "Maximum number of volunteers")
		c.Flags().StringVar(&eventSupplies, "supplies", "", "Supplies volunteers should bring")
	}
	eventsCreateCmd.Flags().StringVar(&eventDescription, "description", "", "Event description")
	eventsCreateCmd.Flags().StringVar(&eventCategory, "category", "", "Event category")

	eventsDeleteCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Do not ask for confirmation")
}

// runEventsList lists events and returns exit code
func runEventsList(ctx context.Context, w io.Writer, f models.EventFilters) int {
	return withApp(ctx, w, func(a *app) int {
		events, err := a.api.ListEvents(ctx, f)
		if err != nil {
			return reportError(w, err)
		}

		if IsJSONOutput() {
			writeJSON(w, events)
		} else if len(events) == 0 {
			fmt.Fprintln(w, "No events found.")
		} else {
			fmt.Fprintln(w, ui.EventsTable(events))
		}
		return exitOK
	})
}

func runEventsGet(ctx context.Context, w io.Writer, id string) int {
	return withApp(ctx, w, func(a *app) int {
		ev, err := a.api.GetEvent(ctx, id)
		if err != nil {
			return reportError(w, err)
		}
		printEvent(w, ev)
		return exitOK
	})
}

func runEventsCreate(ctx context.Context, w io.Writer, in models.EventInput) int {
	if err := in.Validate(); err != nil {
		return reportError(w, err)
	}

	return withApp(ctx, w, func(a *app) int {
		ev, err := a.api.CreateEvent(ctx, in)
		if err != nil {
			return reportError(w, err)
		}
		printEvent(w, ev)
		return exitOK
	})
}

func runEventsUpdate(ctx context.Context, w io.Writer, id string, up models.EventUpdate) int {
	if up.Empty() {
		return reportError(w, &models.ValidationError{Field: "update", Message: "nothing to change; pass at least one field flag"})
	}

	return withApp(ctx, w, func(a *app) int {
		ev, err := a.api.UpdateEvent(ctx, id, up)
		if err != nil {
			return reportError(w, err)
		}
		printEvent(w, ev)
		return exitOK
	})
}

func runEventsDelete(ctx context.Context, in io.Reader, w io.Writer, id string) int {
	if !assumeYes {
		ok, err := prompter(in, w).Confirm(ctx, fmt.Sprintf("Delete event %s?", id))
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitInvalid
		}
		if !ok {
			fmt.Fprintln(w, "Cancelled.")
			return exitOK
		}
	}

	return withApp(ctx, w, func(a *app) int {
		if err := a.api.DeleteEvent(ctx, id); err != nil {
			return reportError(w, err)
		}
		printDone(w, "Event "+id+" deleted", map[string]any{"eventId": id, "deleted": true})
		return exitOK
	})
}

func runRSVP(ctx context.Context, w io.Writer, id string) int {
	return withApp(ctx, w, func(a *app) int {
		rsvp, err := a.api.RSVP(ctx, id)
		if err != nil {
			return reportError(w, err)
		}
		if IsJSONOutput() {
			writeJSON(w, rsvp)
		} else {
			fmt.Fprintln(w, ui.Success("Registered for event "+id))
		}
		return exitOK
	})
}

func runCancelRSVP(ctx context.Context, w io.Writer, id string) int {
	return withApp(ctx, w, func(a *app) int {
		if err := a.api.CancelRSVP(ctx, id); err != nil {
			return reportError(w, err)
		}
		printDone(w, "Registration for event "+id+" cancelled", map[string]any{"eventId": id, "cancelled": true})
		return exitOK
	})
}

func runRSVPStatus(ctx context.Context, w io.Writer, id string) int {
	return withApp(ctx, w, func(a *app) int {
		status, err := a.api.RSVPStatus(ctx, id)
		if err != nil {
			return reportError(w, err)
		}
		if IsJSONOutput() {
			writeJSON(w, status)
		} else if status.RSVPd {
			fmt.Fprintln(w, ui.Success("You are registered ("+status.Status+")"))
		} else {
			fmt.Fprintln(w, "You are not registered for this event.")
		}
		return exitOK
	})
}

func printEvent(w io.Writer, ev *models.Event) {
	if IsJSONOutput() {
		writeJSON(w, ev)
		return
	}
	fmt.Fprintln(w, formatEventHuman(ev))
}

// formatEventHuman formats a single event for human readability
func formatEventHuman(ev *models.Event) string {
	out := ui.Title.Render(ev.Title) + "\n"
	out += ui.Field("ID", ev.EventID) + "\n"
	out += ui.Field("When", ev.DateTime) + "\n"
	where := ev.Location.Address
	if where == "" {
		where = fmt.Sprintf("%.5f, %.5f", ev.Location.Latitude, ev.Location.Longitude)
	}
	out += ui.Field("Where", where)
	if ev.Category != "" {
		out += "\n" + ui.Field("Category", ev.Category)
	}
	if ev.Capacity != nil {
		out += "\n" + ui.Field("Capacity", fmt.Sprint(*ev.Capacity))
	}
	if ev.Supplies != "" {
		out += "\n" + ui.Field("Supplies", ev.Supplies)
	}
	if ev.Description != "" {
		out += "\n\n" + ev.Description
	}
	return out
}

// printDone reports a mutation that returns no body
func printDone(w io.Writer, msg string, jsonOut map[string]any) {
	if IsJSONOutput() {
		writeJSON(w, jsonOut)
		return
	}
	fmt.Fprintln(w, ui.Success(msg))
}

package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/weekplan/internal/calendar/application/commands"
	"github.com/felixgeelhaar/weekplan/internal/calendar/application/queries"
	planningDomain "github.com/felixgeelhaar/weekplan/internal/planning/domain"
)

var (
	eventStart string
	eventEnd   string
	eventFree  bool
)

var eventCmd = &cobra.Command{
	Use:   "event",
	Short: "Manage calendar events",
}

var eventAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a manual calendar event",
	Long: `Add a busy interval by hand. The planner schedules around it.

Examples:
  weekplan event add "Dentist" --start "2026-01-07 14:00" --end "2026-01-07 15:00"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		start, err := time.ParseInLocation("2006-01-02 15:04", eventStart, time.Local)
		if err != nil {
			return fmt.Errorf("invalid start, use \"YYYY-MM-DD HH:MM\": %w", err)
		}
		end, err := time.ParseInLocation("2006-01-02 15:04", eventEnd, time.Local)
		if err != nil {
			return fmt.Errorf("invalid end, use \"YYYY-MM-DD HH:MM\": %w", err)
		}

		result, err := app.AddEvent.Handle(cmd.Context(), commands.AddEventCommand{
			UserID: app.UserID,
			Title:  args[0],
			Start:  start,
			End:    end,
			IsBusy: !eventFree,
		})
		if err != nil {
			return fmt.Errorf("failed to add event: %w", err)
		}

		fmt.Println("Event added.")
		fmt.Printf("  ID: %s\n", result.EventID)
		return nil
	},
}

var eventListCmd = &cobra.Command{
	Use:   "list",
	Short: "List this week's events",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		weekStart, err := currentWeekStart(cmd)
		if err != nil {
			return err
		}

		events, err := app.ListEvents.Handle(cmd.Context(), queries.ListEventsQuery{
			UserID: app.UserID,
			From:   weekStart,
			To:     weekStart.AddDate(0, 0, planningDomain.HorizonDays),
		})
		if err != nil {
			return fmt.Errorf("failed to list events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No events this week.")
			return nil
		}

		fmt.Printf("%-36s  %-16s  %-6s  %s\n", "ID", "START", "SOURCE", "TITLE")
		fmt.Println(strings.Repeat("-", 80))
		for _, e := range events {
			title := e.Title
			if !e.IsBusy {
				title += " (free)"
			}
			fmt.Printf("%-36s  %-16s  %-6s  %s\n",
				e.ID, e.Start.Local().Format("Jan 2 15:04"), e.Source, title)
		}
		return nil
	},
}

var eventImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import events from the configured CalDAV calendar",
	Long: `Fetch this week's events from the CalDAV server configured via
CALDAV_URL and upsert them into the local store.

Re-importing updates events in place, keyed by their calendar UID.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}
		if app.ImportEvents == nil {
			fmt.Println("Calendar import requires a CalDAV server.")
			fmt.Println("Set CALDAV_URL (plus credentials) to enable it.")
			return nil
		}

		weekStart, err := currentWeekStart(cmd)
		if err != nil {
			return err
		}

		result, err := app.ImportEvents.Handle(cmd.Context(), commands.ImportEventsCommand{
			UserID: app.UserID,
			From:   weekStart,
			To:     weekStart.AddDate(0, 0, planningDomain.HorizonDays),
		})
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		fmt.Printf("Import complete: %d new, %d updated.\n", result.Imported, result.Updated)
		return nil
	},
}

func init() {
	eventAddCmd.Flags().StringVar(&eventStart, "start", "", "start (\"YYYY-MM-DD HH:MM\", local time)")
	eventAddCmd.Flags().StringVar(&eventEnd, "end", "", "end (\"YYYY-MM-DD HH:MM\", local time)")
	eventAddCmd.Flags().BoolVar(&eventFree, "free", false, "mark the event as free (non-blocking)")
	_ = eventAddCmd.MarkFlagRequired("start")
	_ = eventAddCmd.MarkFlagRequired("end")

	eventCmd.AddCommand(eventAddCmd, eventListCmd, eventImportCmd)
	rootCmd.AddCommand(eventCmd)
}

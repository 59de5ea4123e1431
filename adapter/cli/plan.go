package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	identityDomain "github.com/felixgeelhaar/weekplan/internal/identity/domain"
	planningCommands "github.com/felixgeelhaar/weekplan/internal/planning/application/commands"
	planningQueries "github.com/felixgeelhaar/weekplan/internal/planning/application/queries"
	planningDomain "github.com/felixgeelhaar/weekplan/internal/planning/domain"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Rebuild the schedule for the current week",
	Long: `Plan the current week: wipe the existing schedule, place habit
blocks at their fixed times, then fill the remaining free time with
task chunks in priority order.

Planning is destructive by design. Every run clears the previous
block set and rebuilds it from the current backlog, so rerunning
after editing tasks or habits is always safe.

Examples:
  weekplan plan            # Rebuild this week's schedule
  weekplan plan show       # Print the current schedule`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		result, err := app.PlanWeek.Handle(cmd.Context(), planningCommands.PlanWeekCommand{
			UserID: app.UserID,
		})
		if errors.Is(err, identityDomain.ErrNoProfile) {
			fmt.Println("No profile found. Create one first:")
			fmt.Println("  weekplan settings init --timezone Europe/Berlin")
			return nil
		}
		if errors.Is(err, identityDomain.ErrNoWorkingHours) {
			fmt.Println("No working hours configured. Enable at least one day:")
			fmt.Println("  weekplan settings hours monday 09:00 17:00")
			return nil
		}
		if err != nil {
			return fmt.Errorf("planning failed: %w", err)
		}

		fmt.Printf("Week of %s planned.\n", result.WeekStart.Format("Monday, January 2"))
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("  Blocks created: %d (%d task, %d habit)\n",
			result.BlocksCreated, result.TaskBlocks, result.HabitBlocks)

		if len(result.Unplaced) > 0 {
			fmt.Println()
			fmt.Println("  Not everything fit this week:")
			for _, u := range result.Unplaced {
				fmt.Printf("    - %s (%d min left over)\n", u.Title, u.RemainingMin)
			}
		}

		return nil
	},
}

var planShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current week's schedule",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		weekStart, err := currentWeekStart(cmd)
		if err != nil {
			return err
		}

		view, err := app.GetWeek.Handle(cmd.Context(), planningQueries.GetWeekQuery{
			UserID:    app.UserID,
			WeekStart: weekStart,
		})
		if err != nil {
			return fmt.Errorf("failed to load week: %w", err)
		}

		printWeek(view)
		return nil
	},
}

// currentWeekStart resolves Monday midnight in the profile timezone.
func currentWeekStart(cmd *cobra.Command) (time.Time, error) {
	app := GetApp()

	profile, err := app.Settings.Get(cmd.Context(), app.UserID)
	if errors.Is(err, identityDomain.ErrNoProfile) {
		return planningDomain.WeekStart(time.Now(), time.Local), nil
	}
	if err != nil {
		return time.Time{}, err
	}
	loc, err := profile.Location()
	if err != nil {
		return time.Time{}, err
	}
	return planningDomain.WeekStart(time.Now(), loc), nil
}

func printWeek(view *planningQueries.WeekView) {
	empty := true
	for _, day := range view.Days {
		if len(day.Blocks) == 0 {
			continue
		}
		empty = false

		fmt.Println()
		fmt.Println(day.Date.Format("Monday, January 2"))
		fmt.Println(strings.Repeat("-", 40))
		for _, block := range day.Blocks {
			marker := " "
			if block.Type == "habit" {
				marker = "~"
			} else if block.Type == "event" {
				marker = "*"
			}
			fmt.Printf("  %s %s-%s  %s\n", marker,
				block.Start.Format("15:04"), block.End.Format("15:04"), block.Title)
			if verbose && block.Explanation != "" {
				fmt.Printf("      %s\n", block.Explanation)
			}
		}
	}

	if empty {
		fmt.Println("Nothing scheduled this week. Run `weekplan plan` first.")
		return
	}
	fmt.Println()
	fmt.Println("  ~ habit  * calendar event")
}

func init() {
	planCmd.AddCommand(planShowCmd)
	rootCmd.AddCommand(planCmd)
}

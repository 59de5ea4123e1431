package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	insightsQueries "github.com/felixgeelhaar/weekplan/internal/insights/application/queries"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show statistics for the current week",
	Long: `Summarize the planned week: focus minutes, habit minutes, task
completion, and how the focus time is spread across days and
time-of-day windows.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		weekStart, err := currentWeekStart(cmd)
		if err != nil {
			return err
		}

		stats, err := app.WeeklyStats.Handle(cmd.Context(), insightsQueries.WeeklyStatsQuery{
			UserID:    app.UserID,
			WeekStart: weekStart,
		})
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}

		fmt.Printf("Week of %s\n", stats.WeekStart.Format("Monday, January 2"))
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("  Focus time:  %s in %d blocks\n", formatMinutes(stats.FocusMinutes), stats.TaskBlocks)
		fmt.Printf("  Habit time:  %s in %d blocks\n", formatMinutes(stats.HabitMinutes), stats.HabitBlocks)
		fmt.Printf("  Tasks done:  %d of %d (%.0f%%)\n",
			stats.TasksDone, stats.TasksTotal, stats.CompletionRate*100)

		if len(stats.MinutesByWindow) > 0 {
			fmt.Println()
			fmt.Println("  Focus by window:")
			for _, window := range []string{"morning", "afternoon", "evening", "off_hours"} {
				if minutes, ok := stats.MinutesByWindow[window]; ok {
					fmt.Printf("    %-10s %s\n", window, formatMinutes(minutes))
				}
			}
		}

		if len(stats.MinutesByWeekday) > 0 {
			fmt.Println()
			fmt.Println("  Focus by day:")
			for offset := 0; offset < 7; offset++ {
				day := time.Weekday((int(time.Monday) + offset) % 7).String()
				if minutes, ok := stats.MinutesByWeekday[day]; ok {
					fmt.Printf("    %-10s %s\n", day, formatMinutes(minutes))
				}
			}
		}
		return nil
	},
}

func formatMinutes(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%dm", minutes)
	}
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh%02dm", minutes/60, minutes%60)
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

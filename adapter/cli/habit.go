package cli

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/weekplan/internal/habits/application/commands"
	"github.com/felixgeelhaar/weekplan/internal/habits/application/queries"
)

var (
	habitStart     string
	habitDuration  int
	habitProtected bool
	habitRecur     string
	habitAll       bool
)

var habitCmd = &cobra.Command{
	Use:   "habit",
	Short: "Manage recurring habits",
}

var habitAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a recurring habit",
	Long: `Add a habit at a fixed daily start time. Habit blocks are placed
before any task during planning.

Recurrence supports daily and weekly-by-day rules. Anything richer
falls back to daily.

Examples:
  weekplan habit add "Morning yoga" --start 07:00 --duration 30 --protected
  weekplan habit add "Long run" --start 10:00 --duration 60 --rrule "FREQ=WEEKLY;BYDAY=SA"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		result, err := app.CreateHabit.Handle(cmd.Context(), commands.CreateHabitCommand{
			UserID:      app.UserID,
			Name:        args[0],
			StartTime:   habitStart,
			DurationMin: habitDuration,
			Protected:   habitProtected,
			Recurrence:  habitRecur,
		})
		if err != nil {
			return fmt.Errorf("failed to add habit: %w", err)
		}

		fmt.Println("Habit added.")
		fmt.Printf("  ID: %s\n", result.HabitID)
		if result.DowngradedRecurrence {
			fmt.Println("  Note: the recurrence rule is not supported and was downgraded to daily.")
		}
		return nil
	},
}

var habitListCmd = &cobra.Command{
	Use:   "list",
	Short: "List habits",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		habits, err := app.ListHabits.Handle(cmd.Context(), queries.ListHabitsQuery{
			UserID:          app.UserID,
			IncludeArchived: habitAll,
		})
		if err != nil {
			return fmt.Errorf("failed to list habits: %w", err)
		}

		if len(habits) == 0 {
			fmt.Println("No habits. Add one with `weekplan habit add`.")
			return nil
		}

		fmt.Printf("%-36s  %-5s  %5s  %s\n", "ID", "START", "DUR", "NAME")
		fmt.Println(strings.Repeat("-", 70))
		for _, h := range habits {
			name := h.Name
			if h.Protected {
				name += " (protected)"
			}
			if h.Archived {
				name += " (archived)"
			}
			fmt.Printf("%-36s  %-5s  %4dm  %s\n", h.ID, h.StartTime, h.DurationMin, name)
		}
		return nil
	},
}

var habitArchiveCmd = &cobra.Command{
	Use:   "archive <habit-id>",
	Short: "Archive a habit",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		habitID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid habit ID: %w", err)
		}

		if err := app.ArchiveHabit.Handle(cmd.Context(), commands.ArchiveHabitCommand{HabitID: habitID}); err != nil {
			return fmt.Errorf("failed to archive habit: %w", err)
		}

		fmt.Println("Habit archived. It will not appear in future plans.")
		return nil
	},
}

func init() {
	habitAddCmd.Flags().StringVar(&habitStart, "start", "", "daily start time (HH:MM)")
	habitAddCmd.Flags().IntVar(&habitDuration, "duration", 30, "duration in minutes")
	habitAddCmd.Flags().BoolVar(&habitProtected, "protected", false, "mark as protected")
	habitAddCmd.Flags().StringVar(&habitRecur, "rrule", "", "recurrence rule (default daily)")
	_ = habitAddCmd.MarkFlagRequired("start")

	habitListCmd.Flags().BoolVar(&habitAll, "all", false, "include archived habits")

	habitCmd.AddCommand(habitAddCmd, habitListCmd, habitArchiveCmd)
	rootCmd.AddCommand(habitCmd)
}

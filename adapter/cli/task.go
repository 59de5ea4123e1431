package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/weekplan/internal/tasks/application/commands"
	"github.com/felixgeelhaar/weekplan/internal/tasks/application/queries"
)

var (
	taskPriority string
	taskDue      string
	taskEst      int
	taskChunk    int
	taskEnergy   string
	taskWindow   string
	taskHard     bool
	taskStatus   string
	snoozeUntil  string
)

var taskCmd = &cobra.Command{
	Use:   "task",
	Short: "Manage the task backlog",
}

var taskAddCmd = &cobra.Command{
	Use:   "add <title>",
	Short: "Add a task to the backlog",
	Long: `Add a task to the backlog. The next planning run places it.

Examples:
  weekplan task add "Write quarterly report" --priority p1 --est 120
  weekplan task add "Review PRs" --est 45 --chunk 45 --window morning
  weekplan task add "File taxes" --due 2026-04-10 --hard`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		var due *time.Time
		if taskDue != "" {
			parsed, err := time.Parse("2006-01-02", taskDue)
			if err != nil {
				return fmt.Errorf("invalid due date, use YYYY-MM-DD: %w", err)
			}
			due = &parsed
		}

		result, err := app.CreateTask.Handle(cmd.Context(), commands.CreateTaskCommand{
			UserID:       app.UserID,
			Title:        args[0],
			Priority:     taskPriority,
			Due:          due,
			EstMin:       taskEst,
			MinChunkMin:  taskChunk,
			Energy:       taskEnergy,
			Window:       taskWindow,
			HardDeadline: taskHard,
		})
		if err != nil {
			return fmt.Errorf("failed to add task: %w", err)
		}

		fmt.Println("Task added to backlog.")
		fmt.Printf("  ID: %s\n", result.TaskID)
		return nil
	},
}

var taskParseCmd = &cobra.Command{
	Use:   "parse <text>",
	Short: "Add a task from natural language",
	Long: `Send free text to the parser service and add the structured task
it returns.

Requires PARSER_URL to be configured.

Examples:
  weekplan task parse "finish the slide deck by friday, about 2 hours, p1"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}
		if app.ParserClient == nil {
			fmt.Println("Task parsing requires a parser service.")
			fmt.Println("Set PARSER_URL (and PARSER_API_KEY) to enable it.")
			return nil
		}

		parsed, err := app.ParserClient.Parse(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("failed to parse task: %w", err)
		}

		result, err := app.CreateTask.Handle(cmd.Context(), commands.CreateTaskCommand{
			UserID:       app.UserID,
			Title:        parsed.Title,
			Priority:     parsed.Priority,
			Due:          parsed.Due,
			EstMin:       parsed.EstMin,
			MinChunkMin:  taskChunk,
			Energy:       parsed.Energy,
			Window:       parsed.Window,
			HardDeadline: parsed.HardDeadline,
		})
		if err != nil {
			return fmt.Errorf("failed to add parsed task: %w", err)
		}

		fmt.Printf("Task added: %q\n", parsed.Title)
		fmt.Printf("  ID: %s\n", result.TaskID)
		return nil
	},
}

var taskListCmd = &cobra.Command{
	Use:   "list",
	Short: "List tasks",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		tasks, err := app.ListTasks.Handle(cmd.Context(), queries.ListTasksQuery{
			UserID: app.UserID,
			Status: taskStatus,
		})
		if err != nil {
			return fmt.Errorf("failed to list tasks: %w", err)
		}

		if len(tasks) == 0 {
			fmt.Println("No tasks. Add one with `weekplan task add`.")
			return nil
		}

		fmt.Printf("%-36s  %-4s  %-11s  %5s  %s\n", "ID", "PRI", "STATUS", "EST", "TITLE")
		fmt.Println(strings.Repeat("-", 80))
		for _, t := range tasks {
			title := t.Title
			if t.Due != nil {
				title = fmt.Sprintf("%s (due %s)", title, t.Due.Format("Jan 2"))
			}
			fmt.Printf("%-36s  %-4s  %-11s  %4dm  %s\n",
				t.ID, strings.ToUpper(t.Priority), t.Status, t.EstMin, title)
		}
		return nil
	},
}

var taskDoneCmd = &cobra.Command{
	Use:     "done <task-id>",
	Short:   "Mark a task as done",
	Aliases: []string{"complete"},
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}

		if err := app.CompleteTask.Handle(cmd.Context(), commands.CompleteTaskCommand{TaskID: taskID}); err != nil {
			return fmt.Errorf("failed to complete task: %w", err)
		}

		fmt.Println("Task done.")
		return nil
	},
}

var taskSnoozeCmd = &cobra.Command{
	Use:   "snooze <task-id>",
	Short: "Hide a task from planning until a date",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		taskID, err := uuid.Parse(args[0])
		if err != nil {
			return fmt.Errorf("invalid task ID: %w", err)
		}
		until, err := time.Parse("2006-01-02", snoozeUntil)
		if err != nil {
			return fmt.Errorf("invalid snooze date, use YYYY-MM-DD: %w", err)
		}

		if err := app.SnoozeTask.Handle(cmd.Context(), commands.SnoozeTaskCommand{
			TaskID: taskID,
			Until:  until,
		}); err != nil {
			return fmt.Errorf("failed to snooze task: %w", err)
		}

		fmt.Printf("Task snoozed until %s.\n", until.Format("Jan 2"))
		return nil
	},
}

func init() {
	taskAddCmd.Flags().StringVar(&taskPriority, "priority", "p3", "priority: p1..p4")
	taskAddCmd.Flags().StringVar(&taskDue, "due", "", "due date (YYYY-MM-DD)")
	taskAddCmd.Flags().IntVar(&taskEst, "est", 60, "estimated minutes")
	taskAddCmd.Flags().IntVar(&taskChunk, "chunk", 30, "minimum chunk minutes")
	taskAddCmd.Flags().StringVar(&taskEnergy, "energy", "", "energy: low, medium, high")
	taskAddCmd.Flags().StringVar(&taskWindow, "window", "", "preferred window: morning, afternoon, evening, any")
	taskAddCmd.Flags().BoolVar(&taskHard, "hard", false, "hard deadline")

	taskListCmd.Flags().StringVar(&taskStatus, "status", "", "filter by status")

	taskSnoozeCmd.Flags().StringVar(&snoozeUntil, "until", "", "snooze until date (YYYY-MM-DD)")
	_ = taskSnoozeCmd.MarkFlagRequired("until")

	taskCmd.AddCommand(taskAddCmd, taskParseCmd, taskListCmd, taskDoneCmd, taskSnoozeCmd)
	rootCmd.AddCommand(taskCmd)
}

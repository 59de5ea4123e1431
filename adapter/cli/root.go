// Package cli implements the weekplan command line interface.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/weekplan/pkg/observability"
)

var (
	verbose bool
	logger  *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "weekplan",
	Short: "Weekplan - weekly auto-planning for tasks and habits",
	Long: `Weekplan turns a task backlog, recurring habits, and calendar
events into a non-overlapping weekly schedule.

Habits claim their fixed slots first, then tasks are placed into the
remaining free time in priority order, split into focus-sized chunks.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx := observability.WithCorrelationID(cmd.Context(), info.correlationID.String())
		cmd.SetContext(contextWithCommand(ctx, info))
		logger.Debug("command start",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger == nil {
			logger = slog.Default()
		}
		info, ok := commandFromContext(cmd.Context())
		if !ok {
			return
		}
		logger.Debug("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

func contextWithCommand(ctx context.Context, info commandContext) context.Context {
	return context.WithValue(ctx, commandContextKey{}, info)
}

func commandFromContext(ctx context.Context) (commandContext, bool) {
	info, ok := ctx.Value(commandContextKey{}).(commandContext)
	return info, ok
}

package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	identityDomain "github.com/felixgeelhaar/weekplan/internal/identity/domain"
)

var settingsTimezone string

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage the planning profile",
}

var settingsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the planning profile",
	Long: `Create the profile with defaults: Monday to Friday 09:00-17:00,
90 minute focus blocks, 10 minute buffers. Running it again is a
no-op if a profile already exists.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		profile, err := app.Settings.EnsureProfile(cmd.Context(), app.UserID, settingsTimezone)
		if err != nil {
			return fmt.Errorf("failed to create profile: %w", err)
		}

		fmt.Printf("Profile ready (timezone %s).\n", profile.Timezone())
		fmt.Println("Adjust it with `weekplan settings hours`, `focus`, and `buffer`.")
		return nil
	},
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		profile, err := app.Settings.Get(cmd.Context(), app.UserID)
		if errors.Is(err, identityDomain.ErrNoProfile) {
			fmt.Println("No profile yet. Create one:")
			fmt.Println("  weekplan settings init --timezone Europe/Berlin")
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to load profile: %w", err)
		}

		fmt.Println("Planning profile")
		fmt.Println(strings.Repeat("-", 40))
		fmt.Printf("  Timezone:     %s\n", profile.Timezone())
		fmt.Printf("  Focus length: %d min\n", profile.FocusLengthMin())
		fmt.Printf("  Buffer:       %d min\n", profile.BufferMin())
		fmt.Println("  Working hours:")

		hours := profile.WorkingHours()
		for offset := 0; offset < 7; offset++ {
			day := time.Weekday((int(time.Monday) + offset) % 7)
			key := identityDomain.DayKey(day)
			dh, ok := hours[key]
			if !ok || !dh.Enabled {
				fmt.Printf("    %-10s off\n", key)
				continue
			}
			fmt.Printf("    %-10s %s-%s\n", key, dh.Start, dh.End)
		}
		return nil
	},
}

var settingsTimezoneCmd = &cobra.Command{
	Use:   "timezone <iana-name>",
	Short: "Set the profile timezone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		if err := app.Settings.SetTimezone(cmd.Context(), app.UserID, args[0]); err != nil {
			return fmt.Errorf("failed to set timezone: %w", err)
		}

		fmt.Printf("Timezone set to %s.\n", args[0])
		return nil
	},
}

var settingsHoursCmd = &cobra.Command{
	Use:   "hours <day> <start> <end>",
	Short: "Set working hours for a weekday",
	Long: `Enable a weekday and set its working range, HH:MM to HH:MM.

Examples:
  weekplan settings hours monday 09:00 17:00
  weekplan settings hours saturday 10:00 13:00`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		if err := app.Settings.SetDayHours(cmd.Context(), app.UserID, args[0], args[1], args[2]); err != nil {
			return fmt.Errorf("failed to set hours: %w", err)
		}

		fmt.Printf("%s: %s-%s.\n", titleDay(args[0]), args[1], args[2])
		return nil
	},
}

var settingsDisableDayCmd = &cobra.Command{
	Use:   "disable-day <day>",
	Short: "Remove a weekday from the working week",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		if err := app.Settings.DisableDay(cmd.Context(), app.UserID, args[0]); err != nil {
			return fmt.Errorf("failed to disable day: %w", err)
		}

		fmt.Printf("%s disabled. No blocks will be planned on it.\n", titleDay(args[0]))
		return nil
	},
}

var settingsFocusCmd = &cobra.Command{
	Use:   "focus <minutes>",
	Short: "Set the maximum uninterrupted work chunk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid minutes: %w", err)
		}
		if err := app.Settings.SetFocusLength(cmd.Context(), app.UserID, minutes); err != nil {
			return fmt.Errorf("failed to set focus length: %w", err)
		}

		fmt.Printf("Focus length set to %d min.\n", minutes)
		return nil
	},
}

var settingsBufferCmd = &cobra.Command{
	Use:   "buffer <minutes>",
	Short: "Set the gap kept between blocks",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := requireApp()
		if app == nil {
			return nil
		}

		minutes, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid minutes: %w", err)
		}
		if err := app.Settings.SetBuffer(cmd.Context(), app.UserID, minutes); err != nil {
			return fmt.Errorf("failed to set buffer: %w", err)
		}

		fmt.Printf("Buffer set to %d min.\n", minutes)
		return nil
	},
}

func titleDay(day string) string {
	day = strings.ToLower(day)
	if day == "" {
		return day
	}
	return strings.ToUpper(day[:1]) + day[1:]
}

func init() {
	settingsInitCmd.Flags().StringVar(&settingsTimezone, "timezone", "UTC", "IANA timezone name")

	settingsCmd.AddCommand(
		settingsInitCmd,
		settingsShowCmd,
		settingsTimezoneCmd,
		settingsHoursCmd,
		settingsDisableDayCmd,
		settingsFocusCmd,
		settingsBufferCmd,
	)
	rootCmd.AddCommand(settingsCmd)
}

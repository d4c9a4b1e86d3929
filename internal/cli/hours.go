package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/wire"
)

// HoursCmd returns the hours command
func HoursCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "hours",
		Short: "Manage the weekly business hours",
		Long:  `Show and edit the per-weekday business hours used for slot validation.`,
	}

	cmd.AddCommand(hoursListCmd())
	cmd.AddCommand(hoursSetCmd())
	cmd.AddCommand(hoursImportCmd())

	return cmd
}

func hoursListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the weekly schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			days, err := wire.ScheduleService().ListBusinessHours(context.Background())
			if err != nil {
				return err
			}

			if len(days) == 0 {
				fmt.Println("No business hours configured. Run `pitstop init` to seed defaults.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "DAY\tOPEN\tHOURS\tAFTER-HOURS DROP-OFF")
			fmt.Fprintln(w, "---\t----\t-----\t--------------------")
			for _, day := range days {
				window := "-"
				open := "no"
				if day.IsOpen {
					open = "yes"
					window = day.StartTime + " - " + day.EndTime
				}
				dropoff := "no"
				if day.AllowAfterHoursDropoff {
					dropoff = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", models.DayName(day.DayOfWeek), open, window, dropoff)
			}
			w.Flush()
			return nil
		},
	}
}

func hoursSetCmd() *cobra.Command {
	var (
		closed     bool
		start      string
		end        string
		afterHours bool
	)

	cmd := &cobra.Command{
		Use:   "set [day]",
		Short: "Set one weekday's hours",
		Long: `Set the schedule for one weekday by name.

Examples:
  pitstop hours set saturday --start 10:00 --end 14:00 --after-hours
  pitstop hours set sunday --closed`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dayIndex := -1
			for i, name := range models.DayNames {
				if strings.EqualFold(args[0], name) {
					dayIndex = i
					break
				}
			}
			if dayIndex < 0 {
				return fmt.Errorf("unknown day %q", args[0])
			}

			day := models.BusinessDaySchedule{
				DayOfWeek:              dayIndex,
				IsOpen:                 !closed,
				StartTime:              start,
				EndTime:                end,
				AllowAfterHoursDropoff: afterHours,
			}
			if err := wire.ScheduleService().SetBusinessHours(context.Background(), day); err != nil {
				return err
			}
			fmt.Printf("✓ Updated %s\n", models.DayName(dayIndex))
			return nil
		},
	}

	cmd.Flags().BoolVar(&closed, "closed", false, "Mark the day as closed")
	cmd.Flags().StringVar(&start, "start", "", "Opening time HH:MM")
	cmd.Flags().StringVar(&end, "end", "", "Closing time HH:MM")
	cmd.Flags().BoolVar(&afterHours, "after-hours", false, "Allow after-hours drop-off")

	return cmd
}

func hoursImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import the weekly schedule from a YAML file",
		Long: `Import business hours from a YAML document. The whole document is
validated before any row is written.

Format:
  hours:
    - day: monday
      open: true
      start: "09:00"
      end: "17:00"
    - day: sunday
      open: false`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}

			n, err := wire.ScheduleService().ImportBusinessHours(context.Background(), data)
			if err != nil {
				return err
			}
			fmt.Printf("✓ Imported %d day(s) from %s\n", n, args[0])
			return nil
		},
	}
}

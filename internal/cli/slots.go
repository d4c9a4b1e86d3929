package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/wire"
)

// SlotsCmd returns the slots command
func SlotsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "slots [date]",
		Short: "List available appointment slots for a date",
		Long: `List the free 10-minute appointment slots for a date (YYYY-MM-DD).

The grid runs 09:00-15:50 excluding the 12:00 lunch hour. Booked slots
are omitted; on the current day, slots less than 10 minutes away are
omitted too.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			slots, err := wire.ScheduleService().ListAvailableSlots(context.Background(), args[0])
			if err != nil {
				return err
			}

			if len(slots) == 0 {
				fmt.Printf("No available slots on %s.\n", args[0])
				return nil
			}

			fmt.Printf("Available slots on %s:\n", args[0])
			for i, slot := range slots {
				if i%6 == 0 {
					fmt.Println()
					fmt.Print(" ")
				}
				fmt.Printf(" %s", slot)
			}
			fmt.Println()
			return nil
		},
	}
}

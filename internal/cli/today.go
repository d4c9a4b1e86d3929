package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/wire"
)

// TodayCmd returns the today command
func TodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's appointments and the pending count",
		Long: `Show today's appointments ordered by time, plus the number of pending
requests. Both views are served from the snapshot cache when it is
fresh (5 minute expiry) and recomputed otherwise.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			pending, err := wire.SnapshotService().PendingCount(ctx)
			if err != nil {
				return err
			}
			board, err := wire.SnapshotService().TodayBoard(ctx)
			if err != nil {
				return err
			}

			fmt.Printf("Pending requests: %d\n", pending)
			fmt.Println()

			if len(board) == 0 {
				fmt.Println("No appointments today.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "TIME\tID\tSTATUS\tCUSTOMER\tVEHICLE")
			fmt.Fprintln(w, "----\t--\t------\t--------\t-------")
			for _, r := range board {
				name, vehicle := r.CustomerID, ""
				if r.Customer != nil {
					name = r.Customer.Name
				}
				if r.Vehicle != nil {
					vehicle = r.Vehicle.Make + " " + r.Vehicle.Model
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.AppointmentTime, r.ID, r.Status, name, vehicle)
			}
			w.Flush()
			return nil
		},
	}
}

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/ports/secondary"
	"github.com/example/pitstop/internal/wire"
)

// WatchCmd returns the watch command
func WatchCmd() *cobra.Command {
	var (
		topic    string
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Stream aggregate view updates",
		Long: `Subscribe to a notification topic and print every update as JSON.

Topics:
  appointments  pending count and today's appointments (default)
  workflow      board structure changes

The snapshot pipeline is polled on an interval so the stream carries
fresh views even while no mutations happen in this process.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if topic != secondary.TopicAppointments && topic != secondary.TopicWorkflow {
				return fmt.Errorf("unknown topic %q", topic)
			}

			messages, cancel := wire.Hub().Subscribe(topic)
			defer cancel()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

			ticker := time.NewTicker(interval)
			defer ticker.Stop()

			// Prime the stream with the current views.
			if _, err := wire.SnapshotService().Refresh(context.Background()); err != nil {
				return err
			}

			fmt.Fprintf(os.Stderr, "watching %s (Ctrl-C to stop)\n", topic)
			for {
				select {
				case msg, ok := <-messages:
					if !ok {
						return nil
					}
					line, err := json.Marshal(msg)
					if err != nil {
						return err
					}
					fmt.Println(string(line))
				case <-ticker.C:
					if _, err := wire.SnapshotService().Refresh(context.Background()); err != nil {
						fmt.Fprintf(os.Stderr, "refresh failed: %v\n", err)
					}
				case <-stop:
					return nil
				}
			}
		},
	}

	cmd.Flags().StringVar(&topic, "topic", secondary.TopicAppointments, "Topic to watch (appointments or workflow)")
	cmd.Flags().DurationVar(&interval, "interval", 30*time.Second, "Snapshot refresh interval")

	return cmd
}

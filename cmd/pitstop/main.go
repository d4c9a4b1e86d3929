package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/cli"
	"github.com/example/pitstop/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "pitstop",
		Short:   "Pitstop - repair shop scheduling and workflow board",
		Version: version.String(),
		Long: `Pitstop manages a repair shop's service requests: appointment booking
with slot validation, a kanban workflow board, and live aggregate views
of the day's work.`,
	}

	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.RequestCmd())
	rootCmd.AddCommand(cli.BoardCmd())
	rootCmd.AddCommand(cli.SlotsCmd())
	rootCmd.AddCommand(cli.HoursCmd())
	rootCmd.AddCommand(cli.CustomerCmd())
	rootCmd.AddCommand(cli.TodayCmd())
	rootCmd.AddCommand(cli.WatchCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

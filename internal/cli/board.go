package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/models"
	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/wire"
)

// BoardCmd returns the board command
func BoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Show and manage the workflow board",
		Long:  `Display the kanban board and move requests between its columns.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return renderBoard()
		},
	}

	cmd.AddCommand(boardMoveCmd())
	cmd.AddCommand(boardRepositionCmd())

	return cmd
}

func boardMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move [request-id] [column]",
		Short: "Move a request to another column",
		Long: `Move a request to the bottom of another column.

Columns: estimates, in_progress, waiting_parts, completed.
Completed is final; completed requests cannot move again.

Examples:
  pitstop board move REQ-001 in_progress
  pitstop board move REQ-001 completed`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := wire.BoardService().ProposeTransition(context.Background(), args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Moved %s to %s (status: %s)\n", r.ID, r.WorkflowColumn, r.Status)
			return nil
		},
	}
}

func boardRepositionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reposition [request-id] [column] [index]",
		Short: "Place a request at a specific index in a column",
		Long: `Place a request at an index (0 = top) in a column, reordering the
rest. Moving into a different column goes through the same transition
rules as board move.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			index, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid index %q", args[2])
			}

			r, err := wire.BoardService().Reposition(context.Background(), primary.RepositionRequest{
				RequestID:    args[0],
				TargetColumn: args[1],
				TargetIndex:  index,
			})
			if err != nil {
				return err
			}
			fmt.Printf("✓ %s is now at position %d in %s\n", r.ID, r.WorkflowPosition, r.WorkflowColumn)
			return nil
		},
	}
}

func renderBoard() error {
	board, err := wire.BoardService().Board(context.Background())
	if err != nil {
		return fmt.Errorf("failed to load board: %w", err)
	}

	pending, err := wire.SnapshotService().PendingCount(context.Background())
	if err == nil {
		fmt.Printf("Pending requests: %d\n\n", pending)
	}

	for _, column := range board {
		header := fmt.Sprintf("%s (%d)", column.Name, len(column.Requests))
		fmt.Println(columnColor(column.Name).Sprint(header))
		if len(column.Requests) == 0 {
			fmt.Println("  (empty)")
		}
		for _, r := range column.Requests {
			line := fmt.Sprintf("  %s  %s %s", r.ID, r.AppointmentDate, r.AppointmentTime)
			if r.Customer != nil {
				line += "  " + r.Customer.Name
			}
			if r.Vehicle != nil {
				line += fmt.Sprintf("  (%s %s)", r.Vehicle.Make, r.Vehicle.Model)
			}
			if r.Status == models.StatusCancelled {
				line += color.New(color.FgRed).Sprint(" [cancelled]")
			}
			fmt.Println(line)
		}
		fmt.Println()
	}
	return nil
}

func columnColor(column string) *color.Color {
	switch column {
	case models.ColumnEstimates:
		return color.New(color.FgYellow, color.Bold)
	case models.ColumnInProgress:
		return color.New(color.FgCyan, color.Bold)
	case models.ColumnWaitingParts:
		return color.New(color.FgMagenta, color.Bold)
	case models.ColumnCompleted:
		return color.New(color.FgGreen, color.Bold)
	}
	return color.New(color.Bold)
}

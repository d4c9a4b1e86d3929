package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/wire"
)

// RequestCmd returns the request command
func RequestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "request",
		Short: "Manage service requests",
		Long:  `Book, inspect, cancel and delete service requests.`,
	}

	cmd.AddCommand(requestCreateCmd())
	cmd.AddCommand(requestListCmd())
	cmd.AddCommand(requestShowCmd())
	cmd.AddCommand(requestCancelCmd())
	cmd.AddCommand(requestDeleteCmd())

	return cmd
}

func requestCreateCmd() *cobra.Command {
	var (
		customerID string
		vehicleID  string
		date       string
		clock      string
		afterHours bool
		services   []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Book a new service request",
		Long: `Book a service request into an appointment slot.

Slots run every 10 minutes from 09:00 to 15:50, excluding the 12:00
lunch hour. Each --service takes type[:urgency[:description]], with
urgency one of low, medium or high (default medium).

Examples:
  pitstop request create --customer CUST --vehicle VEH \
    --date 2026-09-01 --time 10:30 --service oil_change
  pitstop request create --customer CUST --vehicle VEH \
    --date 2026-09-01 --time 07:00 --after-hours \
    --service "brake_inspection:high:grinding noise"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			items := make([]primary.ServiceItemInput, 0, len(services))
			for _, raw := range services {
				parts := strings.SplitN(raw, ":", 3)
				item := primary.ServiceItemInput{ServiceType: parts[0]}
				if len(parts) > 1 {
					item.Urgency = parts[1]
				}
				if len(parts) > 2 {
					item.Description = parts[2]
				}
				items = append(items, item)
			}

			resp, err := wire.RequestService().CreateRequest(ctx, primary.CreateRequestRequest{
				CustomerID:        customerID,
				VehicleID:         vehicleID,
				AppointmentDate:   date,
				AppointmentTime:   clock,
				AfterHoursDropoff: afterHours,
				Services:          items,
			})
			if err != nil {
				return fmt.Errorf("failed to book request: %w", err)
			}

			fmt.Printf("✓ Booked %s for %s at %s\n", resp.RequestID, date, clock)
			return nil
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "Customer ID (required)")
	cmd.Flags().StringVar(&vehicleID, "vehicle", "", "Vehicle ID (required)")
	cmd.Flags().StringVar(&date, "date", "", "Appointment date YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&clock, "time", "", "Appointment time HH:MM (required)")
	cmd.Flags().BoolVar(&afterHours, "after-hours", false, "Request an after-hours drop-off")
	cmd.Flags().StringArrayVar(&services, "service", nil, "Service as type[:urgency[:description]] (repeatable)")
	_ = cmd.MarkFlagRequired("customer")
	_ = cmd.MarkFlagRequired("vehicle")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("time")

	return cmd
}

func requestListCmd() *cobra.Command {
	var (
		status   string
		column   string
		customer string
		date     string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List service requests",
		RunE: func(cmd *cobra.Command, args []string) error {
			requests, err := wire.RequestService().ListRequests(context.Background(), primary.RequestFilters{
				Status:          status,
				WorkflowColumn:  column,
				CustomerID:      customer,
				AppointmentDate: date,
			})
			if err != nil {
				return fmt.Errorf("failed to list requests: %w", err)
			}

			if len(requests) == 0 {
				fmt.Println("No requests found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tDATE\tTIME\tSTATUS\tCOLUMN\tCUSTOMER")
			fmt.Fprintln(w, "--\t----\t----\t------\t------\t--------")
			for _, r := range requests {
				name := r.CustomerID
				if r.Customer != nil {
					name = r.Customer.Name
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
					r.ID, r.AppointmentDate, r.AppointmentTime, r.Status, r.WorkflowColumn, name)
			}
			w.Flush()
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter by status")
	cmd.Flags().StringVar(&column, "column", "", "Filter by workflow column")
	cmd.Flags().StringVar(&customer, "customer", "", "Filter by customer ID")
	cmd.Flags().StringVar(&date, "date", "", "Filter by appointment date")

	return cmd
}

func requestShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [request-id]",
		Short: "Show request details and workflow history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := wire.RequestService().GetRequest(context.Background(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Request: %s\n", r.ID)
			fmt.Printf("Status: %s\n", r.Status)
			fmt.Printf("Column: %s (position %d)\n", r.WorkflowColumn, r.WorkflowPosition)
			fmt.Printf("Appointment: %s %s", r.AppointmentDate, r.AppointmentTime)
			if r.AfterHoursDropoff {
				fmt.Print(" (after-hours drop-off)")
			}
			fmt.Println()
			if r.Customer != nil {
				fmt.Printf("Customer: %s", r.Customer.Name)
				if r.Customer.Phone != "" {
					fmt.Printf(" (%s)", r.Customer.Phone)
				}
				fmt.Println()
			}
			if r.Vehicle != nil {
				fmt.Printf("Vehicle: %d %s %s\n", r.Vehicle.Year, r.Vehicle.Make, r.Vehicle.Model)
			}

			if len(r.Services) > 0 {
				fmt.Println()
				fmt.Println("Services:")
				for _, s := range r.Services {
					fmt.Printf("  - %s [%s]", s.ServiceType, s.Urgency)
					if s.Description != "" {
						fmt.Printf(" %s", s.Description)
					}
					fmt.Println()
				}
			}

			if len(r.WorkflowHistory) > 0 {
				fmt.Println()
				fmt.Println("History:")
				for _, h := range r.WorkflowHistory {
					fmt.Printf("  %s  %s -> %s\n", h.Timestamp, h.FromColumn, h.ToColumn)
				}
			}
			return nil
		},
	}
}

func requestCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel [request-id]",
		Short: "Cancel a request and free its slot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := wire.RequestService().CancelRequest(context.Background(), args[0])
			if err != nil {
				return err
			}
			fmt.Printf("✓ Cancelled %s; slot %s %s is free again\n", r.ID, r.AppointmentDate, r.AppointmentTime)
			return nil
		},
	}
}

func requestDeleteCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "delete [request-id]",
		Short: "Delete a request permanently",
		Long: `Delete a request and its service items from the database.

WARNING: This is a destructive operation and requires --force.
Prefer cancel, which keeps the record.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.RequestService().DeleteRequest(context.Background(), args[0], force); err != nil {
				return err
			}
			fmt.Printf("✓ Request %s deleted\n", args[0])
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Confirm the permanent deletion")

	return cmd
}

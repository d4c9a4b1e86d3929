package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/ports/primary"
	"github.com/example/pitstop/internal/wire"
)

// CustomerCmd returns the customer command
func CustomerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "customer",
		Short: "Manage customers and their vehicles",
	}

	cmd.AddCommand(customerAddCmd())
	cmd.AddCommand(customerListCmd())
	cmd.AddCommand(vehicleAddCmd())
	cmd.AddCommand(vehicleListCmd())

	return cmd
}

func customerAddCmd() *cobra.Command {
	var (
		phone     string
		email     string
		preferred string
	)

	cmd := &cobra.Command{
		Use:   "add [name]",
		Short: "Add a customer",
		Long: `Add a customer record. At least one of --phone or --email is required.

Examples:
  pitstop customer add "Dana Ortiz" --phone 555-0101
  pitstop customer add "Sam Lee" --email sam@example.com --preferred email`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			customer, err := wire.CustomerService().CreateCustomer(context.Background(), primary.CreateCustomerRequest{
				Name:             args[0],
				Phone:            phone,
				Email:            email,
				PreferredContact: preferred,
			})
			if err != nil {
				return fmt.Errorf("failed to add customer: %w", err)
			}
			fmt.Printf("✓ Added customer %s: %s\n", customer.ID, customer.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	cmd.Flags().StringVar(&preferred, "preferred", "", "Preferred contact method (phone or email)")

	return cmd
}

func customerListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all customers",
		RunE: func(cmd *cobra.Command, args []string) error {
			customers, err := wire.CustomerService().ListCustomers(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list customers: %w", err)
			}

			if len(customers) == 0 {
				fmt.Println("No customers found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tPHONE\tEMAIL")
			fmt.Fprintln(w, "--\t----\t-----\t-----")
			for _, c := range customers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Phone, c.Email)
			}
			w.Flush()
			return nil
		},
	}
}

func vehicleAddCmd() *cobra.Command {
	var (
		customerID string
		year       int
		vin        string
	)

	cmd := &cobra.Command{
		Use:   "add-vehicle [make] [model]",
		Short: "Add a vehicle for a customer",
		Long: `Add a vehicle to an existing customer.

Examples:
  pitstop customer add-vehicle Subaru Outback --customer CUST --year 2021
  pitstop customer add-vehicle Honda Civic --customer CUST --vin 2HGFC2F59MH000000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicle, err := wire.CustomerService().CreateVehicle(context.Background(), primary.CreateVehicleRequest{
				CustomerID: customerID,
				Make:       args[0],
				Model:      args[1],
				Year:       year,
				VIN:        vin,
			})
			if err != nil {
				return fmt.Errorf("failed to add vehicle: %w", err)
			}
			fmt.Printf("✓ Added vehicle %s: %s %s\n", vehicle.ID, vehicle.Make, vehicle.Model)
			return nil
		},
	}

	cmd.Flags().StringVar(&customerID, "customer", "", "Customer ID (required)")
	cmd.Flags().IntVar(&year, "year", 0, "Model year")
	cmd.Flags().StringVar(&vin, "vin", "", "Vehicle identification number")
	_ = cmd.MarkFlagRequired("customer")

	return cmd
}

func vehicleListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vehicles [customer-id]",
		Short: "List a customer's vehicles",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vehicles, err := wire.CustomerService().ListVehicles(context.Background(), args[0])
			if err != nil {
				return fmt.Errorf("failed to list vehicles: %w", err)
			}

			if len(vehicles) == 0 {
				fmt.Println("No vehicles found.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
			fmt.Fprintln(w, "ID\tMAKE\tMODEL\tYEAR\tVIN")
			fmt.Fprintln(w, "--\t----\t-----\t----\t---")
			for _, v := range vehicles {
				fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", v.ID, v.Make, v.Model, v.Year, v.VIN)
			}
			w.Flush()
			return nil
		},
	}
}

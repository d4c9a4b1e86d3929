// Package cli contains the cobra commands for the pitstop binary.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/pitstop/internal/config"
	"github.com/example/pitstop/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the pitstop database and default schedule",
		Long: `Initialize ~/.pitstop: write the default config, create the database
schema, and seed the default weekly business hours (Mon-Fri 09:00-17:00,
Sat 10:00-14:00 with after-hours drop-off, Sun closed).

Running init on an existing installation is safe: existing config and
business hours are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if err := config.Save(cfg); err != nil {
				return err
			}

			database, err := db.GetDB()
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			if err := db.SeedBusinessHours(database); err != nil {
				return err
			}

			path, err := db.GetDBPath()
			if err != nil {
				return err
			}
			fmt.Printf("✓ Initialized pitstop database at %s\n", path)
			fmt.Printf("✓ Shop timezone: %s\n", cfg.Timezone)
			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Println("  pitstop customer add \"Dana Ortiz\" --phone 555-0101")
			fmt.Println("  pitstop slots 2026-09-01")
			return nil
		},
	}
}

package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/svaldez/socialnet-api/internal/config"
	"github.com/svaldez/socialnet-api/internal/database"
)

// NewClearTablesCmd creates the clear-tables command
func NewClearTablesCmd() *cobra.Command {
	var confirmed bool

	cmd := &cobra.Command{
		Use:   "clear-tables",
		Short: "Delete all account data",
		Long:  "Delete every follow edge, profile, and user record. Irreversible.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !confirmed {
				return fmt.Errorf("refusing to clear tables without --yes")
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			if err := db.ClearTables(context.Background()); err != nil {
				return fmt.Errorf("failed to clear tables: %w", err)
			}

			fmt.Println("All account tables cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&confirmed, "yes", false, "Confirm deletion of all account data")

	return cmd
}

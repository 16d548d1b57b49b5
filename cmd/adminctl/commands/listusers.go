package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/svaldez/socialnet-api/internal/config"
	"github.com/svaldez/socialnet-api/internal/database"
)

// NewListUsersCmd creates the list-users command
func NewListUsersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list-users",
		Short: "List registered users",
		Long:  "List all registered users with their public ids and usernames",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			userRepo := database.NewUserRepository(db)
			ctx := context.Background()

			users, err := userRepo.List(ctx)
			if err != nil {
				return fmt.Errorf("failed to list users: %w", err)
			}

			if len(users) == 0 {
				fmt.Println("No users registered")
				return nil
			}

			fmt.Printf("Registered users (%d):\n", len(users))
			for _, user := range users {
				fmt.Printf("  - ID: %s\n", user.ID)
				fmt.Printf("    Username: %s\n", user.Username)
				if user.Name != nil {
					fmt.Printf("    Name: %s\n", *user.Name)
				}
				fmt.Printf("    Email: %s\n", user.Email)
				fmt.Println()
			}

			return nil
		},
	}

	return cmd
}

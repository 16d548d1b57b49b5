package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/svaldez/socialnet-api/cmd/adminctl/commands"
)

func main() {
	_ = godotenv.Load()

	var rootCmd = &cobra.Command{
		Use:   "socialnet-adminctl",
		Short: "Administration tool for the social network account service",
		Long:  "CLI tool for inspecting and resetting account service data",
	}

	rootCmd.AddCommand(commands.NewListUsersCmd())
	rootCmd.AddCommand(commands.NewClearTablesCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

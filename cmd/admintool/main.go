package main

import (
	"os"

	"github.com/spf13/cobra"

	"todo-admin-service/internal/tools/migrate"
	"todo-admin-service/internal/tools/seed"
)

func main() {
	root := &cobra.Command{
		Use:          "admintool",
		Short:        "Operational commands for the todo admin service",
		SilenceUsage: true,
	}
	root.AddCommand(migrate.NewRootCommand(), seed.NewRootCommand())
	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

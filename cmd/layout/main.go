// Package main implements the layout CLI: the floor plan HTTP service and
// offline snapshot tools.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "layout",
	Short: "Restaurant floor plan service",
	Long:  "Compose a restaurant floor plan from labeled Square, Diamond and Circle tables and save or restore it as JSON snapshots.",
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

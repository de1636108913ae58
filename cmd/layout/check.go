package main

import (
	"errors"
	"fmt"
	"os"

	"restaurant-layout/internal/layout/codec"
	"restaurant-layout/internal/layout/models"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <snapshot.json>",
	Short: "Validate a snapshot file",
	Long:  "Checks that a snapshot file restores cleanly and prints how many shapes of each kind it holds.",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	shapes, err := codec.Restore(data)
	if err != nil {
		var pe *codec.ParseError
		if errors.As(err, &pe) {
			for _, f := range pe.Fields {
				fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", f.Field, f.Message)
			}
		}
		return err
	}

	counts := make(map[models.ShapeKind]int)
	occupied := 0
	for _, s := range shapes {
		counts[s.Kind()]++
		if s.Attributes().Occupied {
			occupied++
		}
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d shapes, %d occupied\n", args[0], len(shapes), occupied)
	for _, k := range models.Kinds() {
		fmt.Fprintf(out, "  %-8s %d\n", k, counts[k])
	}
	return nil
}

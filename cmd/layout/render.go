package main

import (
	"fmt"
	"os"

	"restaurant-layout/internal/layout/canvas"
	"restaurant-layout/internal/layout/codec"

	"github.com/spf13/cobra"
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a snapshot file to SVG",
	RunE:  runRender,
}

var (
	renderInFile     string
	renderOutFile    string
	renderWidth      float64
	renderHeight     float64
	renderBackground string
)

func init() {
	renderCmd.Flags().StringVarP(&renderInFile, "in", "i", "", "Path to snapshot JSON file (required)")
	renderCmd.Flags().StringVarP(&renderOutFile, "out", "o", "", "Path to output SVG file (stdout if empty)")
	renderCmd.Flags().Float64Var(&renderWidth, "width", canvas.DefaultWidth, "Canvas width")
	renderCmd.Flags().Float64Var(&renderHeight, "height", canvas.DefaultHeight, "Canvas height")
	renderCmd.Flags().StringVar(&renderBackground, "background", canvas.DefaultBackground, "Canvas background colour")
	_ = renderCmd.MarkFlagRequired("in")

	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(renderInFile)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	shapes, err := codec.Restore(data)
	if err != nil {
		return err
	}

	svg := canvas.Render(shapes, renderWidth, renderHeight, renderBackground)
	if renderOutFile == "" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), svg)
		return err
	}
	if err := os.WriteFile(renderOutFile, []byte(svg), 0o644); err != nil {
		return fmt.Errorf("write svg: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Rendered %d shapes to %s\n", len(shapes), renderOutFile)
	return nil
}

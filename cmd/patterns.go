package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rzstudio/abstractgen/internal/palette"
	"github.com/rzstudio/abstractgen/internal/render"
)

// CreatePatternsCmd creates the catalog listing command.
func CreatePatternsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "patterns",
		Short: "List available patterns, overlays and palette harmonies",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println("Patterns:")
			for _, p := range render.Patterns {
				fmt.Printf("  %s\n", p)
			}
			fmt.Println("\nOverlays:")
			for _, o := range render.Overlays {
				fmt.Printf("  %s\n", o)
			}
			fmt.Println("\nHarmonies:")
			for _, h := range palette.HarmonyTypes {
				fmt.Printf("  %s\n", h)
			}
		},
	}
}

package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rzstudio/abstractgen/internal/encoders"
	"github.com/rzstudio/abstractgen/internal/logging"
)

// CreateProbeCmd creates the encoder capability probe command.
func CreateProbeCmd() *cobra.Command {
	var force bool
	var asJSON bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Detect the working hardware H.264 encoder",
		Long: `Test-encodes a tiny clip with each candidate hardware encoder ` +
			`(NVENC, AMF, QSV) and reports the first one that actually works on ` +
			`this machine, falling back to libx264.`,
		Run: func(_ *cobra.Command, _ []string) {
			level := "info"
			if quiet {
				level = "error"
			}
			logging.Initialize(logging.Config{Level: level, Format: "text"})

			cap := encoders.Probe(force)

			if asJSON {
				if err := json.NewEncoder(os.Stdout).Encode(cap); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				return
			}
			fmt.Printf("encoder: %s\n", cap.Name)
			fmt.Printf("label:   %s\n", cap.Label)
			fmt.Printf("hwaccel: %t\n", cap.HWAccel)
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Bypass the cached result and re-probe")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the result as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress probe progress output")

	return cmd
}

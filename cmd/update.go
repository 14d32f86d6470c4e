package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rzstudio/abstractgen/internal/logging"
	"github.com/rzstudio/abstractgen/internal/updater"
	"github.com/rzstudio/abstractgen/internal/version"
)

// CreateUpdateCmd creates the self-update command.
func CreateUpdateCmd() *cobra.Command {
	var checkOnly bool
	var prerelease bool
	var rollback bool

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update to the latest GitHub release",
		Run: func(cmd *cobra.Command, _ []string) {
			logging.Initialize(logging.Config{Level: "info", Format: "text"})

			u, err := updater.New(updater.Options{Prerelease: prerelease})
			if err != nil {
				fmt.Fprintf(os.Stderr, "update unavailable: %v\n", err)
				os.Exit(1)
			}

			if rollback {
				if err := u.Rollback(); err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(1)
				}
				fmt.Printf("Rolled back to %s\n", u.BackupVersion())
				return
			}

			info, err := u.Check(cmd.Context())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}

			if !info.UpdateAvailable {
				fmt.Printf("Already up to date (%s)\n", version.String())
				return
			}

			fmt.Printf("Update available: %s -> %s\n", info.CurrentVersion, info.LatestVersion)
			if checkOnly {
				fmt.Println(info.ReleaseURL)
				return
			}

			if err := u.Apply(cmd.Context()); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			fmt.Printf("Updated to %s\n", info.LatestVersion)
		},
	}

	cmd.Flags().BoolVar(&checkOnly, "check", false, "Only check for an update, do not apply it")
	cmd.Flags().BoolVar(&prerelease, "prerelease", false, "Include prereleases")
	cmd.Flags().BoolVar(&rollback, "rollback", false, "Restore the previously backed up binary")

	return cmd
}

package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/toolscout/toolscout/internal/version"
)

// NewVersionCmd creates the 'version' command.
func NewVersionCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(version.GetVersion())

			if !check {
				return nil
			}

			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()

			latest, err := version.CheckUpdate(ctx)
			if err != nil {
				return fmt.Errorf("update check failed: %w", err)
			}
			if latest == "" {
				fmt.Println("You are on the latest version.")
			} else {
				fmt.Printf("Update available: %s → %s\nDownload: %s\n", version.Version, latest, version.UpdateURL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "check GitHub for a newer release")
	return cmd
}

package data

import (
	"fmt"

	"github.com/spf13/cobra"

	"climbtrack/internal/app"
)

// DataCmd is the parent command for backup and housekeeping operations.
var DataCmd = &cobra.Command{
	Use:   "data",
	Short: "Backup, restore and wipe tracker data",
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	a, _ := cmd.Context().Value("app").(*app.App)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}

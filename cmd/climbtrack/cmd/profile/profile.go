package profile

import (
	"fmt"

	"github.com/spf13/cobra"

	"climbtrack/internal/app"
)

// ProfileCmd is the parent command for profile operations.
var ProfileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage the local user profile",
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	a, _ := cmd.Context().Value("app").(*app.App)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}

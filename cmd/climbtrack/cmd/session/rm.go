package session

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var RmCmd = &cobra.Command{
	Use:   "rm <session-id>",
	Short: "Delete a recorded session",
	Long:  `Delete a session by id. Deleting an unknown id is a no-op.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		if err := a.Store.DeleteSession(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("could not delete session: %w", err)
		}
		color.Green("Session deleted: %s", args[0])
		return nil
	},
}

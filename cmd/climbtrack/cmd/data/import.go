package data

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ImportCmd = &cobra.Command{
	Use:   "import <bundle-file>",
	Short: "Restore data from a backup bundle",
	Long: `Validate and restore a backup bundle. The current state is kept
under a timestamped safety key before it is overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		bundle, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read backup file: %w", err)
		}

		if err := a.Store.Import(cmd.Context(), string(bundle)); err != nil {
			return fmt.Errorf("could not import backup: %w", err)
		}

		color.Green("Backup imported from %s", args[0])
		return nil
	},
}

package data

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var wipeYes bool

var WipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete all tracker data",
	Long:  `Remove every persisted key: sessions, profile, caches and safety backups.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		if !wipeYes {
			fmt.Print("This deletes ALL sessions and the profile. Type 'yes' to continue: ")
			var answer string
			fmt.Scanln(&answer)
			if answer != "yes" {
				fmt.Println("Aborted.")
				return nil
			}
		}

		if err := a.Store.ClearAll(cmd.Context()); err != nil {
			return fmt.Errorf("could not clear data: %w", err)
		}

		color.Green("All tracker data deleted.")
		return nil
	},
}

func init() {
	WipeCmd.Flags().BoolVar(&wipeYes, "yes", false, "skip the confirmation prompt")
}

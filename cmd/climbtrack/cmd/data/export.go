package data

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var exportOut string

var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export all data as a backup bundle",
	Long: `Serialize every session and the profile into a self-describing
backup bundle with a checksum, written to stdout or --out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		bundle, err := a.Store.Export(cmd.Context())
		if err != nil {
			return fmt.Errorf("could not export data: %w", err)
		}

		if exportOut == "" {
			fmt.Println(bundle)
			return nil
		}
		if err := os.WriteFile(exportOut, []byte(bundle), 0600); err != nil {
			return fmt.Errorf("write backup file: %w", err)
		}
		color.Green("Backup written to %s", exportOut)
		return nil
	},
}

func init() {
	ExportCmd.Flags().StringVar(&exportOut, "out", "", "write the bundle to a file instead of stdout")
}

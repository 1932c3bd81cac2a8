package profile

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var ShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the user profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		p, err := a.Store.Profile(cmd.Context())
		if err != nil {
			return err
		}
		if p == nil {
			fmt.Println("No profile created yet.")
			return nil
		}

		if ok, _ := cmd.Flags().GetBool("json"); ok {
			out, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		color.New(color.FgCyan, color.Bold).Println(p.Nickname)
		if p.Email != "" {
			fmt.Printf("  email: %s\n", p.Email)
		}
		if p.Level != "" {
			fmt.Printf("  level: %s\n", p.Level)
		}
		if len(p.PreferredGyms) > 0 {
			fmt.Printf("  gyms:  %s\n", strings.Join(p.PreferredGyms, ", "))
		}
		return nil
	},
}

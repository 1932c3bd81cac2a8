package profile

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"climbtrack/internal/domain/profile"
)

var (
	setNickname string
	setEmail    string
	setLevel    string
	setGyms     []string
	setImage    string
)

var SetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or replace the user profile",
	Long: `Upsert the single local profile. An existing profile is fully
replaced except its creation timestamp.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		p := &profile.Profile{
			Nickname:      setNickname,
			Email:         setEmail,
			Level:         setLevel,
			PreferredGyms: setGyms,
			ImageRef:      setImage,
		}
		if err := a.Store.SaveProfile(cmd.Context(), p); err != nil {
			return fmt.Errorf("could not save profile: %w", err)
		}

		if ok, _ := cmd.Flags().GetBool("json"); ok {
			out, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		color.Green("Profile saved: %s", p.Nickname)
		return nil
	},
}

func init() {
	SetCmd.Flags().StringVar(&setNickname, "nickname", "", "display nickname")
	SetCmd.Flags().StringVar(&setEmail, "email", "", "email address")
	SetCmd.Flags().StringVar(&setLevel, "level", "", "current skill level label")
	SetCmd.Flags().StringArrayVar(&setGyms, "gym", nil, "preferred gym name (repeatable)")
	SetCmd.Flags().StringVar(&setImage, "image", "", "profile image reference")

	SetCmd.MarkFlagRequired("nickname")
}

package profile

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"climbtrack/internal/domain/profile"
)

var (
	editNickname string
	editEmail    string
	editLevel    string
	editGyms     []string
	editImage    string
)

var EditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the user profile",
	Long:  `Partially update the profile. Only the flags given change fields.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var upd profile.Update
		if cmd.Flags().Changed("nickname") {
			upd.Nickname = &editNickname
		}
		if cmd.Flags().Changed("email") {
			upd.Email = &editEmail
		}
		if cmd.Flags().Changed("level") {
			upd.Level = &editLevel
		}
		if cmd.Flags().Changed("gym") {
			upd.PreferredGyms = &editGyms
		}
		if cmd.Flags().Changed("image") {
			upd.ImageRef = &editImage
		}

		p, err := a.Store.UpdateProfile(cmd.Context(), upd)
		if err != nil {
			return fmt.Errorf("could not update profile: %w", err)
		}

		if ok, _ := cmd.Flags().GetBool("json"); ok {
			out, err := json.MarshalIndent(p, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		color.Green("Profile updated: %s", p.Nickname)
		return nil
	},
}

func init() {
	EditCmd.Flags().StringVar(&editNickname, "nickname", "", "display nickname")
	EditCmd.Flags().StringVar(&editEmail, "email", "", "email address")
	EditCmd.Flags().StringVar(&editLevel, "level", "", "current skill level label")
	EditCmd.Flags().StringArrayVar(&editGyms, "gym", nil, "preferred gym name (repeatable)")
	EditCmd.Flags().StringVar(&editImage, "image", "", "profile image reference")
}

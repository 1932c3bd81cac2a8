package session

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"climbtrack/internal/domain/session"
)

var (
	editGymID     string
	editGymName   string
	editDate      string
	editDuration  int
	editCondition int
	editNotes     string
	editPhotos    []string
	editGrades    []string
	editHardest   string
	editRating    int
)

var EditCmd = &cobra.Command{
	Use:   "edit <session-id>",
	Short: "Edit a recorded session",
	Long:  `Partially update a session. Only the flags given change fields.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		var upd session.Update
		if cmd.Flags().Changed("gym-id") {
			upd.GymID = &editGymID
		}
		if cmd.Flags().Changed("gym") {
			upd.GymName = &editGymName
		}
		if cmd.Flags().Changed("date") {
			t, perr := parseDate(editDate)
			if perr != nil {
				return fmt.Errorf("invalid --date: %w", perr)
			}
			upd.Date = &t
		}
		if cmd.Flags().Changed("duration") {
			upd.Duration = &editDuration
		}
		if cmd.Flags().Changed("condition") {
			upd.Condition = &editCondition
		}
		if cmd.Flags().Changed("notes") {
			upd.Notes = &editNotes
		}
		if cmd.Flags().Changed("photo") {
			upd.Photos = &editPhotos
		}
		if cmd.Flags().Changed("grade") {
			grades, perr := parseGrades(editGrades)
			if perr != nil {
				return perr
			}
			upd.GradeCounts = &grades
		}
		if cmd.Flags().Changed("hardest") {
			upd.HardestGrade = &editHardest
		}
		if cmd.Flags().Changed("rating") {
			upd.Rating = &editRating
		}

		updated, err := a.Store.UpdateSession(cmd.Context(), args[0], upd)
		if err != nil {
			return fmt.Errorf("could not update session: %w", err)
		}

		if ok, _ := cmd.Flags().GetBool("json"); ok {
			out, err := json.MarshalIndent(updated, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		color.Green("Session updated: %s", updated.ID)
		return nil
	},
}

func init() {
	EditCmd.Flags().StringVar(&editGymID, "gym-id", "", "gym identifier")
	EditCmd.Flags().StringVar(&editGymName, "gym", "", "gym display name")
	EditCmd.Flags().StringVar(&editDate, "date", "", "session date (YYYY-MM-DD or RFC3339)")
	EditCmd.Flags().IntVar(&editDuration, "duration", 0, "duration in minutes")
	EditCmd.Flags().IntVar(&editCondition, "condition", 0, "condition rating 1-5")
	EditCmd.Flags().StringVar(&editNotes, "notes", "", "free-text notes")
	EditCmd.Flags().StringArrayVar(&editPhotos, "photo", nil, "photo reference (repeatable)")
	EditCmd.Flags().StringArrayVar(&editGrades, "grade", nil, "completed grade as GRADE=COUNT (repeatable)")
	EditCmd.Flags().StringVar(&editHardest, "hardest", "", "hardest grade attempted")
	EditCmd.Flags().IntVar(&editRating, "rating", 0, "overall session rating 1-5")
}

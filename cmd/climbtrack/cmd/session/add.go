package session

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"climbtrack/internal/domain/session"
)

var (
	addUserID    string
	addGymID     string
	addGymName   string
	addDate      string
	addDuration  int
	addCondition int
	addNotes     string
	addPhotos    []string
	addGrades    []string
	addHardest   string
	addRating    int
)

var AddCmd = &cobra.Command{
	Use:   "add",
	Short: "Record a new session",
	Long: `Record a climbing-gym visit. Grades are given as repeated
--grade GRADE=COUNT flags, e.g. --grade V3=4 --grade V5=1.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}

		date, err := parseDate(addDate)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
		grades, err := parseGrades(addGrades)
		if err != nil {
			return err
		}

		sess := &session.Session{
			UserID:       addUserID,
			GymID:        addGymID,
			GymName:      addGymName,
			Date:         date,
			Duration:     addDuration,
			Condition:    addCondition,
			Notes:        addNotes,
			Photos:       addPhotos,
			GradeCounts:  grades,
			HardestGrade: addHardest,
			Rating:       addRating,
		}

		if err := a.Store.SaveSession(cmd.Context(), sess); err != nil {
			return fmt.Errorf("could not save session: %w", err)
		}

		if ok, _ := cmd.Flags().GetBool("json"); ok {
			out, err := json.MarshalIndent(sess, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		color.Green("Session recorded: %s (%s, %d min)", sess.ID, sess.GymName, sess.Duration)
		return nil
	},
}

func init() {
	AddCmd.Flags().StringVar(&addUserID, "user", "", "owning user id")
	AddCmd.Flags().StringVar(&addGymID, "gym-id", "", "gym identifier")
	AddCmd.Flags().StringVar(&addGymName, "gym", "", "gym display name")
	AddCmd.Flags().StringVar(&addDate, "date", "", "session date (YYYY-MM-DD or RFC3339)")
	AddCmd.Flags().IntVar(&addDuration, "duration", 0, "duration in minutes")
	AddCmd.Flags().IntVar(&addCondition, "condition", 3, "condition rating 1-5")
	AddCmd.Flags().StringVar(&addNotes, "notes", "", "free-text notes")
	AddCmd.Flags().StringArrayVar(&addPhotos, "photo", nil, "photo reference (repeatable)")
	AddCmd.Flags().StringArrayVar(&addGrades, "grade", nil, "completed grade as GRADE=COUNT (repeatable)")
	AddCmd.Flags().StringVar(&addHardest, "hardest", "", "hardest grade attempted")
	AddCmd.Flags().IntVar(&addRating, "rating", 3, "overall session rating 1-5")

	AddCmd.MarkFlagRequired("date")
	AddCmd.MarkFlagRequired("duration")
}

package session

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"climbtrack/internal/domain/session"
)

var (
	listMonth string
	listDate  string
)

var ListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := appFrom(cmd)
		if err != nil {
			return err
		}
		ctx := cmd.Context()

		var sessions []session.Session
		switch {
		case listMonth != "":
			t, perr := time.Parse("2006-01", listMonth)
			if perr != nil {
				return fmt.Errorf("invalid --month, want YYYY-MM: %w", perr)
			}
			sessions, err = a.Store.SessionsByMonth(ctx, t.Year(), t.Month())
		case listDate != "":
			t, perr := parseDate(listDate)
			if perr != nil {
				return fmt.Errorf("invalid --date: %w", perr)
			}
			sessions, err = a.Store.SessionsByDate(ctx, t)
		default:
			sessions, err = a.Store.Sessions(ctx)
		}
		if err != nil {
			return err
		}

		if ok, _ := cmd.Flags().GetBool("json"); ok {
			out, err := json.MarshalIndent(sessions, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		if len(sessions) == 0 {
			fmt.Println("No sessions recorded.")
			return nil
		}
		for _, s := range sessions {
			color.New(color.FgYellow).Printf("%s", s.Date.Format("2006-01-02"))
			fmt.Printf("  %-20s %3d min  condition %d/5  rating %d/5", s.GymName, s.Duration, s.Condition, s.Rating)
			if s.HardestGrade != "" {
				fmt.Printf("  hardest %s", s.HardestGrade)
			}
			fmt.Printf("  [%s]\n", s.ID)
		}
		return nil
	},
}

func init() {
	ListCmd.Flags().StringVar(&listMonth, "month", "", "filter by month (YYYY-MM)")
	ListCmd.Flags().StringVar(&listDate, "date", "", "filter by date (YYYY-MM-DD)")
}

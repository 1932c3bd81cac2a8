package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"climbtrack/internal/domain/stats"
)

var (
	statsFrom string
	statsTo   string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show session statistics",
	Long: `Aggregates over the recorded sessions: totals, averages, workout
days, current and longest streaks, grade distribution and monthly
progress. With --from/--to the aggregation covers only the given range.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if application == nil {
			return fmt.Errorf("application not initialized")
		}
		ctx := cmd.Context()

		var st stats.Stats
		var err error
		if statsFrom != "" || statsTo != "" {
			from, to, perr := parseRange(statsFrom, statsTo)
			if perr != nil {
				return perr
			}
			st, err = application.Store.StatsBetween(ctx, from, to)
		} else {
			st, err = application.Store.Stats(ctx)
		}
		if err != nil {
			return err
		}

		if jsonOutput {
			out, err := json.MarshalIndent(st, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		header := color.New(color.FgCyan, color.Bold)
		header.Println("Session statistics")
		fmt.Printf("  Sessions:       %d\n", st.TotalSessions)
		fmt.Printf("  Total duration: %d min\n", st.TotalDuration)
		fmt.Printf("  Avg duration:   %.2f min\n", st.AverageDuration)
		fmt.Printf("  Workout days:   %d\n", st.TotalWorkoutDays)
		fmt.Printf("  Streak:         %d current / %d longest\n", st.CurrentStreak, st.LongestStreak)
		fmt.Printf("  Avg condition:  %.2f\n", st.AverageCondition)
		fmt.Printf("  Avg rating:     %.2f\n", st.AverageRating)

		if len(st.GradeDistribution) > 0 {
			header.Println("Grades")
			for grade, n := range st.GradeDistribution {
				fmt.Printf("  %-6s %d\n", grade, n)
			}
		}
		if len(st.MonthlyProgress) > 0 {
			header.Println("Monthly")
			for month, m := range st.MonthlyProgress {
				fmt.Printf("  %s  %d sessions, %d min, condition %.2f\n",
					month, m.SessionCount, m.TotalDuration, m.AverageCondition)
			}
		}
		return nil
	},
}

func parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	from := time.Time{}
	to := time.Date(9999, 12, 31, 23, 59, 59, 0, time.UTC)
	var err error
	if fromStr != "" {
		from, err = time.Parse("2006-01-02", fromStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid --from date: %w", err)
		}
	}
	if toStr != "" {
		to, err = time.Parse("2006-01-02", toStr)
		if err != nil {
			return from, to, fmt.Errorf("invalid --to date: %w", err)
		}
		to = to.Add(24*time.Hour - time.Second)
	}
	return from, to, nil
}

func init() {
	statsCmd.Flags().StringVar(&statsFrom, "from", "", "range start (YYYY-MM-DD)")
	statsCmd.Flags().StringVar(&statsTo, "to", "", "range end (YYYY-MM-DD)")
}

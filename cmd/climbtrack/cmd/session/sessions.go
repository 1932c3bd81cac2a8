package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"climbtrack/internal/app"
)

// SessionCmd is the parent command for session operations.
var SessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage recorded sessions",
	Long:  `Record, list, edit and delete climbing-gym sessions.`,
}

func appFrom(cmd *cobra.Command) (*app.App, error) {
	a, _ := cmd.Context().Value("app").(*app.App)
	if a == nil {
		return nil, fmt.Errorf("application not initialized")
	}
	return a, nil
}

// parseDate accepts a bare date or a full RFC3339 timestamp.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}

// parseGrades turns repeated "V4=3" flags into a grade→count map.
func parseGrades(specs []string) (map[string]int, error) {
	if len(specs) == 0 {
		return nil, nil
	}
	grades := make(map[string]int, len(specs))
	for _, spec := range specs {
		parts := strings.SplitN(spec, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid grade spec %q, want GRADE=COUNT", spec)
		}
		n, err := strconv.Atoi(parts[1])
		if err != nil || n < 0 {
			return nil, fmt.Errorf("invalid grade count in %q", spec)
		}
		grades[parts[0]] = n
	}
	return grades, nil
}

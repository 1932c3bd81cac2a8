// Package stats derives aggregate views from the session collection.
// Everything here is a pure computation; caching is the store's concern.
package stats

import (
	"math"
	"sort"
	"time"

	"climbtrack/internal/domain/session"
)

// Stats is the derived aggregate over a session collection. It is never
// mutated independently, only recomputed.
type Stats struct {
	TotalSessions     int                `json:"totalSessions"`
	TotalDuration     int                `json:"totalDuration"`
	AverageDuration   float64            `json:"averageDuration"`
	TotalWorkoutDays  int                `json:"totalWorkoutDays"`
	CurrentStreak     int                `json:"currentStreak"`
	LongestStreak     int                `json:"longestStreak"`
	AverageCondition  float64            `json:"averageCondition"`
	AverageRating     float64            `json:"averageRating"`
	GradeDistribution map[string]int     `json:"gradeDistribution"`
	MonthlyProgress   map[string]Monthly `json:"monthlyProgress"`
}

// Monthly is one YYYY-MM rollup bucket.
type Monthly struct {
	SessionCount     int     `json:"sessionCount"`
	TotalDuration    int     `json:"totalDuration"`
	AverageCondition float64 `json:"averageCondition"`
}

// Compute aggregates the given sessions. now anchors the current-streak
// walk; an empty collection yields zero values and empty maps.
func Compute(sessions []session.Session, now time.Time) Stats {
	st := Stats{
		GradeDistribution: map[string]int{},
		MonthlyProgress:   map[string]Monthly{},
	}
	if len(sessions) == 0 {
		return st
	}

	days := map[time.Time]struct{}{}
	monthCondition := map[string]int{}
	var conditionSum, ratingSum int

	for _, s := range sessions {
		st.TotalSessions++
		st.TotalDuration += s.Duration
		conditionSum += s.Condition
		ratingSum += s.Rating
		days[s.Day()] = struct{}{}

		for grade, n := range s.GradeCounts {
			st.GradeDistribution[grade] += n
		}

		month := s.Date.Format("2006-01")
		m := st.MonthlyProgress[month]
		m.SessionCount++
		m.TotalDuration += s.Duration
		st.MonthlyProgress[month] = m
		monthCondition[month] += s.Condition
	}

	for month, m := range st.MonthlyProgress {
		m.AverageCondition = round2(float64(monthCondition[month]) / float64(m.SessionCount))
		st.MonthlyProgress[month] = m
	}

	st.AverageDuration = round2(float64(st.TotalDuration) / float64(st.TotalSessions))
	st.AverageCondition = round2(float64(conditionSum) / float64(st.TotalSessions))
	st.AverageRating = round2(float64(ratingSum) / float64(st.TotalSessions))
	st.TotalWorkoutDays = len(days)
	st.CurrentStreak = currentStreak(days, now)
	st.LongestStreak = longestStreak(days)

	return st
}

// currentStreak counts consecutive workout days walking backward from
// today inclusive; the first day without a session breaks the walk.
func currentStreak(days map[time.Time]struct{}, now time.Time) int {
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	streak := 0
	for {
		if _, ok := days[day]; !ok {
			return streak
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}
}

// longestStreak finds the longest run of calendar-adjacent workout days.
func longestStreak(days map[time.Time]struct{}) int {
	if len(days) == 0 {
		return 0
	}
	sorted := make([]time.Time, 0, len(days))
	for d := range days {
		sorted = append(sorted, d)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Before(sorted[j]) })

	longest, run := 1, 1
	for i := 1; i < len(sorted); i++ {
		if sorted[i].Sub(sorted[i-1]) == 24*time.Hour {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}
	return longest
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

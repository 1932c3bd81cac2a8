package session

import (
	"time"

	"github.com/google/uuid"
)

const (
	// MaxDuration is the validity ceiling for a single visit, in minutes.
	MaxDuration = 480

	MinCondition = 1
	MaxCondition = 5
	MinRating    = 1
	MaxRating    = 5
)

// Session is one recorded climbing-gym visit.
type Session struct {
	ID           string         `json:"id"`
	UserID       string         `json:"userId"`
	GymID        string         `json:"gymId"`
	GymName      string         `json:"gymName"`
	Date         time.Time      `json:"date"`
	Duration     int            `json:"duration"`
	Condition    int            `json:"condition"`
	Notes        string         `json:"notes,omitempty"`
	Photos       []string       `json:"photos,omitempty"`
	GradeCounts  map[string]int `json:"gradeCounts,omitempty"`
	HardestGrade string         `json:"hardestGrade,omitempty"`
	Rating       int            `json:"rating"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// NewID returns a fresh session identifier.
func NewID() string {
	return uuid.New().String()
}

// Validate checks the session against the validity rules. The duration
// ceiling is a validity rule for caller input, not a storage constraint.
func (s *Session) Validate() error {
	if s.Date.IsZero() {
		return ErrInvalidData
	}
	if s.Duration <= 0 || s.Duration > MaxDuration {
		return ErrInvalidData
	}
	if s.Condition < MinCondition || s.Condition > MaxCondition {
		return ErrInvalidData
	}
	if s.Rating < MinRating || s.Rating > MaxRating {
		return ErrInvalidData
	}
	for _, n := range s.GradeCounts {
		if n < 0 {
			return ErrInvalidData
		}
	}
	return nil
}

// Day returns the calendar-date portion of the session date, normalized
// to UTC midnight. Streaks and workout-day counts operate on days.
func (s *Session) Day() time.Time {
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, time.UTC)
}

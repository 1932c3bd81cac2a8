package session

import (
	"time"
)

// Update is a partial session change. Nil fields are left untouched;
// identity and createdAt are not updatable.
type Update struct {
	GymID        *string         `json:"gymId,omitempty"`
	GymName      *string         `json:"gymName,omitempty"`
	Date         *time.Time      `json:"date,omitempty"`
	Duration     *int            `json:"duration,omitempty"`
	Condition    *int            `json:"condition,omitempty"`
	Notes        *string         `json:"notes,omitempty"`
	Photos       *[]string       `json:"photos,omitempty"`
	GradeCounts  *map[string]int `json:"gradeCounts,omitempty"`
	HardestGrade *string         `json:"hardestGrade,omitempty"`
	Rating       *int            `json:"rating,omitempty"`
}

// Validate checks only the fields the update carries.
func (u *Update) Validate() error {
	if u.Date != nil && u.Date.IsZero() {
		return ErrInvalidData
	}
	if u.Duration != nil && (*u.Duration <= 0 || *u.Duration > MaxDuration) {
		return ErrInvalidData
	}
	if u.Condition != nil && (*u.Condition < MinCondition || *u.Condition > MaxCondition) {
		return ErrInvalidData
	}
	if u.Rating != nil && (*u.Rating < MinRating || *u.Rating > MaxRating) {
		return ErrInvalidData
	}
	if u.GradeCounts != nil {
		for _, n := range *u.GradeCounts {
			if n < 0 {
				return ErrInvalidData
			}
		}
	}
	return nil
}

// Apply merges the update into s. The caller refreshes UpdatedAt.
func (u *Update) Apply(s *Session) {
	if u.GymID != nil {
		s.GymID = *u.GymID
	}
	if u.GymName != nil {
		s.GymName = *u.GymName
	}
	if u.Date != nil {
		s.Date = *u.Date
	}
	if u.Duration != nil {
		s.Duration = *u.Duration
	}
	if u.Condition != nil {
		s.Condition = *u.Condition
	}
	if u.Notes != nil {
		s.Notes = *u.Notes
	}
	if u.Photos != nil {
		s.Photos = *u.Photos
	}
	if u.GradeCounts != nil {
		s.GradeCounts = *u.GradeCounts
	}
	if u.HardestGrade != nil {
		s.HardestGrade = *u.HardestGrade
	}
	if u.Rating != nil {
		s.Rating = *u.Rating
	}
}

package profile

import (
	"time"
)

// Profile is the single local user's identity and preferences. At most
// one profile exists in storage at a time.
type Profile struct {
	ID            string    `json:"id"`
	Nickname      string    `json:"nickname"`
	Email         string    `json:"email"`
	Level         string    `json:"level"`
	PreferredGyms []string  `json:"preferredGyms,omitempty"`
	ImageRef      string    `json:"profileImage,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Validate checks the profile's required fields.
func (p *Profile) Validate() error {
	if p.Nickname == "" {
		return ErrInvalidData
	}
	return nil
}

// Update is a partial profile change. Nil fields are left untouched.
type Update struct {
	Nickname      *string    `json:"nickname,omitempty"`
	Email         *string    `json:"email,omitempty"`
	Level         *string    `json:"level,omitempty"`
	PreferredGyms *[]string  `json:"preferredGyms,omitempty"`
	ImageRef      *string    `json:"profileImage,omitempty"`
}

// Validate checks only the fields the update carries.
func (u *Update) Validate() error {
	if u.Nickname != nil && *u.Nickname == "" {
		return ErrInvalidData
	}
	return nil
}

// Apply merges the update into p. The caller refreshes UpdatedAt.
func (u *Update) Apply(p *Profile) {
	if u.Nickname != nil {
		p.Nickname = *u.Nickname
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Level != nil {
		p.Level = *u.Level
	}
	if u.PreferredGyms != nil {
		p.PreferredGyms = *u.PreferredGyms
	}
	if u.ImageRef != nil {
		p.ImageRef = *u.ImageRef
	}
}

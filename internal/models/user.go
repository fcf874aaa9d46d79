package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	Phone        string    `json:"phone" db:"phone"`
	PasswordHash string    `json:"-" db:"password_hash"` // Never serialize in JSON
	Sm8UUID      *string   `json:"sm8Uuid" db:"sm8_uuid"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

// PublicUser is the profile returned to the portal.
type PublicUser struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Email   string    `json:"email"`
	Phone   string    `json:"phone"`
	Sm8UUID *string   `json:"sm8Uuid"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Phone:   u.Phone,
		Sm8UUID: u.Sm8UUID,
	}
}

// HasLinkedAccount reports whether the user has been resolved to a ServiceM8 company.
func (u *User) HasLinkedAccount() bool {
	return u.Sm8UUID != nil && *u.Sm8UUID != ""
}

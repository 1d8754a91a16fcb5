package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field.
// Token holds the pending one-time confirmation or reset token, nil when none.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"nombre"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	Confirmed bool      `json:"confirmado"`
	Token     *string   `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ClearToken drops the pending one-time token.
func (u *User) ClearToken() { u.Token = nil }

// SetToken stores a new pending one-time token.
func (u *User) SetToken(t string) { u.Token = &t }

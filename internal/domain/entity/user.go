package entity

import "time"

// Role is the authorization tier of a user. Closed set.
type Role string

const (
	RoleUser    Role = "user"
	RoleAdmin   Role = "admin"
	RoleCreator Role = "creator"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleCreator:
		return true
	}
	return false
}

// Defaults applied to freshly registered users.
const (
	DefaultPhoto = "no-photo.jpg"
	DefaultBio   = "i am a new user."
)

// User is the aggregate root for the account domain
// Password always holds a bcrypt hash once persisted, never the plaintext.
type User struct {
	ID         string
	Email      string
	Password   string
	Name       string
	Photo      string
	Bio        string
	Role       Role
	IsVerified bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// PublicUser is the projection of a User safe to return to clients.
// It never carries the password hash.
type PublicUser struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Photo      string    `json:"photo"`
	Bio        string    `json:"bio"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Public returns the client-safe projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Photo:      u.Photo,
		Bio:        u.Bio,
		IsVerified: u.IsVerified,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

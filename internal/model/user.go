package model

import "time"

type AuthProvider string

const (
	ProviderEmail    AuthProvider = "email"
	ProviderGoogle   AuthProvider = "google"
	ProviderFacebook AuthProvider = "facebook"
	ProviderApple    AuthProvider = "apple"
)

type UserStatus string

const (
	UserStatusPending UserStatus = "pending"
	UserStatusActive  UserStatus = "active"
	UserStatusLocked  UserStatus = "locked"
)

type User struct {
	Base
	Email            string       `db:"email" json:"email"`
	PasswordHash     string       `db:"password_hash" json:"-"`
	FirstName        string       `db:"first_name" json:"first_name"`
	LastName         string       `db:"last_name" json:"last_name"`
	AvatarURL        *string      `db:"avatar_url" json:"avatar_url,omitempty"`
	Provider         AuthProvider `db:"provider" json:"provider"`
	Status           UserStatus   `db:"status" json:"status"`
	EmailVerified    bool         `db:"email_verified" json:"email_verified"`
	LoginAttempts    int          `db:"login_attempts" json:"-"`
	LastLoginAttempt time.Time    `db:"last_login_attempt" json:"-"`
	LastLoginAt      *time.Time   `db:"last_login_at" json:"last_login_at,omitempty"`
}

// DisplayName is the name snapshotted onto reviews at submission time.
func (u *User) DisplayName() string {
	return u.FirstName + " " + u.LastName
}

package model

import "time"

// Roles stored in the users table and carried in the JWT "role" claim.
const (
	RoleMember = "MEMBER"
	RoleAdmin  = "ADMIN"
)

// User represents a row in the `users` table. Password hashes are
// bcrypt; the plain password never leaves the auth handler.
//
// Fields:
//  ID           – opaque prefixed identifier ("user_…").
//  Email        – unique email address, stored lower-cased.
//  PasswordHash – bcrypt hash of the password.
//  FullName     – display name used in notification emails.
//  Role         – MEMBER or ADMIN.
//  IsActive     – whether the account is active.
//  CreatedAt    – timestamp of creation.
//  UpdatedAt    – timestamp of last update.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"fullName"`
	Role         string    `json:"role"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RefreshToken models an entry in the `refresh_tokens` table. Only
// the SHA-256 hash of the raw token is stored.
type RefreshToken struct {
	ID        uint64
	UserID    string
	TokenHash string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

package model

import "time"

// Hoster represents a service provider account as stored in the
// `hosters` table. Hosters publish availability timeslots and
// arbitrate the client requests submitted against them.
//
// Fields:
//  ID           – primary key identifier.
//  Email        – unique email address, also the notification target.
//  PasswordHash – bcrypt hashed password, never serialized.
//  CreatedAt    – timestamp of creation.
type Hoster struct {
	ID           uint64    `json:"id"`         // hosters.id
	Email        string    `json:"email"`      // hosters.email
	PasswordHash string    `json:"-"`          // hosters.password_hash
	CreatedAt    time.Time `json:"created_at"` // hosters.created_at
}

// RefreshToken models an entry in the `refresh_tokens` table. Each
// refresh token belongs to a hoster and carries expiry and revocation
// metadata. The plain token is never stored, only its SHA-256 hash.
type RefreshToken struct {
	ID        uint64     // refresh_tokens.id
	HosterID  uint64     // refresh_tokens.hoster_id
	TokenHash string     // refresh_tokens.token_hash
	ExpiresAt time.Time  // refresh_tokens.expires_at
	RevokedAt *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt time.Time  // refresh_tokens.created_at
}

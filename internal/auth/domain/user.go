package domain

import "time"

// User is the credential-store record. RefreshTokenHash holds the bcrypt hash
// of the single currently valid refresh token, or nil when none is issued or
// it has been revoked. At most one refresh token is valid per user; issuing a
// new one overwrites the hash and invalidates the prior token.
type User struct {
	ID               string
	Email            string
	PasswordHash     string
	RefreshTokenHash *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// WithoutPasswordHash returns a copy of the user safe to hand outside the
// credential path.
func (u *User) WithoutPasswordHash() *User {
	clone := *u
	clone.PasswordHash = ""
	return &clone
}

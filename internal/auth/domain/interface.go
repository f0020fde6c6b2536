package domain

import "context"

//go:generate mockgen -destination=../../mocks/mock_user_repository.go -package=mocks github.com/Integral-X/meditrack-backend/internal/auth/domain UserRepository

// UserRepository is the narrow user-record interface the auth service
// consumes. Absent rows are (nil, nil); connectivity problems surface as
// errors and are propagated unmodified.
type UserRepository interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	// UpdateRefreshTokenHash overwrites the stored refresh-token hash for the
	// user. A nil hash revokes the current refresh token.
	UpdateRefreshTokenHash(ctx context.Context, id string, hash *string) (*User, error)
}

package service

import (
	"context"
	"crypto/sha256"
	"encoding/base64"
	"log"

	"github.com/Integral-X/meditrack-backend/internal/auth/domain"
	"github.com/Integral-X/meditrack-backend/internal/auth/dto"
	autherror "github.com/Integral-X/meditrack-backend/internal/errors"
	"golang.org/x/crypto/bcrypt"
)

// AuthService orchestrates credential validation, token issuance, and
// refresh-token rotation against the credential store.
type AuthService struct {
	repo       domain.UserRepository
	tokens     TokenGenerator
	bcryptCost int
}

func NewAuthService(repo domain.UserRepository, tokens TokenGenerator, bcryptCost int) *AuthService {
	return &AuthService{
		repo:       repo,
		tokens:     tokens,
		bcryptCost: bcryptCost,
	}
}

// ValidateUser checks the plaintext password against the stored hash.
// Unknown email or mismatch returns (nil, nil); store I/O errors propagate
// unmodified. On success the password hash is stripped from the result.
func (s *AuthService) ValidateUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		log.Printf("auth: password mismatch for user %s", user.ID)
		return nil, nil
	}

	return user.WithoutPasswordHash(), nil
}

// Login issues a fresh token pair and persists the hash of the new refresh
// token, overwriting any prior hash. This is the rotation point: the previous
// refresh token stops matching and is thereby invalidated.
func (s *AuthService) Login(ctx context.Context, user *domain.User) (*dto.TokenPair, error) {
	accessToken, refreshToken, err := s.tokens.Generate(user.ID, user.Email)
	if err != nil {
		return nil, err
	}

	hash, err := s.hashRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if _, err := s.repo.UpdateRefreshTokenHash(ctx, user.ID, &hash); err != nil {
		return nil, err
	}

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair. The presented token
// must verify cryptographically and match the stored hash; on success the
// stored hash rotates to the new token, so each refresh token works at most
// once. Every failure collapses to ErrInvalidRefreshToken at the boundary;
// the concrete cause only goes to the log.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.tokens.VerifyRefreshToken(refreshToken)
	if err != nil {
		log.Printf("auth: refresh token verification failed: %v", err)
		return nil, autherror.ErrInvalidRefreshToken
	}

	user, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		return nil, err
	}
	if user == nil || user.RefreshTokenHash == nil {
		log.Printf("auth: refresh for subject %s has no user or no stored token", claims.Subject)
		return nil, autherror.ErrInvalidRefreshToken
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.RefreshTokenHash), digestToken(refreshToken)); err != nil {
		log.Printf("auth: refresh token hash mismatch for user %s (rotated or replayed)", user.ID)
		return nil, autherror.ErrInvalidRefreshToken
	}

	return s.Login(ctx, user)
}

// Logout revokes the user's current refresh token by clearing the stored
// hash. Outstanding access tokens stay valid until they expire.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	_, err := s.repo.UpdateRefreshTokenHash(ctx, userID, nil)
	return err
}

// digestToken reduces a token to a fixed-size digest before bcrypt. Refresh
// JWTs exceed bcrypt's 72-byte input limit, so the adaptive hash is applied
// to a SHA-256 digest of the token instead of the raw string.
func digestToken(token string) []byte {
	sum := sha256.Sum256([]byte(token))
	return []byte(base64.RawStdEncoding.EncodeToString(sum[:]))
}

func (s *AuthService) hashRefreshToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword(digestToken(token), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

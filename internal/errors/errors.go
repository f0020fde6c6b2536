package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the auth service. Handlers collapse all of them to a
// generic 401 so the cause never reaches the caller; internal logs keep the
// distinction.
var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrInvalidAccessToken  = errors.New("invalid or expired access token")
)

// FeatureDisabledError is returned by the feature gate when a guarded
// operation's flag evaluates to disabled. The flag name is not secret and is
// surfaced to the caller (403).
type FeatureDisabledError struct {
	Feature string
}

func (e *FeatureDisabledError) Error() string {
	return fmt.Sprintf("feature %s is not enabled", e.Feature)
}

package provider

import (
	"errors"
	"fmt"

	"github.com/YardenSamorai/taskos-sync/internal/model"
)

// Sentinel errors surfaced by the credential service and sync engines.
var (
	// ErrNotConnected means no active integration row exists for the
	// (user, provider) pair; the user must connect first.
	ErrNotConnected = errors.New("provider not connected")

	// ErrReconnectRequired means a token refresh was attempted and failed,
	// or no refresh token is stored. Non-retryable; the user must
	// re-authorize.
	ErrReconnectRequired = errors.New("token expired, reconnect required")

	// ErrNotLinked means the task carries no provenance record for the
	// target provider.
	ErrNotLinked = errors.New("task not linked to provider")
)

// AuthError indicates that authentication has failed or expired for a
// provider. It is returned by provider clients when a 401 response is
// received.
type AuthError struct {
	Provider model.Provider
	Message  string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("auth error (%s): %s", e.Provider, e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// RemoteError is a non-auth failure response from a provider API.
type RemoteError struct {
	Provider   model.Provider
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf(
		"%s API error (%d): %s", e.Provider, e.StatusCode, e.Message,
	)
}

// IsRemoteError reports whether err (or any error in its chain) is a
// RemoteError.
func IsRemoteError(err error) bool {
	var remoteErr *RemoteError
	return errors.As(err, &remoteErr)
}

package model

import "time"

// Integration is one user's connection to one provider. Token fields hold
// ciphertext; plaintext tokens exist only in-process, immediately before a
// remote call.
type Integration struct {
	// ID is the internal unique identifier for this integration row.
	ID string `json:"id"`

	// UserID is the owner of the connection.
	UserID string `json:"user_id"`

	// Provider identifies the remote system.
	Provider Provider `json:"provider"`

	// AccessToken is the sealed access token. May be empty.
	AccessToken string `json:"-"`

	// RefreshToken is the sealed refresh token. May be empty; not every
	// provider issues one.
	RefreshToken string `json:"-"`

	// ProviderAccountID is the provider-specific tenant or organization
	// identifier (GitHub login, Jira site, DevOps organization).
	ProviderAccountID string `json:"provider_account_id"`

	// TokenExpiresAt is when the access token expires. Nil for tokens
	// without an expiry (e.g. classic PATs).
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	// IsActive lets the user disable the connection without deleting it.
	IsActive bool `json:"is_active"`

	// Metadata holds provider-specific extras, such as the resolved Jira
	// cloud id.
	Metadata map[string]string `json:"metadata,omitempty"`

	// CreatedAt is when the connection was first established.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt is when the row was last modified (including refreshes).
	UpdatedAt time.Time `json:"updated_at"`
}

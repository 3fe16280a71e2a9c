// Package credentials defines the narrow contract the OAuth coordinator
// uses to talk to the credential store. The store holds opaque encrypted
// records elsewhere in the platform; the coordinator only needs load,
// create, and two targeted updates.
package credentials

import (
	"context"
	"time"
)

// AuthStatus describes whether a credential currently holds usable tokens.
type AuthStatus string

const (
	// StatusAuthenticated means the last OAuth flow for this credential succeeded.
	StatusAuthenticated AuthStatus = "authenticated"
	// StatusNotAuthenticated means no flow succeeded yet, or the last one failed.
	StatusNotAuthenticated AuthStatus = "notAuthenticated"
)

// Record is a stored credential as seen by the coordinator.
type Record struct {
	// ID is the store-assigned identifier.
	ID string

	// Type is the credential schema name, e.g. "gmailOAuth2".
	Type string

	// ClientID is the OAuth client id registered with the provider.
	ClientID string

	// ClientSecret is the OAuth client secret.
	ClientSecret string

	// RedirectURI is the callback URI registered with the provider.
	RedirectURI string

	// AccessToken is the current access token, if any.
	AccessToken string

	// RefreshToken is the current refresh token, if any.
	RefreshToken string

	// TokenExpiry is when the access token expires.
	TokenExpiry time.Time

	// AuthStatus reflects the outcome of the last OAuth flow.
	AuthStatus AuthStatus

	// CreatedAt is when the record was created.
	CreatedAt time.Time

	// UpdatedAt is when the record was last written.
	UpdatedAt time.Time
}

// TokenUpdate carries the fields written after a successful token exchange.
type TokenUpdate struct {
	AccessToken  string
	RefreshToken string
	TokenExpiry  time.Time
}

// Store is the credential store adapter contract.
//
// Load returns a not-found error (pkg/errors) for unknown ids. Create
// assigns and returns the new record's id. UpdateTokens marks the record
// authenticated; UpdateStatus changes only the auth status and is used to
// downgrade a credential after a failed flow.
type Store interface {
	Load(ctx context.Context, id string) (*Record, error)
	Create(ctx context.Context, rec *Record) (string, error)
	UpdateTokens(ctx context.Context, id string, update TokenUpdate) error
	UpdateStatus(ctx context.Context, id string, status AuthStatus) error
}

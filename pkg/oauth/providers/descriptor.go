// Package providers defines identity-provider descriptors and the registry
// that owns them. A descriptor is static per-provider data (key, display
// name, credential type, fixed scopes) plus the two flow operations every
// provider implements identically: building the consent URL and handling
// the authorization-code callback.
package providers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/brygal1/flowise/pkg/errors"
	"github.com/brygal1/flowise/pkg/logger"
	"github.com/brygal1/flowise/pkg/networking"
	"github.com/brygal1/flowise/pkg/oauth/flowstate"
)

// FlowContext is the resolved per-flow context a descriptor operates on.
// Resolution of the client configuration (override, caller seed, stored
// credential) happens before the descriptor is invoked.
type FlowContext struct {
	// NodeID is the opaque caller context id, if any.
	NodeID string

	// Credential references the stored or pending credential for this flow.
	Credential flowstate.CredentialRef

	// ClientID, ClientSecret, and RedirectURI are the resolved client
	// configuration. All three must be non-blank or the operation fails.
	ClientID     string
	ClientSecret string
	RedirectURI  string
}

func (fc FlowContext) validate() error {
	var missing []string
	if strings.TrimSpace(fc.ClientID) == "" {
		missing = append(missing, "clientId")
	}
	if strings.TrimSpace(fc.ClientSecret) == "" {
		missing = append(missing, "clientSecret")
	}
	if strings.TrimSpace(fc.RedirectURI) == "" {
		missing = append(missing, "redirectUri")
	}
	if len(missing) > 0 {
		return errors.NewMissingCredentialsError(
			"missing required OAuth fields: "+strings.Join(missing, ", "), nil)
	}
	return nil
}

// TokenResult is the outcome of a code exchange plus the mandatory probe
// call. Authentication failures are data here, not errors: the callback
// handler renders them and downgrades the credential instead of crashing
// the request.
type TokenResult struct {
	AccessToken   string
	RefreshToken  string
	TokenExpiry   time.Time
	Authenticated bool

	// IdentityHint is the authenticated account's address when the probe
	// call returned one.
	IdentityHint string

	// Error is the already-mapped friendly message for failed results.
	Error string
}

// Descriptor is the per-provider definition. Descriptors are constructed
// once at startup, are immutable, and are owned by the registry.
type Descriptor interface {
	// ProviderKey is the unique stable key used in URLs and state payloads.
	ProviderKey() string

	// DisplayName is the human label.
	DisplayName() string

	// CredentialType maps to a credential-store schema name.
	CredentialType() string

	// Scopes is the provider's fixed permission list.
	Scopes() []string

	// StartOAuth builds the provider consent URL for the given flow
	// context. It performs no network I/O.
	StartOAuth(fc FlowContext) (string, error)

	// HandleCallback performs exactly one code-for-token exchange and
	// exactly one probe call to verify the tokens are usable. Ordinary
	// authentication failures come back as a TokenResult with
	// Authenticated=false; the error return is reserved for defects such
	// as a missing client configuration.
	HandleCallback(ctx context.Context, code string, fc FlowContext) (*TokenResult, error)
}

// probeFunc verifies an access token with one lightweight provider API call
// and returns an identity hint for the success page.
type probeFunc func(ctx context.Context, client networking.HTTPClient, probeURL, accessToken string) (string, error)

// Provider implements Descriptor generically over endpoint configuration
// and a probe function. The concrete providers (gmail, outlook) are
// configured instances of this type.
type Provider struct {
	key            string
	displayName    string
	credentialType string
	scopes         []string
	endpoint       oauth2.Endpoint
	probe          probeFunc
	probeURL       string
	httpClient     *http.Client
}

var _ Descriptor = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithHTTPClient sets the HTTP client used for the token exchange and the
// probe call. The default is a hardened client with bounded timeouts.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Provider) {
		p.httpClient = client
	}
}

// WithEndpoint overrides the provider's OAuth2 endpoints. Used by tests to
// point at a local mock server.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(p *Provider) {
		p.endpoint = endpoint
	}
}

// WithProbeURL overrides the URL of the verification probe call. Used by
// tests to point at a local mock server.
func WithProbeURL(url string) Option {
	return func(p *Provider) {
		p.probeURL = url
	}
}

func newProvider(key, displayName, credentialType string, scopes []string,
	endpoint oauth2.Endpoint, probeURL string, probe probeFunc, opts ...Option) *Provider {
	p := &Provider{
		key:            key,
		displayName:    displayName,
		credentialType: credentialType,
		scopes:         scopes,
		endpoint:       endpoint,
		probe:          probe,
		probeURL:       probeURL,
		httpClient:     networking.NewHttpClientBuilder().Build(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProviderKey returns the unique stable key.
func (p *Provider) ProviderKey() string { return p.key }

// DisplayName returns the human label.
func (p *Provider) DisplayName() string { return p.displayName }

// CredentialType returns the credential-store schema name.
func (p *Provider) CredentialType() string { return p.credentialType }

// Scopes returns a copy of the provider's fixed scope list.
func (p *Provider) Scopes() []string {
	out := make([]string, len(p.scopes))
	copy(out, p.scopes)
	return out
}

func (p *Provider) oauth2Config(fc FlowContext) *oauth2.Config {
	return &oauth2.Config{
		ClientID:     fc.ClientID,
		ClientSecret: fc.ClientSecret,
		RedirectURL:  fc.RedirectURI,
		Scopes:       p.Scopes(),
		Endpoint:     p.endpoint,
	}
}

// StartOAuth builds the consent URL. access_type=offline and prompt=consent
// are always sent: offline access is what yields a refresh token, and
// forcing the consent screen makes the provider reissue one even for a user
// who granted access before.
func (p *Provider) StartOAuth(fc FlowContext) (string, error) {
	if err := fc.validate(); err != nil {
		return "", err
	}

	st := flowstate.New(fc.NodeID, p.key, fc.Credential)
	encoded, err := flowstate.Encode(st)
	if err != nil {
		return "", err
	}

	logger.Debugw("building authorization URL",
		"provider", p.key,
		"credential_id", st.CredentialID,
	)

	return p.oauth2Config(fc).AuthCodeURL(encoded,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	), nil
}

// HandleCallback exchanges the authorization code and probes the provider
// API once to confirm the tokens are usable. A successful exchange does not
// guarantee a usable token (missing consented scopes, for one), which is
// why the probe is mandatory before reporting success.
func (p *Provider) HandleCallback(ctx context.Context, code string, fc FlowContext) (*TokenResult, error) {
	if code == "" {
		return nil, errors.NewBadRequestError("authorization code is required", nil)
	}
	if err := fc.validate(); err != nil {
		return nil, err
	}

	// Route the exchange through our bounded client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)

	token, err := p.oauth2Config(fc).Exchange(ctx, code)
	if err != nil {
		logger.Warnw("authorization code exchange failed",
			"provider", p.key,
			"error", err.Error(),
		)
		return &TokenResult{
			Authenticated: false,
			Error:         FriendlyError(err),
		}, nil
	}

	hint, err := p.probe(ctx, p.httpClient, p.probeURL, token.AccessToken)
	if err != nil {
		logger.Warnw("token verification probe failed",
			"provider", p.key,
			"error", err.Error(),
		)
		return &TokenResult{
			Authenticated: false,
			Error:         "The provider issued tokens but they could not be used. Check that all requested permissions were granted.",
		}, nil
	}

	logger.Infow("authorization code exchange successful",
		"provider", p.key,
		"has_refresh_token", token.RefreshToken != "",
		"expires_at", token.Expiry.Format(time.RFC3339),
	)

	return &TokenResult{
		AccessToken:   token.AccessToken,
		RefreshToken:  token.RefreshToken,
		TokenExpiry:   token.Expiry,
		Authenticated: true,
		IdentityHint:  hint,
	}, nil
}

// Package oauth coordinates authorization-code flows against the registered
// identity providers: it starts flows, decodes the correlation state carried
// back by the provider's redirect, and reconciles token results with the
// credential store.
package oauth

import (
	"context"
	"time"

	"github.com/brygal1/flowise/pkg/credentials"
	"github.com/brygal1/flowise/pkg/logger"
	"github.com/brygal1/flowise/pkg/oauth/flowstate"
	"github.com/brygal1/flowise/pkg/oauth/providers"
)

// defaultExchangeTimeout bounds the token exchange plus probe call. A
// hanging provider fails the flow instead of the handler.
const defaultExchangeTimeout = 60 * time.Second

// Coordinator is the stateless entry point for starting flows and handling
// callbacks. The registry is immutable after construction; everything else
// lives per-request, so a single Coordinator serves concurrent flows.
type Coordinator struct {
	registry        *providers.Registry
	store           credentials.Store
	exchangeTimeout time.Duration
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithExchangeTimeout overrides the bound on the exchange-plus-probe phase.
func WithExchangeTimeout(d time.Duration) CoordinatorOption {
	return func(c *Coordinator) {
		c.exchangeTimeout = d
	}
}

// NewCoordinator creates a coordinator over the given registry and store.
// The caller must finish registering providers before exposing routes that
// reach the coordinator.
func NewCoordinator(registry *providers.Registry, store credentials.Store, opts ...CoordinatorOption) *Coordinator {
	c := &Coordinator{
		registry:        registry,
		store:           store,
		exchangeTimeout: defaultExchangeTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// StartRequest carries the caller's input to StartFlow.
type StartRequest struct {
	// NodeID is the opaque caller context id, if any.
	NodeID string

	// CredentialID selects an existing credential, or is empty / "new" for
	// a flow that creates one after success.
	CredentialID string

	// CredentialData is the caller-supplied client configuration, used for
	// new-credential flows and as a per-field fallback otherwise.
	CredentialData *flowstate.CredentialSeed
}

// StartFlow validates the provider key, resolves the credential context,
// and returns the provider consent URL to redirect the user to.
func (c *Coordinator) StartFlow(ctx context.Context, providerKey string, req StartRequest) (string, error) {
	desc, err := c.registry.Get(providerKey)
	if err != nil {
		return "", err
	}

	sources := flowstate.CredentialSources{Caller: req.CredentialData}

	var ref flowstate.CredentialRef
	if req.CredentialID == "" || req.CredentialID == flowstate.NewCredentialSentinel {
		// No stored record yet: the resolved seed rides inside the state
		// payload so the callback can complete without a lookup.
		resolved := flowstate.Resolve(sources)
		ref = flowstate.PendingCredential(&resolved)
	} else {
		rec, err := c.store.Load(ctx, req.CredentialID)
		if err != nil {
			return "", err
		}
		sources.Stored = seedFromRecord(rec)
		ref = flowstate.ExistingCredential(rec.ID)
	}

	resolved := flowstate.Resolve(sources)
	authURL, err := desc.StartOAuth(providers.FlowContext{
		NodeID:       req.NodeID,
		Credential:   ref,
		ClientID:     resolved.ClientID,
		ClientSecret: resolved.ClientSecret,
		RedirectURI:  resolved.RedirectURI,
	})
	if err != nil {
		return "", err
	}

	flowsStarted.WithLabelValues(providerKey).Inc()
	logger.Infow("started OAuth flow",
		"provider", providerKey,
		"new_credential", ref.IsPending(),
		"node_id", req.NodeID,
	)

	return authURL, nil
}

func seedFromRecord(rec *credentials.Record) *flowstate.CredentialSeed {
	return &flowstate.CredentialSeed{
		ClientID:     rec.ClientID,
		ClientSecret: rec.ClientSecret,
		RedirectURI:  rec.RedirectURI,
	}
}

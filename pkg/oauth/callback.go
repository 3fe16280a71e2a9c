package oauth

import (
	"context"

	"github.com/brygal1/flowise/pkg/credentials"
	"github.com/brygal1/flowise/pkg/errors"
	"github.com/brygal1/flowise/pkg/logger"
	"github.com/brygal1/flowise/pkg/oauth/flowstate"
	"github.com/brygal1/flowise/pkg/oauth/providers"
)

// CallbackResult is the rendered-facing outcome of a callback. Provider
// rejections come back as Authenticated=false with a friendly message;
// only caller defects and adapter failures surface as errors.
type CallbackResult struct {
	Authenticated  bool
	ProviderKey    string
	ProviderName   string
	IdentityHint   string
	FailureMessage string
}

// HandleCallback drives the callback through validation, state decoding,
// provider resolution, credential context resolution, the token exchange,
// and reconciliation with the store. The returned error is of the pkg/errors
// taxonomy and always maps to a failure page; a non-nil result is always
// rendered, success or not.
func (c *Coordinator) HandleCallback(ctx context.Context, pathProviderKey, code, stateParam string) (*CallbackResult, error) {
	if code == "" {
		return nil, errors.NewBadRequestError("missing code query parameter", nil)
	}
	if stateParam == "" {
		return nil, errors.NewBadRequestError("missing state query parameter", nil)
	}

	st, err := flowstate.Decode(stateParam)
	if err != nil {
		return nil, err
	}

	// The state payload names the provider that started the flow. It wins
	// over the path parameter: legacy transports route every provider
	// through one fixed callback path.
	key := st.ProviderKey
	if key == "" {
		key = pathProviderKey
	}
	if pathProviderKey != "" && key != pathProviderKey {
		logger.Debugw("callback path and state disagree on provider",
			"path_provider", pathProviderKey,
			"state_provider", key,
		)
	}

	desc, err := c.registry.Get(key)
	if err != nil {
		return nil, err
	}

	ref := st.Ref()
	sources := flowstate.CredentialSources{}
	if ref.IsPending() {
		if ref.Seed() == nil {
			return nil, errors.NewBadRequestError("flow for a new credential is missing its embedded configuration", nil)
		}
		sources.Caller = ref.Seed()
	} else {
		rec, loadErr := c.store.Load(ctx, ref.ID())
		if loadErr != nil {
			if errors.IsNotFound(loadErr) {
				return nil, loadErr
			}
			return nil, errors.NewInternalError("failed to load credential for callback", loadErr)
		}
		sources.Stored = seedFromRecord(rec)
	}

	resolved := flowstate.Resolve(sources)
	fc := providers.FlowContext{
		NodeID:       st.NodeID,
		Credential:   ref,
		ClientID:     resolved.ClientID,
		ClientSecret: resolved.ClientSecret,
		RedirectURI:  resolved.RedirectURI,
	}

	// The exchange must finish even if the browser disconnects, so
	// reconciliation happens exactly once. Detach from the request's
	// cancellation and apply our own bound instead.
	exchangeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.exchangeTimeout)
	defer cancel()

	result, err := desc.HandleCallback(exchangeCtx, code, fc)
	if err != nil {
		return nil, err
	}

	c.reconcile(exchangeCtx, desc, ref, result)

	outcome := "success"
	if !result.Authenticated {
		outcome = "failure"
	}
	flowCallbacks.WithLabelValues(key, outcome).Inc()

	return &CallbackResult{
		Authenticated:  result.Authenticated,
		ProviderKey:    key,
		ProviderName:   desc.DisplayName(),
		IdentityHint:   result.IdentityHint,
		FailureMessage: result.Error,
	}, nil
}

// reconcile writes the token result back to the store. Write failures are
// logged, never surfaced: the authentication outcome was already decided
// and a secondary storage error must not mask it from the user.
func (c *Coordinator) reconcile(ctx context.Context, desc providers.Descriptor,
	ref flowstate.CredentialRef, result *providers.TokenResult) {
	switch {
	case result.Authenticated && ref.IsPending():
		seed := ref.Seed()
		id, err := c.store.Create(ctx, &credentials.Record{
			Type:         desc.CredentialType(),
			ClientID:     seed.ClientID,
			ClientSecret: seed.ClientSecret,
			RedirectURI:  seed.RedirectURI,
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			TokenExpiry:  result.TokenExpiry,
			AuthStatus:   credentials.StatusAuthenticated,
		})
		if err != nil {
			logger.Errorw("failed to create credential after successful auth",
				"provider", desc.ProviderKey(),
				"error", err.Error(),
			)
			return
		}
		logger.Infow("created credential",
			"provider", desc.ProviderKey(),
			"credential_id", id,
		)

	case result.Authenticated:
		if err := c.store.UpdateTokens(ctx, ref.ID(), credentials.TokenUpdate{
			AccessToken:  result.AccessToken,
			RefreshToken: result.RefreshToken,
			TokenExpiry:  result.TokenExpiry,
		}); err != nil {
			logger.Errorw("failed to store tokens after successful auth",
				"provider", desc.ProviderKey(),
				"credential_id", ref.ID(),
				"error", err.Error(),
			)
		}

	case !ref.IsPending():
		if err := c.store.UpdateStatus(ctx, ref.ID(), credentials.StatusNotAuthenticated); err != nil {
			logger.Errorw("failed to downgrade credential after failed auth",
				"provider", desc.ProviderKey(),
				"credential_id", ref.ID(),
				"error", err.Error(),
			)
		}

	default:
		// Failed flow for a credential that was never created: nothing to
		// write, the failure is reported and discarded.
	}
}

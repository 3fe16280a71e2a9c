// Package v1 contains the HTTP routes of the flowise API.
package v1

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/brygal1/flowise/pkg/errors"
	"github.com/brygal1/flowise/pkg/logger"
	"github.com/brygal1/flowise/pkg/oauth"
	"github.com/brygal1/flowise/pkg/oauth/flowstate"
	"github.com/brygal1/flowise/pkg/oauth/providers"
)

// OAuthRoutes defines the routes for starting flows and handling provider
// callbacks.
type OAuthRoutes struct {
	coordinator *oauth.Coordinator
	registry    *providers.Registry
}

// OAuthRouter creates a new router for the OAuth flow API.
func OAuthRouter(coordinator *oauth.Coordinator, registry *providers.Registry) http.Handler {
	routes := OAuthRoutes{
		coordinator: coordinator,
		registry:    registry,
	}

	r := chi.NewRouter()
	r.Get("/providers", routes.listProviders)
	r.Post("/start/{providerKey}", routes.startFlow)
	r.Get("/callback/{providerKey}", routes.handleCallback)
	return r
}

type startFlowRequest struct {
	NodeID         string                    `json:"nodeId,omitempty"`
	CredentialID   string                    `json:"credentialId,omitempty"`
	CredentialData *flowstate.CredentialSeed `json:"credentialData,omitempty"`
}

type startFlowResponse struct {
	AuthURL string `json:"authUrl"`
}

type errorResponse struct {
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

type providerInfo struct {
	ProviderKey    string   `json:"providerKey"`
	DisplayName    string   `json:"displayName"`
	CredentialType string   `json:"credentialType"`
	Scopes         []string `json:"scopes"`
}

// listProviders returns the registered provider descriptors.
func (o *OAuthRoutes) listProviders(w http.ResponseWriter, _ *http.Request) {
	registered := o.registry.All()
	out := make([]providerInfo, 0, len(registered))
	for _, d := range registered {
		out = append(out, providerInfo{
			ProviderKey:    d.ProviderKey(),
			DisplayName:    d.DisplayName(),
			CredentialType: d.CredentialType(),
			Scopes:         d.Scopes(),
		})
	}

	writeJSON(w, http.StatusOK, out)
}

// startFlow validates the request and returns the provider consent URL the
// caller should redirect the user to.
func (o *OAuthRoutes) startFlow(w http.ResponseWriter, r *http.Request) {
	providerKey := chi.URLParam(r, "providerKey")

	var req startFlowRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, errors.NewBadRequestError("invalid request body", err))
			return
		}
	}

	authURL, err := o.coordinator.StartFlow(r.Context(), providerKey, oauth.StartRequest{
		NodeID:         req.NodeID,
		CredentialID:   req.CredentialID,
		CredentialData: req.CredentialData,
	})
	if err != nil {
		logger.Warnw("failed to start OAuth flow",
			"provider", providerKey,
			"error", err.Error(),
		)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, startFlowResponse{AuthURL: authURL})
}

// handleCallback completes a flow. The response is always HTML: this URL is
// opened in the user's browser by the identity provider's redirect, not
// called by an API client.
func (o *OAuthRoutes) handleCallback(w http.ResponseWriter, r *http.Request) {
	providerKey := chi.URLParam(r, "providerKey")
	query := r.URL.Query()

	result, err := o.coordinator.HandleCallback(r.Context(),
		providerKey, query.Get("code"), query.Get("state"))
	if err != nil {
		logger.Warnw("OAuth callback failed",
			"provider", providerKey,
			"error", err.Error(),
		)
		oauth.RenderFailurePage(w, statusFor(err), publicMessage(err))
		return
	}

	if !result.Authenticated {
		oauth.RenderFailurePage(w, http.StatusOK, result.FailureMessage)
		return
	}

	oauth.RenderSuccessPage(w, result)
}

// statusFor maps the error taxonomy to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.IsBadRequest(err), errors.IsMissingCredentials(err):
		return http.StatusBadRequest
	case errors.IsNotFound(err):
		return http.StatusNotFound
	case errors.IsAuthFailed(err):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// publicMessage returns text safe to show a user. Internal errors keep
// their detail in the logs only.
func publicMessage(err error) string {
	if errors.IsInternal(err) {
		return "An internal error occurred while completing authentication."
	}
	var typed *errors.Error
	if stderrors.As(err, &typed) {
		return typed.Message
	}
	return "Authentication could not be completed."
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Errorf("failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	resp := errorResponse{Message: publicMessage(err)}
	var typed *errors.Error
	if stderrors.As(err, &typed) && typed.Cause != nil && !errors.IsInternal(err) {
		resp.Details = typed.Cause.Error()
	}
	writeJSON(w, statusFor(err), resp)
}

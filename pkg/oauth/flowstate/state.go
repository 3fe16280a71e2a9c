// Package flowstate defines the correlation payload carried through the
// OAuth state parameter. The payload is what lets a callback, possibly on
// a different instance than the one that started the flow, find its way
// back to the right credential. It is base64-encoded JSON and readable by
// anyone who intercepts the redirect, so it must never carry secrets beyond
// what the flow already needs to complete.
package flowstate

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"

	"github.com/brygal1/flowise/pkg/errors"
)

// newNonce returns a short random URL-safe string.
func newNonce() string {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		// crypto/rand failing means the process is in much deeper trouble;
		// a missing nonce only costs encoding uniqueness.
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}

// NewCredentialSentinel is the wire value of credentialId for flows that
// create a credential after a successful exchange.
const NewCredentialSentinel = "new"

// CredentialSeed carries the client configuration for a flow that has no
// stored credential yet. It rides inside the state parameter.
type CredentialSeed struct {
	ClientID     string `json:"clientId"`
	ClientSecret string `json:"clientSecret"`
	RedirectURI  string `json:"redirectUri"`
}

// State is the correlation payload round-tripped through the identity
// provider unmodified. Created by the authorization initiator, consumed
// exactly once by the callback handler, never persisted.
type State struct {
	// NodeID is the opaque caller context id, if any.
	NodeID string `json:"nodeId,omitempty"`

	// CredentialID is an existing credential's id, or NewCredentialSentinel.
	CredentialID string `json:"credentialId"`

	// ProviderKey names the descriptor that handles this flow. It takes
	// precedence over any path-derived key on the callback side.
	ProviderKey string `json:"providerKey"`

	// CredentialSeed is present only when CredentialID is the sentinel:
	// there is no persisted record to hold the client configuration yet.
	CredentialSeed *CredentialSeed `json:"credentialSeed,omitempty"`

	// Nonce makes every encoding unique. It carries no meaning on the
	// callback side and is not part of payload equivalence.
	Nonce string `json:"nonce,omitempty"`
}

// Ref returns the tagged credential reference for this payload.
func (s State) Ref() CredentialRef {
	if s.CredentialID == NewCredentialSentinel {
		return PendingCredential(s.CredentialSeed)
	}
	return ExistingCredential(s.CredentialID)
}

// New builds the state payload for a flow. Each call produces a payload
// with a fresh nonce, so two starts with identical inputs still encode to
// distinct state values.
func New(nodeID, providerKey string, ref CredentialRef) State {
	st := State{
		NodeID:      nodeID,
		ProviderKey: providerKey,
		Nonce:       newNonce(),
	}
	if ref.IsPending() {
		st.CredentialID = NewCredentialSentinel
		st.CredentialSeed = ref.seed
	} else {
		st.CredentialID = ref.id
	}
	return st
}

// Encode serializes the payload for the OAuth state query parameter.
func Encode(s State) (string, error) {
	raw, err := json.Marshal(s)
	if err != nil {
		return "", errors.NewInternalError("failed to marshal state payload", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode parses a state query parameter back into the payload. Malformed
// input is a terminal bad-request condition; no partial recovery is
// attempted from a corrupt blob.
func Decode(raw string) (State, error) {
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return State{}, errors.NewBadRequestError("state parameter is not valid base64", err)
	}

	var s State
	if err := json.Unmarshal(decoded, &s); err != nil {
		return State{}, errors.NewBadRequestError("state parameter does not contain a valid payload", err)
	}

	if s.CredentialID == "" {
		return State{}, errors.NewBadRequestError("state payload is missing a credential id", nil)
	}

	return s, nil
}

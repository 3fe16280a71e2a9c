package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2/google"

	"github.com/brygal1/flowise/pkg/networking"
)

const (
	// GmailProviderKey is the stable key for the Gmail provider.
	GmailProviderKey = "gmail"

	// GmailCredentialType is the credential-store schema name for Gmail.
	GmailCredentialType = "gmailOAuth2"

	gmailProfileURL = "https://gmail.googleapis.com/gmail/v1/users/me/profile"
)

// gmailScopes is the fixed permission list requested for Gmail flows. The
// list is not user-configurable at runtime.
var gmailScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.compose",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/gmail.labels",
}

// NewGmail creates the Gmail provider descriptor.
func NewGmail(opts ...Option) *Provider {
	return newProvider(
		GmailProviderKey,
		"Gmail",
		GmailCredentialType,
		gmailScopes,
		google.Endpoint,
		gmailProfileURL,
		gmailProbe,
		opts...,
	)
}

// gmailProbe fetches the authenticated user's Gmail profile. The profile
// endpoint requires any of the granted gmail.* scopes, so a success here
// means the token actually works against the API.
func gmailProbe(ctx context.Context, client networking.HTTPClient, probeURL, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create profile request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("profile request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read profile response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("profile request failed with status %d", resp.StatusCode)
	}

	var profile struct {
		EmailAddress string `json:"emailAddress"`
	}
	if err := json.Unmarshal(body, &profile); err != nil {
		return "", fmt.Errorf("failed to parse profile response: %w", err)
	}

	return profile.EmailAddress, nil
}

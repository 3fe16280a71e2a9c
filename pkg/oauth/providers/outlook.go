package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2/microsoft"

	"github.com/brygal1/flowise/pkg/networking"
)

const (
	// OutlookProviderKey is the stable key for the Outlook provider.
	OutlookProviderKey = "outlook"

	// OutlookCredentialType is the credential-store schema name for Outlook.
	OutlookCredentialType = "outlookOAuth2"

	graphMeURL = "https://graph.microsoft.com/v1.0/me"

	// maxProbeResponseSize bounds probe response bodies.
	maxProbeResponseSize = 1024 * 1024
)

// outlookScopes is the fixed permission list requested for Outlook flows.
// offline_access is Microsoft's spelling of the refresh-token grant; the
// access_type=offline query parameter sent alongside is ignored by Graph
// but required by the shared start policy.
var outlookScopes = []string{
	"offline_access",
	"User.Read",
	"Mail.ReadWrite",
	"Mail.Send",
	"Calendars.ReadWrite",
}

// NewOutlook creates the Outlook provider descriptor against the common
// (multi-tenant) AzureAD endpoints.
func NewOutlook(opts ...Option) *Provider {
	return newProvider(
		OutlookProviderKey,
		"Microsoft Outlook",
		OutlookCredentialType,
		outlookScopes,
		microsoft.AzureADEndpoint("common"),
		graphMeURL,
		outlookProbe,
		opts...,
	)
}

// outlookProbe fetches the authenticated user from Microsoft Graph.
func outlookProbe(ctx context.Context, client networking.HTTPClient, probeURL, accessToken string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, probeURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create graph request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("graph request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxProbeResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read graph response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("graph request failed with status %d", resp.StatusCode)
	}

	var me struct {
		Mail              string `json:"mail"`
		UserPrincipalName string `json:"userPrincipalName"`
	}
	if err := json.Unmarshal(body, &me); err != nil {
		return "", fmt.Errorf("failed to parse graph response: %w", err)
	}

	if me.Mail != "" {
		return me.Mail, nil
	}
	return me.UserPrincipalName, nil
}

package providers

import (
	"errors"
	"strings"

	"golang.org/x/oauth2"
)

// knownErrorCodes is the fixed lookup order for provider error codes. The
// table below is the single place provider error vocabularies are mapped
// onto user-facing guidance; handlers never match on raw provider text.
var knownErrorCodes = []string{
	"redirect_uri_mismatch",
	"invalid_client",
	"invalid_grant",
	"invalid_request",
	"invalid_scope",
	"unauthorized_client",
	"access_denied",
	"unsupported_grant_type",
}

var friendlyMessages = map[string]string{
	"redirect_uri_mismatch":  "The redirect URI does not match the one registered with the provider. Update the credential or the provider's app registration.",
	"invalid_client":         "The client id or client secret was rejected by the provider. Check the credential's configuration.",
	"invalid_grant":          "The authorization code has expired or was already used. Start the authentication flow again.",
	"invalid_request":        "The authorization request was malformed. Start the authentication flow again.",
	"invalid_scope":          "One or more of the requested permissions are invalid or not enabled for this application.",
	"unauthorized_client":    "This application is not authorized to use the authorization code flow with the provider.",
	"access_denied":          "Access was denied. The consent screen was declined or the account is not permitted to grant it.",
	"unsupported_grant_type": "The provider rejected the token request's grant type.",
}

// genericAuthFailure is shown when the provider's error is not in the table.
const genericAuthFailure = "Authentication failed. The provider rejected the request."

// FriendlyError maps a token-exchange error onto a message safe to show in
// the browser. Structured OAuth errors are matched by code; anything else
// falls back to a substring scan over the known codes, then to a generic
// message. Raw provider text is never returned.
func FriendlyError(err error) string {
	if err == nil {
		return ""
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) && retrieveErr.ErrorCode != "" {
		if msg, ok := friendlyMessages[retrieveErr.ErrorCode]; ok {
			return msg
		}
		return genericAuthFailure
	}

	text := err.Error()
	for _, code := range knownErrorCodes {
		if strings.Contains(text, code) {
			return friendlyMessages[code]
		}
	}

	return genericAuthFailure
}

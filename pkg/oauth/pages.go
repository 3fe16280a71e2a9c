package oauth

import (
	"fmt"
	"html"
	"net/http"

	"github.com/brygal1/flowise/pkg/logger"
)

// setPageHeaders sets common security headers for the HTML responses.
func setPageHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("X-Frame-Options", "DENY")
	w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
	w.Header().Set("Content-Security-Policy",
		"default-src 'self'; style-src 'unsafe-inline'; script-src 'unsafe-inline'; object-src 'none';")
}

// RenderSuccessPage writes the success page for a completed flow. The tab
// closes itself after a moment and offers a manual close action.
func RenderSuccessPage(w http.ResponseWriter, result *CallbackResult) {
	setPageHeaders(w)

	account := ""
	if result.IdentityHint != "" {
		account = fmt.Sprintf("<p>Connected account: <strong>%s</strong></p>", html.EscapeString(result.IdentityHint))
	}

	page := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <title>Authentication Successful</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; text-align: center; }
        .container { max-width: 600px; margin: 0 auto; }
        .message { padding: 20px; border-radius: 5px; margin: 20px 0; }
        .success { background-color: #e7f6e7; border: 1px solid #b3e6b3; color: #006600; }
        button { padding: 8px 24px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Authentication Successful</h1>
        <div class="message success">
            <p>%s was connected successfully. This window will close itself; you can also close it now.</p>
            %s
        </div>
        <button onclick="window.close()">Close window</button>
    </div>
    <script>setTimeout(function() { window.close(); }, 3000);</script>
</body>
</html>`, html.EscapeString(result.ProviderName), account)

	if _, err := w.Write([]byte(page)); err != nil {
		logger.Warnf("failed to write success page: %v", err)
	}
}

// RenderFailurePage writes a failure page with the given status code. The
// message must already be a mapped friendly string; raw provider or
// internal error text is never passed here.
func RenderFailurePage(w http.ResponseWriter, statusCode int, message string) {
	setPageHeaders(w)
	w.WriteHeader(statusCode)

	page := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <title>Authentication Failed</title>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <style>
        body { font-family: Arial, sans-serif; margin: 40px; text-align: center; }
        .container { max-width: 600px; margin: 0 auto; }
        .message { padding: 20px; border-radius: 5px; margin: 20px 0; }
        .error { background-color: #ffe7e7; border: 1px solid #ffb3b3; color: #cc0000; }
        button { padding: 8px 24px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>Authentication Failed</h1>
        <div class="message error">
            <p>%s</p>
            <p>Close this window and try again from the application.</p>
        </div>
        <button onclick="window.close()">Close window</button>
    </div>
</body>
</html>`, html.EscapeString(message))

	if _, err := w.Write([]byte(page)); err != nil {
		logger.Warnf("failed to write failure page: %v", err)
	}
}

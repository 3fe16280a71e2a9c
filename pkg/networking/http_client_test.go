package networking

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilderDefaults(t *testing.T) {
	t.Parallel()

	client := NewHttpClientBuilder().Build()
	assert.Equal(t, HttpTimeout, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 10*time.Second, transport.TLSHandshakeTimeout)
	assert.Equal(t, 10*time.Second, transport.ResponseHeaderTimeout)
}

func TestBuilderOverrides(t *testing.T) {
	t.Parallel()

	client := NewHttpClientBuilder().
		WithTimeout(5 * time.Second).
		WithResponseHeaderTimeout(2 * time.Second).
		Build()

	assert.Equal(t, 5*time.Second, client.Timeout)

	transport, ok := client.Transport.(*http.Transport)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, transport.ResponseHeaderTimeout)
}

func TestClientTimesOutOnHangingServer(t *testing.T) {
	t.Parallel()

	hang := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		<-hang
	}))
	t.Cleanup(func() {
		close(hang)
		srv.Close()
	})

	client := NewHttpClientBuilder().WithTimeout(100 * time.Millisecond).Build()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	_, err = client.Do(req) //nolint:bodyclose // request fails before a body exists
	require.Error(t, err)
}

package providers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brygal1/flowise/pkg/errors"
	"github.com/brygal1/flowise/pkg/networking"
)

func TestRegisterAndGet(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(NewGmail())

	d, err := registry.Get(GmailProviderKey)
	require.NoError(t, err)
	assert.Equal(t, GmailProviderKey, d.ProviderKey())
	assert.Equal(t, "Gmail", d.DisplayName())
	assert.Equal(t, GmailCredentialType, d.CredentialType())
	assert.NotEmpty(t, d.Scopes())
}

func TestGetUnknownKeyIsNotFound(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(NewGmail())

	_, err := registry.Get("unknown")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestHas(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	assert.False(t, registry.Has(OutlookProviderKey))

	registry.Register(NewOutlook())
	assert.True(t, registry.Has(OutlookProviderKey))
}

func TestRegisterLastWriteWins(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	first := NewGmail()
	second := NewGmail()

	registry.Register(first)
	registry.Register(second)

	d, err := registry.Get(GmailProviderKey)
	require.NoError(t, err)
	assert.Same(t, second, d)
	assert.Len(t, registry.All(), 1)
}

func TestAllReturnsSnapshot(t *testing.T) {
	t.Parallel()

	registry := NewRegistry()
	registry.Register(NewGmail())
	registry.Register(NewOutlook())

	all := registry.All()
	assert.Len(t, all, 2)

	keys := make(map[string]bool)
	for _, d := range all {
		keys[d.ProviderKey()] = true
	}
	assert.True(t, keys[GmailProviderKey])
	assert.True(t, keys[OutlookProviderKey])
}

func TestDefaultDescriptors(t *testing.T) {
	t.Parallel()

	descriptors := DefaultDescriptors(networking.NewHttpClientBuilder().Build())
	require.Len(t, descriptors, 2)
	assert.Equal(t, GmailProviderKey, descriptors[0].ProviderKey())
	assert.Equal(t, OutlookProviderKey, descriptors[1].ProviderKey())
}

func TestScopesReturnsCopy(t *testing.T) {
	t.Parallel()

	gmail := NewGmail()
	scopes := gmail.Scopes()
	scopes[0] = "mutated"

	assert.NotEqual(t, "mutated", gmail.Scopes()[0])
}

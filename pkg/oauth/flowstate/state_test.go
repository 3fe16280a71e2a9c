package flowstate

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brygal1/flowise/pkg/errors"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		state State
	}{
		{
			name: "existing credential",
			state: State{
				NodeID:       "node-42",
				CredentialID: "cred-1",
				ProviderKey:  "gmail",
			},
		},
		{
			name: "new credential with seed",
			state: State{
				CredentialID: NewCredentialSentinel,
				ProviderKey:  "outlook",
				CredentialSeed: &CredentialSeed{
					ClientID:     "client-id",
					ClientSecret: "client-secret",
					RedirectURI:  "https://app.example.com/oauth/callback/outlook",
				},
			},
		},
		{
			name: "no node id",
			state: State{
				CredentialID: "cred-2",
				ProviderKey:  "gmail",
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			encoded, err := Encode(tt.state)
			require.NoError(t, err)

			decoded, err := Decode(encoded)
			require.NoError(t, err)
			assert.Equal(t, tt.state, decoded)
		})
	}
}

func TestDecodeRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
	}{
		{"not base64", "%%%not-base64%%%"},
		{"base64 but not json", base64.StdEncoding.EncodeToString([]byte("not json"))},
		{"json without credential id", base64.StdEncoding.EncodeToString([]byte(`{"providerKey":"gmail"}`))},
		{"empty string", ""},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(tt.raw)
			require.Error(t, err)
			assert.True(t, errors.IsBadRequest(err))
		})
	}
}

func TestDecodeEmptyStringIsBadRequest(t *testing.T) {
	t.Parallel()

	// "" is valid base64 for zero bytes, so this must fail on the JSON step.
	_, err := Decode("")
	assert.True(t, errors.IsBadRequest(err))
}

func TestRef(t *testing.T) {
	t.Parallel()

	t.Run("existing", func(t *testing.T) {
		t.Parallel()

		ref := State{CredentialID: "cred-1", ProviderKey: "gmail"}.Ref()
		assert.False(t, ref.IsPending())
		assert.Equal(t, "cred-1", ref.ID())
		assert.Nil(t, ref.Seed())
	})

	t.Run("pending with seed", func(t *testing.T) {
		t.Parallel()

		seed := &CredentialSeed{ClientID: "id"}
		ref := State{CredentialID: NewCredentialSentinel, CredentialSeed: seed}.Ref()
		assert.True(t, ref.IsPending())
		assert.Empty(t, ref.ID())
		assert.Equal(t, seed, ref.Seed())
	})

	t.Run("pending without seed", func(t *testing.T) {
		t.Parallel()

		ref := State{CredentialID: NewCredentialSentinel}.Ref()
		assert.True(t, ref.IsPending())
		assert.Nil(t, ref.Seed())
	})
}

func TestNewGeneratesFreshNonces(t *testing.T) {
	t.Parallel()

	ref := ExistingCredential("cred-1")
	first := New("node-1", "gmail", ref)
	second := New("node-1", "gmail", ref)

	assert.NotEmpty(t, first.Nonce)
	assert.NotEqual(t, first.Nonce, second.Nonce)

	firstEncoded, err := Encode(first)
	require.NoError(t, err)
	secondEncoded, err := Encode(second)
	require.NoError(t, err)
	assert.NotEqual(t, firstEncoded, secondEncoded)
}

func TestNewStateFromRef(t *testing.T) {
	t.Parallel()

	t.Run("pending embeds sentinel and seed", func(t *testing.T) {
		t.Parallel()

		seed := &CredentialSeed{ClientID: "id", ClientSecret: "secret", RedirectURI: "https://cb"}
		st := New("node-1", "gmail", PendingCredential(seed))
		assert.Equal(t, NewCredentialSentinel, st.CredentialID)
		assert.Equal(t, seed, st.CredentialSeed)
		assert.Equal(t, "gmail", st.ProviderKey)
		assert.Equal(t, "node-1", st.NodeID)
	})

	t.Run("existing carries only the id", func(t *testing.T) {
		t.Parallel()

		st := New("", "outlook", ExistingCredential("cred-9"))
		assert.Equal(t, "cred-9", st.CredentialID)
		assert.Nil(t, st.CredentialSeed)
	})
}

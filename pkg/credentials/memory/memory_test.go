package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brygal1/flowise/pkg/credentials"
	"github.com/brygal1/flowise/pkg/errors"
)

func TestCreateAndLoad(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	id, err := store.Create(ctx, &credentials.Record{
		Type:         "gmailOAuth2",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		RedirectURI:  "https://app.example.com/oauth/callback/gmail",
		AuthStatus:   credentials.StatusNotAuthenticated,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	rec, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, rec.ID)
	assert.Equal(t, "gmailOAuth2", rec.Type)
	assert.Equal(t, "client-id", rec.ClientID)
	assert.Equal(t, credentials.StatusNotAuthenticated, rec.AuthStatus)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestLoadUnknownID(t *testing.T) {
	t.Parallel()

	store := NewStore()

	_, err := store.Load(context.Background(), "no-such-id")
	require.Error(t, err)
	assert.True(t, errors.IsNotFound(err))
}

func TestUpdateTokensMarksAuthenticated(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	id, err := store.Create(ctx, &credentials.Record{
		Type:       "outlookOAuth2",
		AuthStatus: credentials.StatusNotAuthenticated,
	})
	require.NoError(t, err)

	expiry := time.Now().Add(time.Hour).UTC()
	err = store.UpdateTokens(ctx, id, credentials.TokenUpdate{
		AccessToken:  "access",
		RefreshToken: "refresh",
		TokenExpiry:  expiry,
	})
	require.NoError(t, err)

	rec, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "access", rec.AccessToken)
	assert.Equal(t, "refresh", rec.RefreshToken)
	assert.Equal(t, expiry, rec.TokenExpiry)
	assert.Equal(t, credentials.StatusAuthenticated, rec.AuthStatus)
}

func TestUpdateStatusLeavesTokensAlone(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	id, err := store.Create(ctx, &credentials.Record{
		Type:        "gmailOAuth2",
		AccessToken: "stale-access",
		AuthStatus:  credentials.StatusAuthenticated,
	})
	require.NoError(t, err)

	require.NoError(t, store.UpdateStatus(ctx, id, credentials.StatusNotAuthenticated))

	rec, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, credentials.StatusNotAuthenticated, rec.AuthStatus)
	assert.Equal(t, "stale-access", rec.AccessToken)
}

func TestUpdateUnknownID(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	assert.True(t, errors.IsNotFound(store.UpdateTokens(ctx, "missing", credentials.TokenUpdate{})))
	assert.True(t, errors.IsNotFound(store.UpdateStatus(ctx, "missing", credentials.StatusAuthenticated)))
}

func TestLoadReturnsCopy(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	id, err := store.Create(ctx, &credentials.Record{Type: "gmailOAuth2", ClientID: "original"})
	require.NoError(t, err)

	rec, err := store.Load(ctx, id)
	require.NoError(t, err)
	rec.ClientID = "mutated"

	again, err := store.Load(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "original", again.ClientID)
}

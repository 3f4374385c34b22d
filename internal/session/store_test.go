package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jorge11BYU/project3/internal/models"
)

func TestCreateAndGet(t *testing.T) {
	store := NewStore("test-secret", time.Hour)
	user := &models.User{UserID: 1, Username: "alice"}

	id := store.Create(user)
	assert.NotEmpty(t, id)

	got, ok := store.Get(id)
	assert.True(t, ok)
	assert.Equal(t, user, got)

	_, ok = store.Get("unknown-id")
	assert.False(t, ok)
}

func TestDelete(t *testing.T) {
	store := NewStore("test-secret", time.Hour)
	id := store.Create(&models.User{UserID: 1})

	store.Delete(id)

	_, ok := store.Get(id)
	assert.False(t, ok)
}

func TestExpiredSessionIsMiss(t *testing.T) {
	store := NewStore("test-secret", -time.Minute)
	id := store.Create(&models.User{UserID: 1})

	_, ok := store.Get(id)
	assert.False(t, ok)
}

func TestPruneExpired(t *testing.T) {
	store := NewStore("test-secret", -time.Minute)
	store.Create(&models.User{UserID: 1})
	store.Create(&models.User{UserID: 2})

	removed := store.PruneExpired()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 0, store.PruneExpired())
}

func TestTokenRoundTrip(t *testing.T) {
	store := NewStore("test-secret", time.Hour)

	token, err := store.SignToken("session-123")
	assert.NoError(t, err)

	sid, err := store.ParseToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "session-123", sid)
}

func TestTamperedTokenRejected(t *testing.T) {
	store := NewStore("test-secret", time.Hour)

	token, err := store.SignToken("session-123")
	assert.NoError(t, err)

	_, err = store.ParseToken(token + "x")
	assert.Error(t, err)
}

func TestTokenFromDifferentSecretRejected(t *testing.T) {
	signer := NewStore("secret-a", time.Hour)
	verifier := NewStore("secret-b", time.Hour)

	token, err := signer.SignToken("session-123")
	assert.NoError(t, err)

	_, err = verifier.ParseToken(token)
	assert.Error(t, err)
}

func TestExpiredTokenRejected(t *testing.T) {
	store := NewStore("test-secret", -time.Minute)

	token, err := store.SignToken("session-123")
	assert.NoError(t, err)

	_, err = store.ParseToken(token)
	assert.Error(t, err)
}

package services

import (
	"testing"
	"trustive/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSession_LifeCycle(t *testing.T) {
	f := newFixture(t, nil)
	sessions := NewSessionService(f.kv, f.logger)

	assert.False(t, sessions.Current().LoggedIn)
	_, present, _ := f.kv.GetItem(SessionKey)
	assert.False(t, present)

	u, err := f.accounts.SignUpUser("Sam", "sam@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, sessions.Start(UserSession(u)))

	current := sessions.Current()
	assert.True(t, current.LoggedIn)
	assert.Equal(t, models.RoleUser, current.Role)
	assert.Equal(t, u.ID, current.AccountID())
	assert.Empty(t, current.User.Password)

	require.NoError(t, sessions.End())
	assert.False(t, sessions.Current().LoggedIn)
	_, present, _ = f.kv.GetItem(SessionKey)
	assert.False(t, present)
}

func TestSession_StaleSnapshotIsKept(t *testing.T) {
	f := newFixture(t, nil)
	sessions := NewSessionService(f.kv, f.logger)

	c, err := f.accounts.SignUpCoach("Alex", "alex@example.com", "secret1")
	require.NoError(t, err)
	require.NoError(t, sessions.Start(CoachSession(c)))

	require.NoError(t, f.kv.RemoveItem(CoachAccountsKey))
	current := sessions.Current()
	assert.True(t, current.LoggedIn)
	assert.Equal(t, c.ID, current.AccountID())
}

func TestSession_CorruptSlotIsLoggedOut(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.kv.SetItem(SessionKey, []byte("{")))
	sessions := NewSessionService(f.kv, f.logger)

	assert.False(t, sessions.Current().LoggedIn)
}

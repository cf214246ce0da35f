package token

import (
	"context"
	"testing"
	"time"

	"sistpec-api/internal/adapters/auth/sessions"
	"sistpec-api/internal/ports/auth"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestIssueAndParse(t *testing.T) {
	m := NewManager(testSecret, "")
	exp := time.Now().Add(time.Hour).Truncate(time.Second)

	tok, err := m.Issue(auth.Session{ID: "s-1", UserID: 7, Username: "ana", Rol: "administrador", ExpiresAt: exp})
	require.NoError(t, err)

	c, err := m.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, int64(7), c.UserID)
	assert.Equal(t, "ana", c.Username)
	assert.Equal(t, "administrador", c.Rol)
	assert.Equal(t, "s-1", c.SessionID)
	assert.True(t, exp.Equal(c.ExpiresAt))
}

func TestParse_Rejects(t *testing.T) {
	m := NewManager(testSecret, "")
	exp := time.Now().Add(time.Hour)
	tok, err := m.Issue(auth.Session{ID: "s", UserID: 1, ExpiresAt: exp})
	require.NoError(t, err)

	otherSecret := NewManager("otro-secreto-otro-secreto-otro-sec", "")
	_, err = otherSecret.Parse(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	otherIssuer := NewManager(testSecret, "otro")
	_, err = otherIssuer.Parse(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	late := NewManager(testSecret, "")
	late.now = func() time.Time { return exp.Add(time.Minute) }
	_, err = late.Parse(tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = m.Parse("no.es.jwt")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestIssue_RequiresSession(t *testing.T) {
	m := NewManager(testSecret, "")
	_, err := m.Issue(auth.Session{UserID: 1})
	assert.Error(t, err)
}

func TestVerifier_RequiresLiveSession(t *testing.T) {
	ctx := context.Background()
	m := NewManager(testSecret, "")
	store := sessions.NewMemoryStore()
	v := NewVerifier(m, store)

	s := auth.Session{ID: "abc", UserID: 3, Rol: "recepcionista", ExpiresAt: time.Now().Add(time.Hour)}
	require.NoError(t, store.Create(ctx, s, time.Hour))
	tok, err := m.Issue(s)
	require.NoError(t, err)

	c, err := v.Verify(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, int64(3), c.UserID)

	require.NoError(t, store.Delete(ctx, "abc"))
	_, err = v.Verify(ctx, tok)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = v.Verify(ctx, "  ")
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

package password

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

var testParams = Params{Memory: 1024, Time: 1, Threads: 1, SaltLen: 16, KeyLen: 32}

func TestHashVerify_Argon2id(t *testing.T) {
	h := NewHasher(testParams)

	enc, err := h.Hash("secreto123")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(enc, "$argon2id$v=19$m=1024,t=1,p=1$"))

	other, err := h.Hash("secreto123")
	require.NoError(t, err)
	assert.NotEqual(t, enc, other, "la sal debe variar")

	ok, err := h.Verify(enc, "secreto123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(enc, "otra")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_Bcrypt(t *testing.T) {
	h := NewHasher(testParams)
	legacy, err := bcrypt.GenerateFromPassword([]byte("secreto123"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, err := h.Verify(string(legacy), "secreto123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify(string(legacy), "mala")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVerify_UnknownFormat(t *testing.T) {
	h := NewHasher(testParams)

	for _, enc := range []string{"secreto123", "$argon2id$v=19$roto", "$argon2id$v=18$m=1,t=1,p=1$AA$AA"} {
		ok, err := h.Verify(enc, "secreto123")
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrUnknownFormat, enc)
	}

	h.VerifyDummy("cualquiera")
}

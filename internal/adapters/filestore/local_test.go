package filestore

import (
	"context"
	"io"
	"strings"
	"testing"

	"sistpec-api/internal/ports/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()
	key := "hoja-reporte/7/abc.pdf"

	require.NoError(t, s.Put(ctx, key, "application/pdf", strings.NewReader("%PDF-1.4"), 8))

	rc, ct, err := s.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF-1.4", string(body))
	assert.Equal(t, "application/pdf", ct)

	require.NoError(t, s.Delete(ctx, key))
	_, _, err = s.Get(ctx, key)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// borrar dos veces no falla
	assert.NoError(t, s.Delete(ctx, key))
}

func TestLocalStore_UnknownExtension(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Put(ctx, "hoja-reporte/1/x.zzq", "", strings.NewReader("x"), 1))
	rc, ct, err := s.Get(ctx, "hoja-reporte/1/x.zzq")
	require.NoError(t, err)
	rc.Close()
	assert.Equal(t, defaultContentType, ct)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	s := NewLocalStore(t.TempDir())
	ctx := context.Background()

	for _, key := range []string{"../fuera.txt", "/etc/passwd", "a/../../b", ""} {
		err := s.Put(ctx, key, "text/plain", strings.NewReader("x"), 1)
		assert.ErrorIs(t, err, errInvalidKey, key)
	}
}

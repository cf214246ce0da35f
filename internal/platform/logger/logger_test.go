package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel(" DEBUG "))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
	assert.Equal(t, FormatJSON, ParseFormat("JSON"))
	assert.Equal(t, FormatText, ParseFormat(""))
}

func TestJSONLogger(t *testing.T) {
	var buf bytes.Buffer
	l := New(Options{Level: slog.LevelInfo, Format: FormatJSON, App: "sistpec-api", Output: &buf})

	l.Debug("no sale", nil)
	assert.Zero(t, buf.Len())

	l.With(map[string]any{"request_id": "r-1"}).Warn("caso no creado", map[string]any{"id_upp": 4})

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "caso no creado", entry["msg"])
	assert.Equal(t, "sistpec-api", entry["app"])
	assert.Equal(t, "r-1", entry["request_id"])
	assert.EqualValues(t, 4, entry["id_upp"])
}

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := Nop()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

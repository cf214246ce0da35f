package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/health":
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		case "/db-ping":
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"detail":"Base de datos no disponible"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	c, err := New(ts.URL+"/", 0)
	require.NoError(t, err)
	ctx := context.Background()

	var out struct {
		Status string `json:"status"`
	}
	require.NoError(t, c.DoJSON(ctx, http.MethodGet, "health", "tok", nil, &out))
	assert.Equal(t, "ok", out.Status)

	err = c.DoJSON(ctx, http.MethodGet, "/db-ping", "", nil, nil)
	var se *StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "Base de datos no disponible", se.Detail)
}

func TestResolve(t *testing.T) {
	c, err := New("", 0)
	require.NoError(t, err)

	_, err = c.resolve("/health")
	assert.Error(t, err)
	u, err := c.resolve("http://x/health")
	require.NoError(t, err)
	assert.Equal(t, "http://x/health", u)

	_, err = New("::no", 0)
	assert.Error(t, err)
}

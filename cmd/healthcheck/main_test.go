package main

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sistpec-api/internal/platform/httpclient"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fakeAPI(t *testing.T, dbUp bool) *httpclient.Client {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})
	mux.HandleFunc("/db-ping", func(w http.ResponseWriter, r *http.Request) {
		if !dbUp {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"detail":"Base de datos no disponible"}`))
			return
		}
		w.Write([]byte(`{"db":"ok"}`))
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)

	c, err := httpclient.New(ts.URL, time.Second)
	require.NoError(t, err)
	return c
}

func TestCheckPaths(t *testing.T) {
	assert.Equal(t, []string{"/health", "/db-ping"}, checkPaths(true))
	assert.Equal(t, []string{"/health"}, checkPaths(false))
}

func TestRun_AmbosEndpoints(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, run(context.Background(), fakeAPI(t, true), checkPaths(true), &out))
	assert.Contains(t, out.String(), "/health: map[status:ok]")
	assert.Contains(t, out.String(), "/db-ping: map[db:ok]")
}

func TestRun_BaseDeDatosCaida(t *testing.T) {
	c := fakeAPI(t, false)

	err := run(context.Background(), c, checkPaths(true), &bytes.Buffer{})
	require.Error(t, err)
	var se *httpclient.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusServiceUnavailable, se.StatusCode)
	assert.Equal(t, "Base de datos no disponible", se.Detail)

	assert.NoError(t, run(context.Background(), c, checkPaths(false), &bytes.Buffer{}))
}

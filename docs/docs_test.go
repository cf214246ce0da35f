package docs

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/swaggo/swag"
)

func TestDocRegistrado(t *testing.T) {
	raw, err := swag.ReadDoc(SwaggerInfo.InstanceName())
	require.NoError(t, err)

	var doc struct {
		Info  struct{ Title, Version string }
		Paths map[string]map[string]any
	}
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "SISTPEC API", doc.Info.Title)
	assert.Equal(t, "1.0.0", doc.Info.Version)

	for _, p := range []string{"/health", "/api/casos", "/api/casos/{id}", "/api/auth/login", "/api/hoja-reporte/{id}/archivo"} {
		assert.Contains(t, doc.Paths, p)
	}
	assert.Contains(t, doc.Paths["/api/casos"], "post")
}

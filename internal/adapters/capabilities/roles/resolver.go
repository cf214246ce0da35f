// Package roles resuelve capacidades a partir del rol del usuario.
package roles

import (
	"context"
	"errors"
	"strings"

	"sistpec-api/internal/ports/capabilities"
)

// DefaultGrants: capacidades de escritura por rol.
var DefaultGrants = map[string][]string{
	"administrador":          {capabilities.UsuariosWrite, capabilities.ResultadosWrite},
	"responsableLaboratorio": {capabilities.ResultadosWrite},
}

type Resolver struct {
	grants   map[string]map[string]bool
	allowAll bool
}

// NewResolver crea un resolver con la tabla dada. allowAll=true concede todo
// (modo desarrollo con AUTH_REQUIRED=false).
func NewResolver(grants map[string][]string, allowAll bool) *Resolver {
	r := &Resolver{grants: make(map[string]map[string]bool), allowAll: allowAll}
	for rol, caps := range grants {
		set := make(map[string]bool, len(caps))
		for _, c := range caps {
			set[c] = true
		}
		r.grants[rol] = set
	}
	return r
}

func (r *Resolver) HasFeature(ctx context.Context, in capabilities.CapabilityCheck) (bool, error) {
	capability := strings.TrimSpace(in.Capability)
	if capability == "" {
		return false, errors.New("capability required")
	}
	if r.allowAll {
		return true, nil
	}
	return r.grants[in.Rol][capability], nil
}

var _ capabilities.CapabilitiesResolver = (*Resolver)(nil)

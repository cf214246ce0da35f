package capabilities

import "context"

// Capacidades que exigen las rutas de escritura.
const (
	UsuariosWrite   = "usuarios:write"
	ResultadosWrite = "resultados:write"
)

type CapabilityCheck struct {
	UserID     int64
	Rol        string
	Capability string
}

type CapabilitiesResolver interface {
	HasFeature(ctx context.Context, in CapabilityCheck) (bool, error)
}

package usuarios

import (
	"strings"
	"time"

	"sistpec-api/internal/platform/dates"
)

const (
	ConstraintNombreUsuario = "uq_usuarios_nombre_usuario"
	ConstraintCorreo        = "uq_usuarios_correo"
	ConstraintTipo          = "fk_usuarios_tipo"
)

// Tipos de usuario sembrados en tipos_usuario.
const (
	TipoAdministrador          int64 = 1
	TipoResponsableLaboratorio int64 = 2
	TipoRecepcionista          int64 = 3
	TipoCoordinador            int64 = 4
	TipoMVZAutorizado          int64 = 5
)

var roles = map[int64]string{
	TipoAdministrador:          "administrador",
	TipoResponsableLaboratorio: "responsableLaboratorio",
	TipoRecepcionista:          "recepcionista",
	TipoCoordinador:            "coordinador",
	TipoMVZAutorizado:          "mvzAutorizado",
}

// Rol devuelve el rol de la app para un tipo de usuario ("" si no existe).
func Rol(tipo int64) string {
	return roles[tipo]
}

type Usuario struct {
	ID                 int64
	Nombre             string
	ApellidoPaterno    string
	ApellidoMaterno    *string
	NombreUsuario      string
	Correo             string
	PasswordHash       string
	TipoUsuario        int64
	NombreTipo         string // solo lectura, viene de tipos_usuario
	ClaveDeRumiantes   *string
	VigenciaInicio     *dates.Date
	VigenciaFin        *dates.Date
	Activo             bool
	FechaCreacion      time.Time
	FechaActualizacion *time.Time
}

func (u Usuario) NombreCompleto() string {
	parts := []string{u.Nombre, u.ApellidoPaterno}
	if u.ApellidoMaterno != nil {
		parts = append(parts, *u.ApellidoMaterno)
	}
	return joinNonEmpty(parts)
}

func joinNonEmpty(parts []string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, " ")
}

type ListFilter struct {
	NombreUsuario    string
	Correo           string
	ClaveDeRumiantes string
	TipoUsuario      *int64
	Activo           *bool
	Limit            int
}

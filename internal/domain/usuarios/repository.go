package usuarios

import (
	"context"

	"sistpec-api/internal/ports/storage"
)

const (
	ColNombre             = "nombre"
	ColApellidoPaterno    = "apellido_paterno"
	ColApellidoMaterno    = "apellido_materno"
	ColNombreUsuario      = "nombre_usuario"
	ColCorreo             = "correo"
	ColPasswordHash       = "password_hash"
	ColTipoUsuario        = "tipo_usuario"
	ColClaveDeRumiantes   = "clave_de_rumiantes"
	ColVigenciaInicio     = "vigencia_inicio"
	ColVigenciaFin        = "vigencia_fin"
	ColActivo             = "activo"
	ColFechaActualizacion = "fecha_actualizacion"
)

type Repository interface {
	Create(ctx context.Context, u Usuario) (int64, error)
	GetByID(ctx context.Context, id int64) (Usuario, error)
	GetByNombreUsuario(ctx context.Context, nombreUsuario string) (Usuario, error)
	List(ctx context.Context, f ListFilter) ([]Usuario, error)
	Update(ctx context.Context, id int64, ch storage.Changes) error
	Delete(ctx context.Context, id int64) error
}

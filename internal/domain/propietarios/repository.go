package propietarios

import (
	"context"

	"sistpec-api/internal/ports/storage"
)

// Columnas que acepta Update.
const (
	ColNombre             = "nombre"
	ColCURP               = "curp"
	ColRFC                = "rfc"
	ColTelefono           = "telefono"
	ColEmail              = "email"
	ColEstatus            = "estatus"
	ColFechaActualizacion = "fecha_actualizacion"
)

type Repository interface {
	Create(ctx context.Context, p Propietario) (int64, error)
	GetByID(ctx context.Context, id int64) (Propietario, error)
	GetByCURP(ctx context.Context, curp string) (Propietario, error)
	List(ctx context.Context, f ListFilter) ([]Propietario, error)
	Update(ctx context.Context, id int64, ch storage.Changes) error
	Delete(ctx context.Context, id int64) error
}

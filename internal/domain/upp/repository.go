package upp

import (
	"context"

	"sistpec-api/internal/ports/storage"
)

const (
	ColClave              = "clave_upp"
	ColIDPropietario      = "id_propietario"
	ColIDMunicipio        = "id_municipio"
	ColLocalidad          = "localidad"
	ColDireccion          = "direccion"
	ColTelefonoContacto   = "telefono_contacto"
	ColEstatus            = "estatus"
	ColFechaActualizacion = "fecha_actualizacion"
)

type Repository interface {
	Create(ctx context.Context, u UPP) (int64, error)
	GetByID(ctx context.Context, id int64) (View, error)
	// GetByClave compara sin distinguir mayúsculas.
	GetByClave(ctx context.Context, clave string) (View, error)
	// List ordena por clave ascendente.
	List(ctx context.Context, f ListFilter) ([]View, error)
	Update(ctx context.Context, id int64, ch storage.Changes) error
	Delete(ctx context.Context, id int64) error
}

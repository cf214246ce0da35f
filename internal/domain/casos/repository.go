package casos

import (
	"context"

	"sistpec-api/internal/ports/storage"
)

const (
	ColIDUPP                = "id_upp"
	ColIDMVZ                = "id_mvz"
	ColIDUsuarioRecepciona  = "id_usuario_recepciona"
	ColIDEstatusCaso        = "id_estatus_caso"
	ColFechaRecepcion       = "fecha_recepcion"
	ColSemanaEpidemiologica = "semana_epidemiologica"
	ColAnioEpidemiologico   = "anio_epidemiologico"
	ColObservaciones        = "observaciones"
	ColUpdatedAt            = "updated_at"
)

type Repository interface {
	Create(ctx context.Context, c Caso) (int64, error)
	GetByID(ctx context.Context, id int64) (View, error)
	// List ordena por id descendente.
	List(ctx context.Context, f ListFilter) ([]View, error)
	Update(ctx context.Context, id int64, ch storage.Changes) error
	Delete(ctx context.Context, id int64) error
}

// NumberGenerator entrega el siguiente número de caso (CASO-YYYY-NNNNN).
type NumberGenerator interface {
	NextNumeroCaso(ctx context.Context) (string, error)
}

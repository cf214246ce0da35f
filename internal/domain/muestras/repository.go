package muestras

import (
	"context"

	"sistpec-api/internal/ports/storage"
)

const (
	ColIDCaso           = "id_caso"
	ColIDTipoMuestra    = "id_tipo_muestra"
	ColIDEstatusMuestra = "id_estatus_muestra"
	ColCodigoMuestra    = "codigo_muestra"
	ColNumeroArete      = "numero_arete"
	ColIDEspecie        = "id_especie"
	ColIDRaza           = "id_raza"
	ColEspecie          = "especie"
	ColSexo             = "sexo"
	ColEdad             = "edad"
	ColFechaToma        = "fecha_toma"
	ColObservaciones    = "observaciones"
	ColUpdatedAt        = "updated_at"
)

type Repository interface {
	Create(ctx context.Context, m Muestra) (int64, error)
	GetByID(ctx context.Context, id int64) (View, error)
	List(ctx context.Context, f ListFilter) ([]View, error)
	Update(ctx context.Context, id int64, ch storage.Changes) error
	Delete(ctx context.Context, id int64) error
}

package resultados

import (
	"context"

	"sistpec-api/internal/ports/storage"
)

const (
	ColIDMuestra       = "id_muestra"
	ColIDPrueba        = "id_prueba"
	ColIDResultado     = "id_resultado"
	ColValor           = "valor"
	ColObservaciones   = "observaciones"
	ColFechaResultado  = "fecha_resultado"
	ColIDUsuarioValida = "id_usuario_valida"
	ColUpdatedAt       = "updated_at"
)

type Repository interface {
	Create(ctx context.Context, r Resultado) (int64, error)
	GetByID(ctx context.Context, id int64) (View, error)
	List(ctx context.Context, f ListFilter) ([]View, error)
	Update(ctx context.Context, id int64, ch storage.Changes) error
	Delete(ctx context.Context, id int64) error
}

package hojareporte

import (
	"context"
	"io"

	"sistpec-api/internal/ports/storage"
)

const (
	ColFolio         = "folio"
	ColIDCaso        = "id_caso"
	ColPeriodoInicio = "periodo_inicio"
	ColPeriodoFin    = "periodo_fin"
	ColContenido     = "contenido"
	ColArchivo       = "archivo"
	ColIDUsuario     = "id_usuario"
	ColUpdatedAt     = "updated_at"
)

type Repository interface {
	Create(ctx context.Context, h Hoja) (int64, error)
	GetByID(ctx context.Context, id int64) (View, error)
	List(ctx context.Context, f ListFilter) ([]View, error)
	Update(ctx context.Context, id int64, ch storage.Changes) error
	Delete(ctx context.Context, id int64) error
}

// FileStore guarda los adjuntos de las hojas (S3 o disco local).
type FileStore interface {
	Put(ctx context.Context, key, contentType string, body io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, string, error)
	Delete(ctx context.Context, key string) error
}

package catalogos

import "context"

type Repository interface {
	List(ctx context.Context, c Catalogo) ([]Item, error)
	// FindID devuelve el primer id (menor) cuyo nombre coincide; found=false si no hay.
	FindID(ctx context.Context, c Catalogo, nombre string, m Match) (id int64, found bool, err error)
}

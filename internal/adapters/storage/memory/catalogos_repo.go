package memory

import (
	"context"
	"strings"

	"sistpec-api/internal/domain/catalogos"
)

type catalogosRepo struct {
	s *Store
}

func NewCatalogosRepo(s *Store) catalogos.Repository {
	return &catalogosRepo{s: s}
}

func (r *catalogosRepo) List(ctx context.Context, c catalogos.Catalogo) ([]catalogos.Item, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	items := r.s.catalogos[c]
	out := make([]catalogos.Item, len(items))
	copy(out, items)
	return out, nil
}

func (r *catalogosRepo) FindID(ctx context.Context, c catalogos.Catalogo, nombre string, m catalogos.Match) (int64, bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	nombre = strings.TrimSpace(nombre)
	for _, it := range r.s.catalogos[c] {
		switch m {
		case catalogos.Exact:
			if strings.EqualFold(it.Nombre, nombre) {
				return it.ID, true, nil
			}
		case catalogos.Contains:
			if containsFold(it.Nombre, nombre) {
				return it.ID, true, nil
			}
		}
	}
	return 0, false, nil
}

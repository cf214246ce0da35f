package catalogos

import (
	"context"
	"fmt"
	"strings"

	"sistpec-api/internal/platform/apperr"
)

var ErrNotFound = apperr.NotFound("Catálogo no encontrado")

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, name string) ([]Item, error) {
	c := Catalogo(strings.ToLower(strings.TrimSpace(name)))
	if !c.Valid() {
		return nil, ErrNotFound
	}
	return s.repo.List(ctx, c)
}

// Resolve busca el id de un nombre de catálogo. Si no existe devuelve un error
// de validación con la etiqueta indicada (p.ej. "Tipo de muestra").
func (s *Service) Resolve(ctx context.Context, c Catalogo, nombre string, m Match, etiqueta string) (int64, error) {
	nombre = strings.TrimSpace(nombre)
	if nombre == "" {
		return 0, apperr.Validation(fmt.Sprintf("%s requerido", etiqueta))
	}
	id, found, err := s.repo.FindID(ctx, c, nombre, m)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, apperr.Validation(fmt.Sprintf("%s no reconocido: %s", etiqueta, nombre))
	}
	return id, nil
}

// Default busca un valor por defecto que debe existir en el catálogo sembrado.
// Si falta, es un error de configuración de la base (500).
func (s *Service) Default(ctx context.Context, c Catalogo, nombre string) (int64, error) {
	id, found, err := s.repo.FindID(ctx, c, nombre, Exact)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, fmt.Errorf("catalogos: %s sin valor por defecto %q", c, nombre)
	}
	return id, nil
}

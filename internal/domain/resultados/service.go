package resultados

import (
	"context"
	"errors"
	"strings"
	"time"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/normalize"
	"sistpec-api/internal/ports/storage"
)

var (
	ErrNotFound   = apperr.NotFound("Resultado no encontrado")
	errMuestra    = apperr.NotFound("La muestra especificada no existe")
	errUsuario    = apperr.NotFound("El usuario especificado no existe")
	errPrueba     = apperr.Validation("Prueba no reconocida")
	errResultado  = apperr.Validation("Resultado no reconocido")
	errNoChanges  = apperr.Validation("No hay campos para actualizar")
	errReferenced = apperr.Conflict("No se puede eliminar: el resultado tiene registros relacionados")
)

type Service struct {
	repo Repository
	cat  *catalogos.Service
	now  func() time.Time
}

func NewService(repo Repository, cat *catalogos.Service) *Service {
	return &Service{
		repo: repo,
		cat:  cat,
		now:  time.Now,
	}
}

type CreateInput struct {
	IDMuestra       int64
	IDPrueba        int64
	IDResultado     *int64
	Resultado       *string // nombre en cat_resultado; solo si IDResultado es nil
	Valor           *string
	Observaciones   *string
	FechaResultado  *dates.Date
	IDUsuarioValida *int64
}

type UpdateInput struct {
	IDMuestra       *int64
	IDPrueba        *int64
	IDResultado     *int64
	Resultado       *string
	Valor           *string
	Observaciones   *string
	FechaResultado  *dates.Date
	IDUsuarioValida *int64
}

func (s *Service) resultado(ctx context.Context, id *int64, nombre *string) (*int64, error) {
	if id != nil {
		return id, nil
	}
	if n := normalize.Optional(nombre); n != nil {
		found, err := s.cat.Resolve(ctx, catalogos.Resultados, strings.ToUpper(*n), catalogos.Exact, "Resultado")
		if err != nil {
			return nil, err
		}
		return &found, nil
	}
	return nil, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	switch {
	case in.IDMuestra <= 0:
		return 0, apperr.Validation("El id_muestra es requerido")
	case in.IDPrueba <= 0:
		return 0, apperr.Validation("El id_prueba es requerido")
	case in.FechaResultado == nil:
		return 0, apperr.Validation("La fecha de resultado es requerida")
	}

	cat, err := s.resultado(ctx, in.IDResultado, in.Resultado)
	if err != nil {
		return 0, err
	}

	id, err := s.repo.Create(ctx, Resultado{
		IDMuestra:       in.IDMuestra,
		IDPrueba:        in.IDPrueba,
		IDResultado:     cat,
		Valor:           normalize.Optional(in.Valor),
		Observaciones:   normalize.Optional(in.Observaciones),
		FechaResultado:  *in.FechaResultado,
		IDUsuarioValida: in.IDUsuarioValida,
		CreatedAt:       s.now(),
	})
	if err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return View{}, mapErr(err)
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]View, error) {
	if f.IDResultado != nil {
		f.Resultado = ""
	}
	f.Resultado = strings.ToUpper(strings.TrimSpace(f.Resultado))
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	var ch storage.Changes

	if in.IDMuestra != nil {
		ch.Set(ColIDMuestra, *in.IDMuestra)
	}
	if in.IDPrueba != nil {
		ch.Set(ColIDPrueba, *in.IDPrueba)
	}
	cat, err := s.resultado(ctx, in.IDResultado, in.Resultado)
	if err != nil {
		return err
	}
	if cat != nil {
		ch.Set(ColIDResultado, *cat)
	}
	if v, sent := normalize.Cleared(in.Valor); sent {
		ch.Set(ColValor, v)
	}
	if v, sent := normalize.Cleared(in.Observaciones); sent {
		ch.Set(ColObservaciones, v)
	}
	if in.FechaResultado != nil {
		ch.Set(ColFechaResultado, *in.FechaResultado)
	}
	if in.IDUsuarioValida != nil {
		ch.Set(ColIDUsuarioValida, *in.IDUsuarioValida)
	}

	if ch.Len() == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return errNoChanges
	}
	ch.Set(ColUpdatedAt, s.now())

	return mapErr(s.repo.Update(ctx, id, ch))
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, storage.ErrReference) {
		return errReferenced
	}
	return mapErr(err)
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrReference):
		switch c, _ := storage.Constraint(err); c {
		case ConstraintMuestra:
			return errMuestra
		case ConstraintUsuario:
			return errUsuario
		case ConstraintPrueba:
			return errPrueba
		case ConstraintResultado:
			return errResultado
		}
	}
	return err
}

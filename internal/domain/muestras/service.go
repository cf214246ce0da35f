package muestras

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
	ErrNotFound     = apperr.NotFound("Muestra no encontrada")
	errCaso         = apperr.NotFound("El caso especificado no existe")
	errReferenced   = apperr.Conflict("No se puede eliminar: la muestra tiene registros relacionados")
	errNoChanges    = apperr.Validation("No hay campos para actualizar")
	errCodigo       = apperr.Validation("El código de muestra es requerido")
	errCasoRequired = apperr.Validation("El id_caso es requerido")
)

var catalogErrors = map[string]error{
	ConstraintTipo:    apperr.Validation("Tipo de muestra no reconocido"),
	ConstraintEstatus: apperr.Validation("Estatus de muestra no reconocido"),
	ConstraintEspecie: apperr.Validation("Especie no reconocida"),
	ConstraintRaza:    apperr.Validation("Raza no reconocida"),
}

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
	IDCaso           int64
	CodigoMuestra    string
	NumeroArete      *string
	IDTipoMuestra    *int64
	TipoMuestra      *string // descripción; se busca por subcadena si no viene el id
	IDEstatusMuestra *int64
	IDEspecie        *int64
	IDRaza           *int64
	Especie          *string
	Sexo             *string
	Edad             *string
	FechaToma        *dates.Date
	Observaciones    *string
}

type UpdateInput struct {
	IDCaso           *int64
	CodigoMuestra    *string
	NumeroArete      *string
	IDTipoMuestra    *int64
	TipoMuestra      *string
	IDEstatusMuestra *int64
	IDEspecie        *int64
	IDRaza           *int64
	Especie          *string
	Sexo             *string
	Edad             *string
	FechaToma        *dates.Date
	Observaciones    *string
}

func (s *Service) tipoMuestra(ctx context.Context, id *int64, desc *string) (*int64, error) {
	if id != nil {
		return id, nil
	}
	if d := normalize.Optional(desc); d != nil {
		found, err := s.cat.Resolve(ctx, catalogos.TiposMuestra, *d, catalogos.Contains, "Tipo de muestra")
		if err != nil {
			return nil, err
		}
		return &found, nil
	}
	return nil, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	if in.IDCaso <= 0 {
		return 0, errCasoRequired
	}
	codigo := strings.TrimSpace(in.CodigoMuestra)
	if codigo == "" {
		return 0, errCodigo
	}

	tipo, err := s.tipoMuestra(ctx, in.IDTipoMuestra, in.TipoMuestra)
	if err != nil {
		return 0, err
	}

	m := Muestra{
		IDCaso:        in.IDCaso,
		IDTipoMuestra: tipo,
		CodigoMuestra: codigo,
		NumeroArete:   normalize.Optional(in.NumeroArete),
		IDEspecie:     in.IDEspecie,
		IDRaza:        in.IDRaza,
		Especie:       normalize.Optional(in.Especie),
		Sexo:          normalize.Optional(in.Sexo),
		Edad:          normalize.Optional(in.Edad),
		FechaToma:     in.FechaToma,
		Observaciones: normalize.Optional(in.Observaciones),
		CreatedAt:     s.now(),
	}
	if in.IDEstatusMuestra != nil {
		m.IDEstatusMuestra = *in.IDEstatusMuestra
	} else {
		m.IDEstatusMuestra, err = s.cat.Default(ctx, catalogos.EstatusMuestra, catalogos.EstatusMuestraPendiente)
		if err != nil {
			return 0, err
		}
	}

	id, err := s.repo.Create(ctx, m)
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
	if f.IDEstatusMuestra != nil {
		f.Estatus = ""
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	var ch storage.Changes

	if in.IDCaso != nil {
		if *in.IDCaso <= 0 {
			return errCasoRequired
		}
		ch.Set(ColIDCaso, *in.IDCaso)
	}
	if in.CodigoMuestra != nil {
		v := strings.TrimSpace(*in.CodigoMuestra)
		if v == "" {
			return errCodigo
		}
		ch.Set(ColCodigoMuestra, v)
	}
	if v, sent := normalize.Cleared(in.NumeroArete); sent {
		ch.Set(ColNumeroArete, v)
	}
	tipo, err := s.tipoMuestra(ctx, in.IDTipoMuestra, in.TipoMuestra)
	if err != nil {
		return err
	}
	if tipo != nil {
		ch.Set(ColIDTipoMuestra, *tipo)
	}
	if in.IDEstatusMuestra != nil {
		ch.Set(ColIDEstatusMuestra, *in.IDEstatusMuestra)
	}
	if in.IDEspecie != nil {
		ch.Set(ColIDEspecie, *in.IDEspecie)
	}
	if in.IDRaza != nil {
		ch.Set(ColIDRaza, *in.IDRaza)
	}
	if v, sent := normalize.Cleared(in.Especie); sent {
		ch.Set(ColEspecie, v)
	}
	if v, sent := normalize.Cleared(in.Sexo); sent {
		ch.Set(ColSexo, v)
	}
	if v, sent := normalize.Cleared(in.Edad); sent {
		ch.Set(ColEdad, v)
	}
	if in.FechaToma != nil {
		ch.Set(ColFechaToma, *in.FechaToma)
	}
	if v, sent := normalize.Cleared(in.Observaciones); sent {
		ch.Set(ColObservaciones, v)
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
		c, _ := storage.Constraint(err)
		if c == ConstraintCaso {
			return errCaso
		}
		if e, ok := catalogErrors[c]; ok {
			return e
		}
	}
	return err
}

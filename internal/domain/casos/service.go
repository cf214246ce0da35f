package casos

import (
	"context"
	"errors"
	"strings"
	"time"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/metrics"
	"sistpec-api/internal/platform/normalize"
	"sistpec-api/internal/ports/storage"
)

var (
	ErrNotFound      = apperr.NotFound("Caso no encontrado")
	errUPPNotFound   = apperr.NotFound("La UPP especificada no existe")
	errUserNotFound  = apperr.NotFound("El usuario especificado no existe")
	errEstatus       = apperr.Validation("Estatus de caso no reconocido")
	errReferenced    = apperr.Conflict("No se puede eliminar: el caso tiene registros relacionados")
	errNoChanges     = apperr.Validation("No hay campos para actualizar")
	errUPPRequerida  = apperr.Validation("El id_upp es requerido")
	errCreaRequerido = apperr.Validation("El id_usuario_crea es requerido")
	errFecha         = apperr.Validation("La fecha de recepción es requerida")
)

type Service struct {
	repo    Repository
	numbers NumberGenerator
	tx      storage.TxRunner
	cat     *catalogos.Service
	now     func() time.Time
}

func NewService(repo Repository, numbers NumberGenerator, tx storage.TxRunner, cat *catalogos.Service) *Service {
	return &Service{
		repo:    repo,
		numbers: numbers,
		tx:      tx,
		cat:     cat,
		now:     time.Now,
	}
}

type CreateInput struct {
	IDUPP                int64
	IDMVZ                *int64
	IDUsuarioRecepciona  *int64
	IDEstatusCaso        *int64
	FechaRecepcion       *dates.Date
	SemanaEpidemiologica *int
	AnioEpidemiologico   *int
	Observaciones        *string
	IDUsuarioCrea        int64
}

// Created resume el caso recién creado.
type Created struct {
	ID            int64
	NumeroCaso    string
	IDEstatusCaso int64
	Estatus       string
}

// UpdateInput: nil = no tocar. Estatus (nombre) solo se usa si IDEstatusCaso es nil.
type UpdateInput struct {
	IDUPP                *int64
	IDMVZ                *int64
	IDUsuarioRecepciona  *int64
	IDEstatusCaso        *int64
	Estatus              *string
	FechaRecepcion       *dates.Date
	SemanaEpidemiologica *int
	AnioEpidemiologico   *int
	Observaciones        *string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Created, error) {
	switch {
	case in.IDUPP <= 0:
		return Created{}, errUPPRequerida
	case in.IDUsuarioCrea <= 0:
		return Created{}, errCreaRequerido
	case in.FechaRecepcion == nil:
		return Created{}, errFecha
	}

	c := Caso{
		IDUPP:                in.IDUPP,
		IDMVZ:                in.IDMVZ,
		IDUsuarioRecepciona:  in.IDUsuarioRecepciona,
		FechaRecepcion:       *in.FechaRecepcion,
		SemanaEpidemiologica: in.SemanaEpidemiologica,
		AnioEpidemiologico:   in.AnioEpidemiologico,
		Observaciones:        normalize.Optional(in.Observaciones),
		CreatedAt:            s.now(),
	}
	if c.IDUsuarioRecepciona == nil {
		crea := in.IDUsuarioCrea
		c.IDUsuarioRecepciona = &crea
	}

	week, year := EpiWeek(c.FechaRecepcion)
	if c.SemanaEpidemiologica == nil {
		c.SemanaEpidemiologica = &week
	}
	if c.AnioEpidemiologico == nil {
		c.AnioEpidemiologico = &year
	}

	var out Created
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		if in.IDEstatusCaso != nil {
			c.IDEstatusCaso = *in.IDEstatusCaso
		} else {
			id, err := s.cat.Default(ctx, catalogos.EstatusCaso, catalogos.EstatusCasoAbierto)
			if err != nil {
				return err
			}
			c.IDEstatusCaso = id
		}

		numero, err := s.numbers.NextNumeroCaso(ctx)
		if err != nil {
			return err
		}
		c.NumeroCaso = numero

		id, err := s.repo.Create(ctx, c)
		if err != nil {
			return err
		}
		v, err := s.repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		out = Created{
			ID:            id,
			NumeroCaso:    v.NumeroCaso,
			IDEstatusCaso: v.IDEstatusCaso,
			Estatus:       v.EstatusCaso,
		}
		return nil
	})
	if err != nil {
		return Created{}, mapErr(err)
	}

	metrics.IncCasoCreado()
	return out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return View{}, mapErr(err)
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]View, error) {
	if f.IDEstatusCaso != nil {
		f.Estatus = ""
	}
	f.Estatus = strings.ToUpper(strings.TrimSpace(f.Estatus))
	if f.IDMVZ != nil {
		f.MVZ = ""
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	var ch storage.Changes

	if in.IDUPP != nil {
		if *in.IDUPP <= 0 {
			return errUPPRequerida
		}
		ch.Set(ColIDUPP, *in.IDUPP)
	}
	if in.IDMVZ != nil {
		ch.Set(ColIDMVZ, *in.IDMVZ)
	}
	if in.IDUsuarioRecepciona != nil {
		ch.Set(ColIDUsuarioRecepciona, *in.IDUsuarioRecepciona)
	}
	switch {
	case in.IDEstatusCaso != nil:
		ch.Set(ColIDEstatusCaso, *in.IDEstatusCaso)
	case in.Estatus != nil:
		est, err := s.cat.Resolve(ctx, catalogos.EstatusCaso, strings.ToUpper(*in.Estatus), catalogos.Exact, "Estatus de caso")
		if err != nil {
			return err
		}
		ch.Set(ColIDEstatusCaso, est)
	}
	if in.FechaRecepcion != nil {
		ch.Set(ColFechaRecepcion, *in.FechaRecepcion)
	}
	if in.SemanaEpidemiologica != nil {
		ch.Set(ColSemanaEpidemiologica, *in.SemanaEpidemiologica)
	}
	if in.AnioEpidemiologico != nil {
		ch.Set(ColAnioEpidemiologico, *in.AnioEpidemiologico)
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
		switch c, _ := storage.Constraint(err); c {
		case ConstraintUPP:
			return errUPPNotFound
		case ConstraintMVZ, ConstraintRecepciona:
			return errUserNotFound
		case ConstraintEstatus:
			return errEstatus
		}
	}
	return err
}

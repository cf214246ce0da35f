package upp

import (
	"context"
	"errors"
	"strings"
	"time"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/normalize"
	"sistpec-api/internal/ports/storage"
)

var (
	ErrNotFound       = apperr.NotFound("UPP no encontrada")
	errClaveNotFound  = apperr.NotFound("UPP no encontrada.")
	errDuplicate      = apperr.Conflict("Ya existe una UPP con esa clave")
	errDuplicateOther = apperr.Conflict("Ya existe otra UPP con esa clave")
	errPropietario    = apperr.NotFound("El propietario especificado no existe")
	errMunicipio      = apperr.NotFound("El municipio especificado no existe")
	errReferenced     = apperr.Conflict("No se puede eliminar: la UPP tiene registros relacionados")
	errNoChanges      = apperr.Validation("No hay campos para actualizar")
	errClaveRequerida = apperr.Validation("La clave UPP es requerida")
	errPropietarioReq = apperr.Validation("El propietario es requerido")
	errClaveBusqueda  = apperr.Validation("Clave requerida")
)

// Límites del listado (la UI lo usa como buscador).
const (
	DefaultLimit = 15
	MaxLimit     = 50
)

type Service struct {
	repo      Repository
	catalogos *catalogos.Service
	now       func() time.Time
}

func NewService(repo Repository, cat *catalogos.Service) *Service {
	return &Service{
		repo:      repo,
		catalogos: cat,
		now:       time.Now,
	}
}

type CreateInput struct {
	Clave            string
	IDPropietario    int64
	IDMunicipio      *int64
	Municipio        *string // nombre, se busca si no viene IDMunicipio
	Localidad        *string
	Direccion        *string
	TelefonoContacto *string
	Estatus          *bool
}

type UpdateInput struct {
	Clave            *string
	IDPropietario    *int64
	IDMunicipio      *int64
	Municipio        *string
	Localidad        *string
	Direccion        *string
	TelefonoContacto *string
	Estatus          *bool
}

func (s *Service) municipio(ctx context.Context, id *int64, nombre *string) (*int64, error) {
	if id != nil {
		return id, nil
	}
	n := normalize.Optional(nombre)
	if n == nil {
		return nil, nil
	}
	found, err := s.catalogos.Resolve(ctx, catalogos.Municipios, *n, catalogos.Contains, "Municipio")
	if err != nil {
		return nil, err
	}
	return &found, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	clave := strings.ToUpper(strings.TrimSpace(in.Clave))
	if clave == "" {
		return 0, errClaveRequerida
	}
	if in.IDPropietario <= 0 {
		return 0, errPropietarioReq
	}
	idMunicipio, err := s.municipio(ctx, in.IDMunicipio, in.Municipio)
	if err != nil {
		return 0, err
	}

	u := UPP{
		Clave:            clave,
		IDPropietario:    in.IDPropietario,
		IDMunicipio:      idMunicipio,
		Localidad:        normalize.Optional(in.Localidad),
		Direccion:        normalize.Optional(in.Direccion),
		TelefonoContacto: normalize.Optional(in.TelefonoContacto),
		Estatus:          in.Estatus == nil || *in.Estatus,
		FechaRegistro:    s.now(),
	}

	id, err := s.repo.Create(ctx, u)
	if err != nil {
		return 0, mapErr(err, errDuplicate)
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (View, error) {
	v, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return View{}, mapErr(err, nil)
	}
	return v, nil
}

func (s *Service) GetByClave(ctx context.Context, clave string) (View, error) {
	clave = strings.TrimSpace(clave)
	if clave == "" {
		return View{}, errClaveBusqueda
	}
	v, err := s.repo.GetByClave(ctx, clave)
	if errors.Is(err, storage.ErrNotFound) {
		return View{}, errClaveNotFound
	}
	if err != nil {
		return View{}, err
	}
	return v, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]View, error) {
	f.Search = strings.TrimSpace(f.Search)
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	var ch storage.Changes

	if in.Clave != nil {
		clave := strings.ToUpper(strings.TrimSpace(*in.Clave))
		if clave == "" {
			return errClaveRequerida
		}
		ch.Set(ColClave, clave)
	}
	if in.IDPropietario != nil {
		ch.Set(ColIDPropietario, *in.IDPropietario)
	}
	idMunicipio, err := s.municipio(ctx, in.IDMunicipio, in.Municipio)
	if err != nil {
		return err
	}
	if idMunicipio != nil {
		ch.Set(ColIDMunicipio, *idMunicipio)
	}
	if v, sent := normalize.Cleared(in.Localidad); sent {
		ch.Set(ColLocalidad, v)
	}
	if v, sent := normalize.Cleared(in.Direccion); sent {
		ch.Set(ColDireccion, v)
	}
	if v, sent := normalize.Cleared(in.TelefonoContacto); sent {
		ch.Set(ColTelefonoContacto, v)
	}
	if in.Estatus != nil {
		ch.Set(ColEstatus, *in.Estatus)
	}

	if ch.Len() == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return errNoChanges
	}
	ch.Set(ColFechaActualizacion, s.now())

	return mapErr(s.repo.Update(ctx, id, ch), errDuplicateOther)
}

// SetEstatus da de baja (false) o reactiva (true) la UPP.
func (s *Service) SetEstatus(ctx context.Context, id int64, activa bool) error {
	var ch storage.Changes
	ch.Set(ColEstatus, activa)
	ch.Set(ColFechaActualizacion, s.now())
	return mapErr(s.repo.Update(ctx, id, ch), nil)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, storage.ErrReference) {
		return errReferenced
	}
	return mapErr(err, nil)
}

func mapErr(err, duplicate error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	c, _ := storage.Constraint(err)
	switch {
	case errors.Is(err, storage.ErrDuplicate) && c == ConstraintClave && duplicate != nil:
		return duplicate
	case errors.Is(err, storage.ErrReference) && c == ConstraintPropietario:
		return errPropietario
	case errors.Is(err, storage.ErrReference) && c == ConstraintMunicipio:
		return errMunicipio
	}
	return err
}

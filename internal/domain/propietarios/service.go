package propietarios

import (
	"context"
	"errors"
	"strings"
	"time"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/normalize"
	"sistpec-api/internal/ports/storage"
)

var (
	ErrNotFound       = apperr.NotFound("Propietario no encontrado")
	errDuplicate      = apperr.Conflict("Ya existe un propietario con ese CURP")
	errDuplicateOther = apperr.Conflict("Ya existe otro propietario con ese CURP")
	errReferenced     = apperr.Conflict("No se puede eliminar: el propietario tiene registros relacionados")
	errNoChanges      = apperr.Validation("No hay campos para actualizar")
	errEstatus        = apperr.Validation("Estatus inválido: debe ser ACTIVO o FINADO")
	errApellidos      = apperr.Validation("Los apellidos se actualizan junto con el nombre")
)

type Service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo: repo,
		now:  time.Now,
	}
}

type CreateInput struct {
	Nombre          string
	ApellidoPaterno *string
	ApellidoMaterno *string
	CURP            *string
	RFC             *string
	Telefono        *string
	Email           *string
	Estatus         *string
	Activo          *bool
}

// UpdateInput: nil = no tocar; "" en los textos opcionales los limpia.
type UpdateInput struct {
	Nombre          *string
	ApellidoPaterno *string
	ApellidoMaterno *string
	CURP            *string
	RFC             *string
	Telefono        *string
	Email           *string
	Estatus         *string
	Activo          *bool
}

// resolveEstatus acepta estatus explícito o, si no viene, el booleano activo.
func resolveEstatus(estatus *string, activo *bool) (string, bool, error) {
	if estatus != nil && strings.TrimSpace(*estatus) != "" {
		v := strings.ToUpper(strings.TrimSpace(*estatus))
		if v != EstatusActivo && v != EstatusFinado {
			return "", false, errEstatus
		}
		return v, true, nil
	}
	if activo != nil {
		if *activo {
			return EstatusActivo, true, nil
		}
		return EstatusFinado, true, nil
	}
	return "", false, nil
}

func fullName(nombre string, paterno, materno *string) string {
	return normalize.Join(nombre, normalize.Deref(paterno), normalize.Deref(materno))
}

func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	nombre := fullName(in.Nombre, in.ApellidoPaterno, in.ApellidoMaterno)
	if strings.TrimSpace(in.Nombre) == "" {
		return 0, apperr.Validation("El nombre es requerido")
	}

	estatus, ok, err := resolveEstatus(in.Estatus, in.Activo)
	if err != nil {
		return 0, err
	}
	if !ok {
		estatus = EstatusActivo
	}

	p := Propietario{
		Nombre:        nombre,
		CURP:          normalize.OptionalUpper(in.CURP),
		RFC:           normalize.OptionalUpper(in.RFC),
		Telefono:      normalize.Optional(in.Telefono),
		Email:         normalize.Optional(in.Email),
		Estatus:       estatus,
		FechaRegistro: s.now(),
	}

	id, err := s.repo.Create(ctx, p)
	if err != nil {
		return 0, mapErr(err, errDuplicate)
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Propietario, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Propietario{}, mapErr(err, nil)
	}
	return p, nil
}

func (s *Service) GetByCURP(ctx context.Context, curp string) (Propietario, error) {
	curp = strings.ToUpper(strings.TrimSpace(curp))
	if curp == "" {
		return Propietario{}, apperr.Validation("CURP requerida")
	}
	p, err := s.repo.GetByCURP(ctx, curp)
	if err != nil {
		return Propietario{}, mapErr(err, nil)
	}
	return p, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Propietario, error) {
	f.CURP = strings.ToUpper(strings.TrimSpace(f.CURP))
	if f.Estatus != "" {
		f.Estatus = strings.ToUpper(strings.TrimSpace(f.Estatus))
	}
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	var ch storage.Changes

	// el nombre se guarda completo: sin nombre no hay dónde poner los apellidos
	if in.Nombre == nil && (in.ApellidoPaterno != nil || in.ApellidoMaterno != nil) {
		return errApellidos
	}
	if in.Nombre != nil {
		if strings.TrimSpace(*in.Nombre) == "" {
			return apperr.Validation("El nombre no puede estar vacío")
		}
		ch.Set(ColNombre, fullName(*in.Nombre, in.ApellidoPaterno, in.ApellidoMaterno))
	}
	if v, sent := normalize.Cleared(in.CURP); sent {
		ch.Set(ColCURP, normalize.OptionalUpper(v))
	}
	if v, sent := normalize.Cleared(in.RFC); sent {
		ch.Set(ColRFC, normalize.OptionalUpper(v))
	}
	if v, sent := normalize.Cleared(in.Telefono); sent {
		ch.Set(ColTelefono, v)
	}
	if v, sent := normalize.Cleared(in.Email); sent {
		ch.Set(ColEmail, v)
	}
	estatus, ok, err := resolveEstatus(in.Estatus, in.Activo)
	if err != nil {
		return err
	}
	if ok {
		ch.Set(ColEstatus, estatus)
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

// SetActivo marca al propietario como ACTIVO o FINADO.
func (s *Service) SetActivo(ctx context.Context, id int64, activo bool) error {
	var ch storage.Changes
	if activo {
		ch.Set(ColEstatus, EstatusActivo)
	} else {
		ch.Set(ColEstatus, EstatusFinado)
	}
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
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrDuplicate) && duplicate != nil:
		if c, _ := storage.Constraint(err); c == ConstraintCURP {
			return duplicate
		}
	}
	return err
}

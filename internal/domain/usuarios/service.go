package usuarios

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/normalize"
	"sistpec-api/internal/ports/storage"
)

const MinPasswordLen = 8

var (
	ErrNotFound      = apperr.NotFound("Usuario no encontrado")
	errDupUsuario    = apperr.Conflict("El nombre de usuario ya existe")
	errDupCorreo     = apperr.Conflict("El correo electrónico ya está registrado")
	errTipo          = apperr.Validation("Tipo de usuario inválido")
	errReferenced    = apperr.Conflict("No se puede eliminar: el usuario tiene registros relacionados")
	errNoChanges     = apperr.Validation("No hay campos para actualizar")
	errVigencia      = apperr.Validation("La vigencia final no puede ser anterior a la inicial")
	errCorreo        = apperr.Validation("Correo electrónico inválido")
	errPasswordCorta = apperr.Validation("La contraseña debe tener al menos 8 caracteres")
)

// Hasher genera el hash que se guarda en password_hash.
type Hasher interface {
	Hash(plain string) (string, error)
}

// SessionRevoker cierra las sesiones abiertas de un usuario.
type SessionRevoker interface {
	DeleteUser(ctx context.Context, userID int64) error
}

type Service struct {
	repo     Repository
	hasher   Hasher
	sessions SessionRevoker
	now      func() time.Time
}

func NewService(repo Repository, hasher Hasher) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		now:    time.Now,
	}
}

// WithSessions hace que desactivar, borrar o cambiar la contraseña de un
// usuario cierre sus sesiones abiertas.
func (s *Service) WithSessions(r SessionRevoker) *Service {
	s.sessions = r
	return s
}

func (s *Service) revokeSessions(ctx context.Context, id int64) error {
	if s.sessions == nil {
		return nil
	}
	if err := s.sessions.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("usuarios: cerrar sesiones de %d: %w", id, err)
	}
	return nil
}

type CreateInput struct {
	Nombre           string
	ApellidoPaterno  string
	ApellidoMaterno  *string
	NombreUsuario    string
	Correo           string
	Password         string
	TipoUsuario      int64
	ClaveDeRumiantes *string
	VigenciaInicio   *dates.Date
	VigenciaFin      *dates.Date
	Activo           *bool
}

// UpdateInput: nil = no tocar. Password se vuelve a hashear.
type UpdateInput struct {
	Nombre           *string
	ApellidoPaterno  *string
	ApellidoMaterno  *string
	NombreUsuario    *string
	Correo           *string
	Password         *string
	TipoUsuario      *int64
	ClaveDeRumiantes *string
	VigenciaInicio   *dates.Date
	VigenciaFin      *dates.Date
	Activo           *bool
}

func validCorreo(v string) bool {
	a, err := mail.ParseAddress(v)
	return err == nil && a.Address == v
}

func validTipo(t int64) bool {
	return Rol(t) != ""
}

func checkVigencia(inicio, fin *dates.Date) error {
	if inicio != nil && fin != nil && fin.Before(*inicio) {
		return errVigencia
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (int64, error) {
	u := Usuario{
		Nombre:           strings.TrimSpace(in.Nombre),
		ApellidoPaterno:  strings.TrimSpace(in.ApellidoPaterno),
		ApellidoMaterno:  normalize.Optional(in.ApellidoMaterno),
		NombreUsuario:    strings.TrimSpace(in.NombreUsuario),
		Correo:           strings.ToLower(strings.TrimSpace(in.Correo)),
		TipoUsuario:      in.TipoUsuario,
		ClaveDeRumiantes: normalize.Optional(in.ClaveDeRumiantes),
		VigenciaInicio:   in.VigenciaInicio,
		VigenciaFin:      in.VigenciaFin,
		Activo:           true,
		FechaCreacion:    s.now(),
	}
	if in.Activo != nil {
		u.Activo = *in.Activo
	}

	switch {
	case u.Nombre == "":
		return 0, apperr.Validation("El nombre es requerido")
	case u.ApellidoPaterno == "":
		return 0, apperr.Validation("El apellido paterno es requerido")
	case u.NombreUsuario == "":
		return 0, apperr.Validation("El nombre de usuario es requerido")
	case u.Correo == "":
		return 0, apperr.Validation("El correo electrónico es requerido")
	case !validCorreo(u.Correo):
		return 0, errCorreo
	case len(in.Password) < MinPasswordLen:
		return 0, errPasswordCorta
	case !validTipo(u.TipoUsuario):
		return 0, errTipo
	}
	if err := checkVigencia(u.VigenciaInicio, u.VigenciaFin); err != nil {
		return 0, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return 0, err
	}
	u.PasswordHash = hash

	id, err := s.repo.Create(ctx, u)
	if err != nil {
		return 0, mapErr(err)
	}
	return id, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Usuario, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return Usuario{}, mapErr(err)
	}
	return u, nil
}

func (s *Service) List(ctx context.Context, f ListFilter) ([]Usuario, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	var ch storage.Changes

	if in.Nombre != nil {
		v := strings.TrimSpace(*in.Nombre)
		if v == "" {
			return apperr.Validation("El nombre no puede estar vacío")
		}
		ch.Set(ColNombre, v)
	}
	if in.ApellidoPaterno != nil {
		v := strings.TrimSpace(*in.ApellidoPaterno)
		if v == "" {
			return apperr.Validation("El apellido paterno no puede estar vacío")
		}
		ch.Set(ColApellidoPaterno, v)
	}
	if v, sent := normalize.Cleared(in.ApellidoMaterno); sent {
		ch.Set(ColApellidoMaterno, v)
	}
	if in.NombreUsuario != nil {
		v := strings.TrimSpace(*in.NombreUsuario)
		if v == "" {
			return apperr.Validation("El nombre de usuario no puede estar vacío")
		}
		ch.Set(ColNombreUsuario, v)
	}
	if in.Correo != nil {
		v := strings.ToLower(strings.TrimSpace(*in.Correo))
		if !validCorreo(v) {
			return errCorreo
		}
		ch.Set(ColCorreo, v)
	}
	if in.TipoUsuario != nil {
		if !validTipo(*in.TipoUsuario) {
			return errTipo
		}
		ch.Set(ColTipoUsuario, *in.TipoUsuario)
	}
	if v, sent := normalize.Cleared(in.ClaveDeRumiantes); sent {
		ch.Set(ColClaveDeRumiantes, v)
	}
	if in.VigenciaInicio != nil || in.VigenciaFin != nil {
		cur, err := s.Get(ctx, id)
		if err != nil {
			return err
		}
		inicio, fin := cur.VigenciaInicio, cur.VigenciaFin
		if in.VigenciaInicio != nil {
			inicio = in.VigenciaInicio
			ch.Set(ColVigenciaInicio, *in.VigenciaInicio)
		}
		if in.VigenciaFin != nil {
			fin = in.VigenciaFin
			ch.Set(ColVigenciaFin, *in.VigenciaFin)
		}
		if err := checkVigencia(inicio, fin); err != nil {
			return err
		}
	}
	if in.Activo != nil {
		ch.Set(ColActivo, *in.Activo)
	}
	if in.Password != nil {
		if len(*in.Password) < MinPasswordLen {
			return errPasswordCorta
		}
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return err
		}
		ch.Set(ColPasswordHash, hash)
	}

	if ch.Len() == 0 {
		if _, err := s.Get(ctx, id); err != nil {
			return err
		}
		return errNoChanges
	}
	ch.Set(ColFechaActualizacion, s.now())

	if err := mapErr(s.repo.Update(ctx, id, ch)); err != nil {
		return err
	}
	if in.Password != nil || (in.Activo != nil && !*in.Activo) {
		return s.revokeSessions(ctx, id)
	}
	return nil
}

func (s *Service) SetActivo(ctx context.Context, id int64, activo bool) error {
	var ch storage.Changes
	ch.Set(ColActivo, activo)
	ch.Set(ColFechaActualizacion, s.now())
	if err := mapErr(s.repo.Update(ctx, id, ch)); err != nil {
		return err
	}
	if !activo {
		return s.revokeSessions(ctx, id)
	}
	return nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.repo.Delete(ctx, id)
	if errors.Is(err, storage.ErrReference) {
		return errReferenced
	}
	if err := mapErr(err); err != nil {
		return err
	}
	return s.revokeSessions(ctx, id)
}

func mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, storage.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, storage.ErrDuplicate):
		switch c, _ := storage.Constraint(err); c {
		case ConstraintNombreUsuario:
			return errDupUsuario
		case ConstraintCorreo:
			return errDupCorreo
		}
	case errors.Is(err, storage.ErrReference):
		if c, _ := storage.Constraint(err); c == ConstraintTipo {
			return errTipo
		}
	}
	return err
}

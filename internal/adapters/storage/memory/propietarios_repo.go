package memory

import (
	"context"
	"strings"

	"sistpec-api/internal/domain/propietarios"
	"sistpec-api/internal/domain/upp"
	"sistpec-api/internal/ports/storage"
)

type propietariosRepo struct {
	s *Store
}

func NewPropietariosRepo(s *Store) propietarios.Repository {
	return &propietariosRepo{s: s}
}

// curpTaken reporta si otra fila (distinta de exceptID) ya usa la CURP.
func (r *propietariosRepo) curpTaken(curp *string, exceptID int64) bool {
	if curp == nil {
		return false
	}
	for id, p := range r.s.propietarios {
		if id != exceptID && p.CURP != nil && *p.CURP == *curp {
			return true
		}
	}
	return false
}

func (r *propietariosRepo) Create(ctx context.Context, p propietarios.Propietario) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.curpTaken(p.CURP, 0) {
		return 0, storage.Duplicate(propietarios.ConstraintCURP)
	}
	p.ID = r.s.nextID("propietarios")
	r.s.propietarios[p.ID] = p
	return p.ID, nil
}

func (r *propietariosRepo) GetByID(ctx context.Context, id int64) (propietarios.Propietario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	p, ok := r.s.propietarios[id]
	if !ok {
		return propietarios.Propietario{}, storage.ErrNotFound
	}
	return p, nil
}

func (r *propietariosRepo) GetByCURP(ctx context.Context, curp string) (propietarios.Propietario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, p := range r.s.propietarios {
		if p.CURP != nil && strings.EqualFold(*p.CURP, curp) {
			return p, nil
		}
	}
	return propietarios.Propietario{}, storage.ErrNotFound
}

func (r *propietariosRepo) List(ctx context.Context, f propietarios.ListFilter) ([]propietarios.Propietario, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]propietarios.Propietario, 0)
	for _, p := range r.s.propietarios {
		if f.CURP != "" && !ptrContainsFold(p.CURP, f.CURP) {
			continue
		}
		if f.Nombre != "" && !containsFold(p.Nombre, f.Nombre) {
			continue
		}
		if f.Estatus != "" && !strings.EqualFold(p.Estatus, f.Estatus) {
			continue
		}
		if f.UPP != "" && !r.hasUPP(p.ID, f.UPP) {
			continue
		}
		out = append(out, p)
	}
	sortDesc(out, func(p propietarios.Propietario) int64 { return p.ID })
	return limit(out, f.Limit), nil
}

func (r *propietariosRepo) hasUPP(idPropietario int64, clave string) bool {
	for _, u := range r.s.upps {
		if u.IDPropietario == idPropietario && containsFold(u.Clave, clave) {
			return true
		}
	}
	return false
}

func (r *propietariosRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.propietarios[id]
	if !ok {
		return storage.ErrNotFound
	}
	err := ch.Each(func(col string, v any) error {
		switch col {
		case propietarios.ColNombre:
			p.Nombre = asString(v)
		case propietarios.ColCURP:
			p.CURP = asStringPtr(v)
		case propietarios.ColRFC:
			p.RFC = asStringPtr(v)
		case propietarios.ColTelefono:
			p.Telefono = asStringPtr(v)
		case propietarios.ColEmail:
			p.Email = asStringPtr(v)
		case propietarios.ColEstatus:
			p.Estatus = asString(v)
		case propietarios.ColFechaActualizacion:
			p.FechaActualizacion = asTimePtr(v)
		default:
			return unknownColumn("propietarios", col)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if r.curpTaken(p.CURP, id) {
		return storage.Duplicate(propietarios.ConstraintCURP)
	}
	r.s.propietarios[id] = p
	return nil
}

func (r *propietariosRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.propietarios[id]; !ok {
		return storage.ErrNotFound
	}
	for _, u := range r.s.upps {
		if u.IDPropietario == id {
			return storage.Reference(upp.ConstraintPropietario)
		}
	}
	delete(r.s.propietarios, id)
	return nil
}

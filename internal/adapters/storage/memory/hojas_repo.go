package memory

import (
	"context"

	"sistpec-api/internal/domain/hojareporte"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/ports/storage"
)

type hojasRepo struct {
	s *Store
}

func NewHojasRepo(s *Store) hojareporte.Repository {
	return &hojasRepo{s: s}
}

func (r *hojasRepo) check(h hojareporte.Hoja) error {
	if _, ok := r.s.usuarios[h.IDUsuario]; !ok {
		return storage.Reference(hojareporte.ConstraintUsuario)
	}
	if h.IDCaso != nil {
		if _, ok := r.s.casos[*h.IDCaso]; !ok {
			return storage.Reference(hojareporte.ConstraintCaso)
		}
	}
	return nil
}

func (r *hojasRepo) view(h hojareporte.Hoja) hojareporte.View {
	v := hojareporte.View{Hoja: h}
	if u, ok := r.s.usuarios[h.IDUsuario]; ok {
		v.UsuarioNombre = u.NombreCompleto()
		v.Usuario = u.NombreUsuario
	}
	// el llamador no comparte el slice del Store
	if h.Contenido != nil {
		v.Contenido = append([]byte(nil), h.Contenido...)
	}
	return v
}

func (r *hojasRepo) Create(ctx context.Context, h hojareporte.Hoja) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(h); err != nil {
		return 0, err
	}
	h.ID = r.s.nextID("hoja_reporte")
	r.s.hojas[h.ID] = h
	return h.ID, nil
}

func (r *hojasRepo) GetByID(ctx context.Context, id int64) (hojareporte.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	h, ok := r.s.hojas[id]
	if !ok {
		return hojareporte.View{}, storage.ErrNotFound
	}
	return r.view(h), nil
}

func (r *hojasRepo) List(ctx context.Context, f hojareporte.ListFilter) ([]hojareporte.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]hojareporte.View, 0)
	for _, h := range r.s.hojas {
		v := r.view(h)
		dia := dates.Of(v.Fecha.UTC())
		switch {
		case f.Folio != "" && !ptrContainsFold(v.Folio, f.Folio):
			continue
		case f.PeriodoInicio != nil && (v.PeriodoInicio == nil || v.PeriodoInicio.Before(*f.PeriodoInicio)):
			continue
		case f.PeriodoFin != nil && (v.PeriodoFin == nil || v.PeriodoFin.After(*f.PeriodoFin)):
			continue
		case f.IDUsuario != nil && v.IDUsuario != *f.IDUsuario:
			continue
		case f.IDCaso != nil && !eqInt64(v.IDCaso, *f.IDCaso):
			continue
		case f.MVZ != "" && !containsFold(v.UsuarioNombre, f.MVZ):
			continue
		case f.Fecha != nil && !dia.Equal(*f.Fecha):
			continue
		case !inRange(&dia, f.FechaDesde, f.FechaHasta):
			continue
		}
		out = append(out, v)
	}
	sortDesc(out, func(v hojareporte.View) int64 { return v.ID })
	return limit(out, f.Limit), nil
}

func (r *hojasRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	h, ok := r.s.hojas[id]
	if !ok {
		return storage.ErrNotFound
	}
	err := ch.Each(func(col string, v any) error {
		switch col {
		case hojareporte.ColFolio:
			h.Folio = asStringPtr(v)
		case hojareporte.ColIDCaso:
			h.IDCaso = asInt64Ptr(v)
		case hojareporte.ColPeriodoInicio:
			h.PeriodoInicio = asDatePtr(v)
		case hojareporte.ColPeriodoFin:
			h.PeriodoFin = asDatePtr(v)
		case hojareporte.ColContenido:
			h.Contenido = asBytes(v)
		case hojareporte.ColArchivo:
			h.Archivo = asStringPtr(v)
		case hojareporte.ColIDUsuario:
			h.IDUsuario = asInt64(v)
		case hojareporte.ColUpdatedAt:
			h.UpdatedAt = asTimePtr(v)
		default:
			return unknownColumn("hoja_reporte", col)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := r.check(h); err != nil {
		return err
	}
	r.s.hojas[id] = h
	return nil
}

func (r *hojasRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.hojas[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.hojas, id)
	return nil
}

// PutRawContenido escribe contenido sin validar. Solo para tests de integridad.
func (s *Store) PutRawContenido(id int64, raw []byte) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	h, ok := s.hojas[id]
	if !ok {
		return false
	}
	h.Contenido = raw
	s.hojas[id] = h
	return true
}

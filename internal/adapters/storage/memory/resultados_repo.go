package memory

import (
	"context"
	"strings"

	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/domain/resultados"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/ports/storage"
)

type resultadosRepo struct {
	s *Store
}

func NewResultadosRepo(s *Store) resultados.Repository {
	return &resultadosRepo{s: s}
}

func (r *resultadosRepo) check(res resultados.Resultado) error {
	if _, ok := r.s.muestras[res.IDMuestra]; !ok {
		return storage.Reference(resultados.ConstraintMuestra)
	}
	if !r.s.catalogHas(catalogos.Pruebas, res.IDPrueba) {
		return storage.Reference(resultados.ConstraintPrueba)
	}
	if res.IDResultado != nil && !r.s.catalogHas(catalogos.Resultados, *res.IDResultado) {
		return storage.Reference(resultados.ConstraintResultado)
	}
	if res.IDUsuarioValida != nil {
		if _, ok := r.s.usuarios[*res.IDUsuarioValida]; !ok {
			return storage.Reference(resultados.ConstraintUsuario)
		}
	}
	return nil
}

func (r *resultadosRepo) view(res resultados.Resultado) resultados.View {
	v := resultados.View{Resultado: res}
	if m, ok := r.s.muestras[res.IDMuestra]; ok {
		v.CodigoMuestra = m.CodigoMuestra
		v.TipoMuestra = r.s.catalogNamePtr(catalogos.TiposMuestra, m.IDTipoMuestra)
		v.IDCaso = m.IDCaso
		if c, ok := r.s.casos[m.IDCaso]; ok {
			v.NumeroCaso = c.NumeroCaso
			if u, ok := r.s.upps[c.IDUPP]; ok {
				v.ClaveUPP = u.Clave
				if p, ok := r.s.propietarios[u.IDPropietario]; ok {
					v.Propietario = p.Nombre
				}
			}
		}
	}
	v.PruebaNombre, _ = r.s.catalogName(catalogos.Pruebas, res.IDPrueba)
	v.ResultadoNombre = r.s.catalogNamePtr(catalogos.Resultados, res.IDResultado)
	v.UsuarioValida = r.s.userName(res.IDUsuarioValida)
	return v
}

func (r *resultadosRepo) Create(ctx context.Context, res resultados.Resultado) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if err := r.check(res); err != nil {
		return 0, err
	}
	res.ID = r.s.nextID("resultados")
	r.s.resultados[res.ID] = res
	return res.ID, nil
}

func (r *resultadosRepo) GetByID(ctx context.Context, id int64) (resultados.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	res, ok := r.s.resultados[id]
	if !ok {
		return resultados.View{}, storage.ErrNotFound
	}
	return r.view(res), nil
}

func (r *resultadosRepo) List(ctx context.Context, f resultados.ListFilter) ([]resultados.View, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	out := make([]resultados.View, 0)
	for _, res := range r.s.resultados {
		v := r.view(res)
		fecha := v.FechaResultado
		switch {
		case f.IDMuestra != nil && v.IDMuestra != *f.IDMuestra:
			continue
		case f.IDCaso != nil && v.IDCaso != *f.IDCaso:
			continue
		case f.NumeroCaso != "" && !containsFold(v.NumeroCaso, f.NumeroCaso):
			continue
		case f.IDPrueba != nil && v.IDPrueba != *f.IDPrueba:
			continue
		case f.IDResultado != nil && !eqInt64(v.IDResultado, *f.IDResultado):
			continue
		case f.IDResultado == nil && f.Resultado != "" && (v.ResultadoNombre == nil || !strings.EqualFold(*v.ResultadoNombre, f.Resultado)):
			continue
		case !inRange(&fecha, f.FechaDesde, f.FechaHasta):
			continue
		}
		out = append(out, v)
	}
	sortDesc(out, func(v resultados.View) int64 { return v.ID })
	return limit(out, f.Limit), nil
}

func (r *resultadosRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	res, ok := r.s.resultados[id]
	if !ok {
		return storage.ErrNotFound
	}
	err := ch.Each(func(col string, v any) error {
		switch col {
		case resultados.ColIDMuestra:
			res.IDMuestra = asInt64(v)
		case resultados.ColIDPrueba:
			res.IDPrueba = asInt64(v)
		case resultados.ColIDResultado:
			res.IDResultado = asInt64Ptr(v)
		case resultados.ColValor:
			res.Valor = asStringPtr(v)
		case resultados.ColObservaciones:
			res.Observaciones = asStringPtr(v)
		case resultados.ColFechaResultado:
			if d := asDatePtr(v); d != nil {
				res.FechaResultado = *d
			} else {
				res.FechaResultado = dates.Date{}
			}
		case resultados.ColIDUsuarioValida:
			res.IDUsuarioValida = asInt64Ptr(v)
		case resultados.ColUpdatedAt:
			res.UpdatedAt = asTimePtr(v)
		default:
			return unknownColumn("resultados", col)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := r.check(res); err != nil {
		return err
	}
	r.s.resultados[id] = res
	return nil
}

func (r *resultadosRepo) Delete(ctx context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.resultados[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.resultados, id)
	return nil
}

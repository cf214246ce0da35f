package postgres

import (
	"context"
	"database/sql"

	"sistpec-api/internal/domain/muestras"
	"sistpec-api/internal/ports/storage"
)

var muestrasColumns = columnSet(
	muestras.ColIDCaso,
	muestras.ColIDTipoMuestra,
	muestras.ColIDEstatusMuestra,
	muestras.ColCodigoMuestra,
	muestras.ColNumeroArete,
	muestras.ColIDEspecie,
	muestras.ColIDRaza,
	muestras.ColEspecie,
	muestras.ColSexo,
	muestras.ColEdad,
	muestras.ColFechaToma,
	muestras.ColObservaciones,
	muestras.ColUpdatedAt,
)

const muestraSelect = `
	SELECT
		m.id_muestra, m.id_caso, m.id_tipo_muestra, m.id_estatus_muestra,
		m.codigo_muestra, m.numero_arete, m.id_especie, m.id_raza, m.especie,
		m.sexo, m.edad, m.fecha_toma, m.observaciones, m.created_at, m.updated_at,
		c.numero_caso, u.clave_upp, p.nombre,
		tm.descripcion, em.nombre, esp.nombre, rz.nombre
	FROM muestras m
	JOIN casos c ON c.id_caso = m.id_caso
	JOIN upp u ON u.id_upp = c.id_upp
	JOIN propietarios p ON p.id_propietario = u.id_propietario
	JOIN cat_estatus_muestra em ON em.id_estatus_muestra = m.id_estatus_muestra
	LEFT JOIN cat_tipo_muestra tm ON tm.id_tipo_muestra = m.id_tipo_muestra
	LEFT JOIN cat_especie esp ON esp.id_especie = m.id_especie
	LEFT JOIN cat_raza rz ON rz.id_raza = m.id_raza`

type MuestrasRepo struct {
	db *sql.DB
}

func NewMuestrasRepo(db *sql.DB) *MuestrasRepo {
	return &MuestrasRepo{db: db}
}

func scanMuestra(row interface{ Scan(...any) error }) (muestras.View, error) {
	var v muestras.View
	err := row.Scan(
		&v.ID,
		&v.IDCaso,
		&v.IDTipoMuestra,
		&v.IDEstatusMuestra,
		&v.CodigoMuestra,
		&v.NumeroArete,
		&v.IDEspecie,
		&v.IDRaza,
		&v.Especie,
		&v.Sexo,
		&v.Edad,
		&v.FechaToma,
		&v.Observaciones,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.NumeroCaso,
		&v.ClaveUPP,
		&v.NombrePropietario,
		&v.TipoMuestra,
		&v.EstatusMuestra,
		&v.EspecieNombre,
		&v.Raza,
	)
	return v, err
}

func (r *MuestrasRepo) Create(ctx context.Context, m muestras.Muestra) (int64, error) {
	var id int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO muestras (
			id_caso, id_tipo_muestra, id_estatus_muestra, codigo_muestra, numero_arete,
			id_especie, id_raza, especie, sexo, edad, fecha_toma, observaciones, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		RETURNING id_muestra
	`,
		m.IDCaso,
		m.IDTipoMuestra,
		m.IDEstatusMuestra,
		m.CodigoMuestra,
		m.NumeroArete,
		m.IDEspecie,
		m.IDRaza,
		m.Especie,
		m.Sexo,
		m.Edad,
		m.FechaToma,
		m.Observaciones,
		m.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *MuestrasRepo) GetByID(ctx context.Context, id int64) (muestras.View, error) {
	v, err := scanMuestra(conn(ctx, r.db).QueryRowContext(ctx, muestraSelect+` WHERE m.id_muestra = $1`, id))
	if err != nil {
		return muestras.View{}, translate(err)
	}
	return v, nil
}

func (r *MuestrasRepo) List(ctx context.Context, f muestras.ListFilter) ([]muestras.View, error) {
	var w filters
	if f.IDCaso != nil {
		w.add("m.id_caso = $%d", *f.IDCaso)
	}
	if f.CodigoMuestra != "" {
		w.contains("m.codigo_muestra", f.CodigoMuestra)
	}
	if f.NumeroArete != "" {
		w.contains("m.numero_arete", f.NumeroArete)
	}
	if f.IDEspecie != nil {
		w.add("m.id_especie = $%d", *f.IDEspecie)
	}
	if f.IDTipoMuestra != nil {
		w.add("m.id_tipo_muestra = $%d", *f.IDTipoMuestra)
	}
	if f.IDEstatusMuestra != nil {
		w.add("m.id_estatus_muestra = $%d", *f.IDEstatusMuestra)
	} else if f.Estatus != "" {
		w.contains("em.nombre", f.Estatus)
	}
	if f.FechaDesde != nil {
		w.add("m.fecha_toma >= $%d", *f.FechaDesde)
	}
	if f.FechaHasta != nil {
		w.add("m.fecha_toma <= $%d", *f.FechaHasta)
	}
	q, args := w.build(muestraSelect, "m.id_muestra DESC", f.Limit)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]muestras.View, 0)
	for rows.Next() {
		v, err := scanMuestra(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *MuestrasRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	return execUpdate(ctx, r.db, "muestras", "id_muestra", id, ch, muestrasColumns)
}

func (r *MuestrasRepo) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, "muestras", "id_muestra", id)
}

var _ muestras.Repository = (*MuestrasRepo)(nil)

package postgres

import (
	"context"
	"database/sql"

	"sistpec-api/internal/domain/hojareporte"
	"sistpec-api/internal/ports/storage"
)

var hojasColumns = columnSet(
	hojareporte.ColFolio,
	hojareporte.ColIDCaso,
	hojareporte.ColPeriodoInicio,
	hojareporte.ColPeriodoFin,
	hojareporte.ColContenido,
	hojareporte.ColArchivo,
	hojareporte.ColIDUsuario,
	hojareporte.ColUpdatedAt,
)

const hojaSelect = `
	SELECT
		h.id_reporte, h.folio, h.id_caso, h.periodo_inicio, h.periodo_fin,
		h.contenido, h.archivo, h.fecha, h.id_usuario, h.updated_at,
		CONCAT_WS(' ', u.nombre, u.apellido_paterno, u.apellido_materno), u.nombre_usuario
	FROM hoja_reporte h
	JOIN usuarios u ON u.id_usuario = h.id_usuario`

type HojasRepo struct {
	db *sql.DB
}

func NewHojasRepo(db *sql.DB) *HojasRepo {
	return &HojasRepo{db: db}
}

func scanHoja(row interface{ Scan(...any) error }) (hojareporte.View, error) {
	var (
		v   hojareporte.View
		raw []byte
	)
	err := row.Scan(
		&v.ID,
		&v.Folio,
		&v.IDCaso,
		&v.PeriodoInicio,
		&v.PeriodoFin,
		&raw,
		&v.Archivo,
		&v.Fecha,
		&v.IDUsuario,
		&v.UpdatedAt,
		&v.UsuarioNombre,
		&v.Usuario,
	)
	// el servicio decide si el contenido es válido
	v.Contenido = raw
	return v, err
}

func (r *HojasRepo) Create(ctx context.Context, h hojareporte.Hoja) (int64, error) {
	var contenido []byte
	if len(h.Contenido) > 0 {
		contenido = h.Contenido
	}

	var id int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO hoja_reporte (
			folio, id_caso, periodo_inicio, periodo_fin, contenido, archivo, fecha, id_usuario
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id_reporte
	`,
		h.Folio,
		h.IDCaso,
		h.PeriodoInicio,
		h.PeriodoFin,
		contenido,
		h.Archivo,
		h.Fecha,
		h.IDUsuario,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *HojasRepo) GetByID(ctx context.Context, id int64) (hojareporte.View, error) {
	v, err := scanHoja(conn(ctx, r.db).QueryRowContext(ctx, hojaSelect+` WHERE h.id_reporte = $1`, id))
	if err != nil {
		return hojareporte.View{}, translate(err)
	}
	return v, nil
}

func (r *HojasRepo) List(ctx context.Context, f hojareporte.ListFilter) ([]hojareporte.View, error) {
	var w filters
	if f.Folio != "" {
		w.contains("h.folio", f.Folio)
	}
	if f.PeriodoInicio != nil {
		w.add("h.periodo_inicio >= $%d", *f.PeriodoInicio)
	}
	if f.PeriodoFin != nil {
		w.add("h.periodo_fin <= $%d", *f.PeriodoFin)
	}
	if f.IDUsuario != nil {
		w.add("h.id_usuario = $%d", *f.IDUsuario)
	}
	if f.IDCaso != nil {
		w.add("h.id_caso = $%d", *f.IDCaso)
	}
	if f.MVZ != "" {
		w.contains("CONCAT_WS(' ', u.nombre, u.apellido_paterno, u.apellido_materno)", f.MVZ)
	}
	if f.Fecha != nil {
		w.add("h.fecha::date = $%d", *f.Fecha)
	}
	if f.FechaDesde != nil {
		w.add("h.fecha::date >= $%d", *f.FechaDesde)
	}
	if f.FechaHasta != nil {
		w.add("h.fecha::date <= $%d", *f.FechaHasta)
	}
	q, args := w.build(hojaSelect, "h.id_reporte DESC", f.Limit)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]hojareporte.View, 0)
	for rows.Next() {
		v, err := scanHoja(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *HojasRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	return execUpdate(ctx, r.db, "hoja_reporte", "id_reporte", id, ch, hojasColumns)
}

func (r *HojasRepo) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, "hoja_reporte", "id_reporte", id)
}

var _ hojareporte.Repository = (*HojasRepo)(nil)

package postgres

import (
	"context"
	"database/sql"

	"sistpec-api/internal/domain/upp"
	"sistpec-api/internal/ports/storage"
)

var uppColumns = columnSet(
	upp.ColClave,
	upp.ColIDPropietario,
	upp.ColIDMunicipio,
	upp.ColLocalidad,
	upp.ColDireccion,
	upp.ColTelefonoContacto,
	upp.ColEstatus,
	upp.ColFechaActualizacion,
)

const uppSelect = `
	SELECT
		u.id_upp, u.clave_upp, u.id_propietario, u.id_municipio,
		u.localidad, u.direccion, u.telefono_contacto, u.estatus,
		u.fecha_registro, u.fecha_actualizacion,
		p.nombre, m.nombre, e.nombre
	FROM upp u
	JOIN propietarios p ON p.id_propietario = u.id_propietario
	LEFT JOIN cat_municipio m ON m.id_municipio = u.id_municipio
	LEFT JOIN cat_estado e ON e.id_estado = m.id_estado`

type UPPRepo struct {
	db *sql.DB
}

func NewUPPRepo(db *sql.DB) *UPPRepo {
	return &UPPRepo{db: db}
}

func scanUPP(row interface{ Scan(...any) error }) (upp.View, error) {
	var v upp.View
	err := row.Scan(
		&v.ID,
		&v.Clave,
		&v.IDPropietario,
		&v.IDMunicipio,
		&v.Localidad,
		&v.Direccion,
		&v.TelefonoContacto,
		&v.Estatus,
		&v.FechaRegistro,
		&v.FechaActualizacion,
		&v.Propietario,
		&v.Municipio,
		&v.Estado,
	)
	return v, err
}

func (r *UPPRepo) Create(ctx context.Context, u upp.UPP) (int64, error) {
	var id int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO upp (
			clave_upp, id_propietario, id_municipio,
			localidad, direccion, telefono_contacto,
			estatus, fecha_registro
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id_upp
	`,
		u.Clave,
		u.IDPropietario,
		u.IDMunicipio,
		u.Localidad,
		u.Direccion,
		u.TelefonoContacto,
		u.Estatus,
		u.FechaRegistro,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *UPPRepo) GetByID(ctx context.Context, id int64) (upp.View, error) {
	v, err := scanUPP(conn(ctx, r.db).QueryRowContext(ctx, uppSelect+` WHERE u.id_upp = $1`, id))
	if err != nil {
		return upp.View{}, translate(err)
	}
	return v, nil
}

func (r *UPPRepo) GetByClave(ctx context.Context, clave string) (upp.View, error) {
	v, err := scanUPP(conn(ctx, r.db).QueryRowContext(ctx, uppSelect+` WHERE UPPER(u.clave_upp) = UPPER($1)`, clave))
	if err != nil {
		return upp.View{}, translate(err)
	}
	return v, nil
}

func (r *UPPRepo) List(ctx context.Context, f upp.ListFilter) ([]upp.View, error) {
	var w filters
	if f.SoloActivas {
		w.add("u.estatus = $%d", true)
	}
	if f.Search != "" {
		w.add("(u.clave_upp ILIKE '%%' || $%[1]d::text || '%%' OR p.nombre ILIKE '%%' || $%[1]d::text || '%%')", f.Search)
	}
	q, args := w.build(uppSelect, "u.clave_upp ASC", f.Limit)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]upp.View, 0)
	for rows.Next() {
		v, err := scanUPP(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *UPPRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	return execUpdate(ctx, r.db, "upp", "id_upp", id, ch, uppColumns)
}

func (r *UPPRepo) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, "upp", "id_upp", id)
}

var _ upp.Repository = (*UPPRepo)(nil)

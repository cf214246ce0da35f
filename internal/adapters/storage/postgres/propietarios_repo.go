package postgres

import (
	"context"
	"database/sql"

	"sistpec-api/internal/domain/propietarios"
	"sistpec-api/internal/ports/storage"
)

var propietariosColumns = columnSet(
	propietarios.ColNombre,
	propietarios.ColCURP,
	propietarios.ColRFC,
	propietarios.ColTelefono,
	propietarios.ColEmail,
	propietarios.ColEstatus,
	propietarios.ColFechaActualizacion,
)

const propietarioSelect = `
	SELECT
		p.id_propietario, p.nombre, p.curp, p.rfc, p.telefono, p.email,
		p.estatus, p.fecha_registro, p.fecha_actualizacion
	FROM propietarios p`

type PropietariosRepo struct {
	db *sql.DB
}

func NewPropietariosRepo(db *sql.DB) *PropietariosRepo {
	return &PropietariosRepo{db: db}
}

func scanPropietario(row interface{ Scan(...any) error }) (propietarios.Propietario, error) {
	var p propietarios.Propietario
	err := row.Scan(
		&p.ID,
		&p.Nombre,
		&p.CURP,
		&p.RFC,
		&p.Telefono,
		&p.Email,
		&p.Estatus,
		&p.FechaRegistro,
		&p.FechaActualizacion,
	)
	return p, err
}

func (r *PropietariosRepo) Create(ctx context.Context, p propietarios.Propietario) (int64, error) {
	var id int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO propietarios (nombre, curp, rfc, telefono, email, estatus, fecha_registro)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id_propietario
	`,
		p.Nombre,
		p.CURP,
		p.RFC,
		p.Telefono,
		p.Email,
		p.Estatus,
		p.FechaRegistro,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *PropietariosRepo) GetByID(ctx context.Context, id int64) (propietarios.Propietario, error) {
	p, err := scanPropietario(conn(ctx, r.db).QueryRowContext(ctx, propietarioSelect+` WHERE p.id_propietario = $1`, id))
	if err != nil {
		return propietarios.Propietario{}, translate(err)
	}
	return p, nil
}

func (r *PropietariosRepo) GetByCURP(ctx context.Context, curp string) (propietarios.Propietario, error) {
	p, err := scanPropietario(conn(ctx, r.db).QueryRowContext(ctx, propietarioSelect+` WHERE UPPER(p.curp) = UPPER($1)`, curp))
	if err != nil {
		return propietarios.Propietario{}, translate(err)
	}
	return p, nil
}

func (r *PropietariosRepo) List(ctx context.Context, f propietarios.ListFilter) ([]propietarios.Propietario, error) {
	var w filters
	if f.CURP != "" {
		w.contains("p.curp", f.CURP)
	}
	if f.Nombre != "" {
		w.contains("p.nombre", f.Nombre)
	}
	if f.Estatus != "" {
		w.add("p.estatus = $%d", f.Estatus)
	}
	if f.UPP != "" {
		// EXISTS evita repetir al propietario que tiene varias UPP
		w.add("EXISTS (SELECT 1 FROM upp u WHERE u.id_propietario = p.id_propietario AND u.clave_upp ILIKE '%%' || $%d::text || '%%')", f.UPP)
	}
	q, args := w.build(propietarioSelect, "p.id_propietario DESC", f.Limit)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]propietarios.Propietario, 0)
	for rows.Next() {
		p, err := scanPropietario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *PropietariosRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	return execUpdate(ctx, r.db, "propietarios", "id_propietario", id, ch, propietariosColumns)
}

func (r *PropietariosRepo) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, "propietarios", "id_propietario", id)
}

var _ propietarios.Repository = (*PropietariosRepo)(nil)

package postgres

import (
	"context"
	"database/sql"

	"sistpec-api/internal/domain/casos"
	"sistpec-api/internal/ports/storage"
)

// numero_caso no está: es inmutable.
var casosColumns = columnSet(
	casos.ColIDUPP,
	casos.ColIDMVZ,
	casos.ColIDUsuarioRecepciona,
	casos.ColIDEstatusCaso,
	casos.ColFechaRecepcion,
	casos.ColSemanaEpidemiologica,
	casos.ColAnioEpidemiologico,
	casos.ColObservaciones,
	casos.ColUpdatedAt,
)

const casoSelect = `
	SELECT
		c.id_caso, c.numero_caso, c.id_upp, c.id_mvz, c.id_usuario_recepciona,
		c.id_estatus_caso, c.fecha_recepcion, c.semana_epidemiologica,
		c.anio_epidemiologico, c.observaciones, c.created_at, c.updated_at,
		u.clave_upp, p.nombre, m.nombre, u.localidad,
		NULLIF(CONCAT_WS(' ', mvz.nombre, mvz.apellido_paterno, mvz.apellido_materno), ''),
		NULLIF(CONCAT_WS(' ', rec.nombre, rec.apellido_paterno, rec.apellido_materno), ''),
		ec.nombre
	FROM casos c
	JOIN upp u ON u.id_upp = c.id_upp
	JOIN propietarios p ON p.id_propietario = u.id_propietario
	JOIN cat_estatus_caso ec ON ec.id_estatus_caso = c.id_estatus_caso
	LEFT JOIN cat_municipio m ON m.id_municipio = u.id_municipio
	LEFT JOIN usuarios mvz ON mvz.id_usuario = c.id_mvz
	LEFT JOIN usuarios rec ON rec.id_usuario = c.id_usuario_recepciona`

type CasosRepo struct {
	db *sql.DB
}

func NewCasosRepo(db *sql.DB) *CasosRepo {
	return &CasosRepo{db: db}
}

func scanCaso(row interface{ Scan(...any) error }) (casos.View, error) {
	var v casos.View
	err := row.Scan(
		&v.ID,
		&v.NumeroCaso,
		&v.IDUPP,
		&v.IDMVZ,
		&v.IDUsuarioRecepciona,
		&v.IDEstatusCaso,
		&v.FechaRecepcion,
		&v.SemanaEpidemiologica,
		&v.AnioEpidemiologico,
		&v.Observaciones,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.ClaveUPP,
		&v.Propietario,
		&v.Municipio,
		&v.Localidad,
		&v.MVZ,
		&v.UsuarioRecepciona,
		&v.EstatusCaso,
	)
	return v, err
}

func (r *CasosRepo) Create(ctx context.Context, c casos.Caso) (int64, error) {
	var id int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO casos (
			numero_caso, id_upp, id_mvz, id_usuario_recepciona, id_estatus_caso,
			fecha_recepcion, semana_epidemiologica, anio_epidemiologico,
			observaciones, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
		RETURNING id_caso
	`,
		c.NumeroCaso,
		c.IDUPP,
		c.IDMVZ,
		c.IDUsuarioRecepciona,
		c.IDEstatusCaso,
		c.FechaRecepcion,
		c.SemanaEpidemiologica,
		c.AnioEpidemiologico,
		c.Observaciones,
		c.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *CasosRepo) GetByID(ctx context.Context, id int64) (casos.View, error) {
	v, err := scanCaso(conn(ctx, r.db).QueryRowContext(ctx, casoSelect+` WHERE c.id_caso = $1`, id))
	if err != nil {
		return casos.View{}, translate(err)
	}
	return v, nil
}

func (r *CasosRepo) List(ctx context.Context, f casos.ListFilter) ([]casos.View, error) {
	var w filters
	if f.NumeroCaso != "" {
		w.contains("c.numero_caso", f.NumeroCaso)
	}
	if f.IDUPP != nil {
		w.add("c.id_upp = $%d", *f.IDUPP)
	}
	if f.ClaveUPP != "" {
		w.contains("u.clave_upp", f.ClaveUPP)
	}
	if f.Propietario != "" {
		w.contains("p.nombre", f.Propietario)
	}
	if f.IDEstatusCaso != nil {
		w.add("c.id_estatus_caso = $%d", *f.IDEstatusCaso)
	} else if f.Estatus != "" {
		w.add("UPPER(ec.nombre) = $%d", f.Estatus)
	}
	if f.FechaRecepcion != nil {
		w.add("c.fecha_recepcion = $%d", *f.FechaRecepcion)
	}
	if f.IDMVZ != nil {
		w.add("c.id_mvz = $%d", *f.IDMVZ)
	} else if f.MVZ != "" {
		w.contains("CONCAT_WS(' ', mvz.nombre, mvz.apellido_paterno, mvz.apellido_materno)", f.MVZ)
	}
	if f.Semana != nil {
		w.add("c.semana_epidemiologica = $%d", *f.Semana)
	}
	if f.Anio != nil {
		w.add("c.anio_epidemiologico = $%d", *f.Anio)
	}
	q, args := w.build(casoSelect, "c.id_caso DESC", f.Limit)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]casos.View, 0)
	for rows.Next() {
		v, err := scanCaso(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *CasosRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	return execUpdate(ctx, r.db, "casos", "id_caso", id, ch, casosColumns)
}

func (r *CasosRepo) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, "casos", "id_caso", id)
}

// NumberGenerator usa fn_generar_numero_caso(); dentro de RunInTx el número
// queda ligado a la transacción del INSERT.
type NumberGenerator struct {
	db *sql.DB
}

func NewNumberGenerator(db *sql.DB) *NumberGenerator {
	return &NumberGenerator{db: db}
}

func (g *NumberGenerator) NextNumeroCaso(ctx context.Context) (string, error) {
	var numero string
	if err := conn(ctx, g.db).QueryRowContext(ctx, `SELECT fn_generar_numero_caso()`).Scan(&numero); err != nil {
		return "", translate(err)
	}
	return numero, nil
}

var (
	_ casos.Repository      = (*CasosRepo)(nil)
	_ casos.NumberGenerator = (*NumberGenerator)(nil)
)

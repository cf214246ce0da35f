package postgres

import (
	"context"
	"database/sql"

	"sistpec-api/internal/domain/resultados"
	"sistpec-api/internal/ports/storage"
)

var resultadosColumns = columnSet(
	resultados.ColIDMuestra,
	resultados.ColIDPrueba,
	resultados.ColIDResultado,
	resultados.ColValor,
	resultados.ColObservaciones,
	resultados.ColFechaResultado,
	resultados.ColIDUsuarioValida,
	resultados.ColUpdatedAt,
)

const resultadoSelect = `
	SELECT
		r.id_resultado_lab, r.id_muestra, r.id_prueba, r.id_resultado, r.valor,
		r.observaciones, r.fecha_resultado, r.id_usuario_valida, r.created_at, r.updated_at,
		m.codigo_muestra, tm.descripcion, pr.nombre, cr.nombre,
		NULLIF(CONCAT_WS(' ', uv.nombre, uv.apellido_paterno, uv.apellido_materno), ''),
		c.id_caso, c.numero_caso, u.clave_upp, p.nombre
	FROM resultados r
	JOIN muestras m ON m.id_muestra = r.id_muestra
	JOIN casos c ON c.id_caso = m.id_caso
	JOIN upp u ON u.id_upp = c.id_upp
	JOIN propietarios p ON p.id_propietario = u.id_propietario
	JOIN cat_prueba pr ON pr.id_prueba = r.id_prueba
	LEFT JOIN cat_tipo_muestra tm ON tm.id_tipo_muestra = m.id_tipo_muestra
	LEFT JOIN cat_resultado cr ON cr.id_resultado = r.id_resultado
	LEFT JOIN usuarios uv ON uv.id_usuario = r.id_usuario_valida`

type ResultadosRepo struct {
	db *sql.DB
}

func NewResultadosRepo(db *sql.DB) *ResultadosRepo {
	return &ResultadosRepo{db: db}
}

func scanResultado(row interface{ Scan(...any) error }) (resultados.View, error) {
	var v resultados.View
	err := row.Scan(
		&v.ID,
		&v.IDMuestra,
		&v.IDPrueba,
		&v.IDResultado,
		&v.Valor,
		&v.Observaciones,
		&v.FechaResultado,
		&v.IDUsuarioValida,
		&v.CreatedAt,
		&v.UpdatedAt,
		&v.CodigoMuestra,
		&v.TipoMuestra,
		&v.PruebaNombre,
		&v.ResultadoNombre,
		&v.UsuarioValida,
		&v.IDCaso,
		&v.NumeroCaso,
		&v.ClaveUPP,
		&v.Propietario,
	)
	return v, err
}

func (r *ResultadosRepo) Create(ctx context.Context, res resultados.Resultado) (int64, error) {
	var id int64
	err := conn(ctx, r.db).QueryRowContext(ctx, `
		INSERT INTO resultados (
			id_muestra, id_prueba, id_resultado, valor, observaciones,
			fecha_resultado, id_usuario_valida, created_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		RETURNING id_resultado_lab
	`,
		res.IDMuestra,
		res.IDPrueba,
		res.IDResultado,
		res.Valor,
		res.Observaciones,
		res.FechaResultado,
		res.IDUsuarioValida,
		res.CreatedAt,
	).Scan(&id)
	if err != nil {
		return 0, translate(err)
	}
	return id, nil
}

func (r *ResultadosRepo) GetByID(ctx context.Context, id int64) (resultados.View, error) {
	v, err := scanResultado(conn(ctx, r.db).QueryRowContext(ctx, resultadoSelect+` WHERE r.id_resultado_lab = $1`, id))
	if err != nil {
		return resultados.View{}, translate(err)
	}
	return v, nil
}

func (r *ResultadosRepo) List(ctx context.Context, f resultados.ListFilter) ([]resultados.View, error) {
	var w filters
	if f.IDMuestra != nil {
		w.add("r.id_muestra = $%d", *f.IDMuestra)
	}
	if f.IDCaso != nil {
		w.add("m.id_caso = $%d", *f.IDCaso)
	}
	if f.NumeroCaso != "" {
		w.contains("c.numero_caso", f.NumeroCaso)
	}
	if f.IDPrueba != nil {
		w.add("r.id_prueba = $%d", *f.IDPrueba)
	}
	if f.IDResultado != nil {
		w.add("r.id_resultado = $%d", *f.IDResultado)
	} else if f.Resultado != "" {
		w.add("UPPER(cr.nombre) = $%d", f.Resultado)
	}
	if f.FechaDesde != nil {
		w.add("r.fecha_resultado >= $%d", *f.FechaDesde)
	}
	if f.FechaHasta != nil {
		w.add("r.fecha_resultado <= $%d", *f.FechaHasta)
	}
	q, args := w.build(resultadoSelect, "r.id_resultado_lab DESC", f.Limit)

	rows, err := conn(ctx, r.db).QueryContext(ctx, q, args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]resultados.View, 0)
	for rows.Next() {
		v, err := scanResultado(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (r *ResultadosRepo) Update(ctx context.Context, id int64, ch storage.Changes) error {
	return execUpdate(ctx, r.db, "resultados", "id_resultado_lab", id, ch, resultadosColumns)
}

func (r *ResultadosRepo) Delete(ctx context.Context, id int64) error {
	return execDelete(ctx, r.db, "resultados", "id_resultado_lab", id)
}

var _ resultados.Repository = (*ResultadosRepo)(nil)

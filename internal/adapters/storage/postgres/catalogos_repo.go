package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"sistpec-api/internal/domain/catalogos"
)

type catalogTable struct {
	table, id, name string
}

// Los nombres de tabla y columna vienen de este mapa, nunca del request.
var catalogTables = map[catalogos.Catalogo]catalogTable{
	catalogos.EstatusCaso:    {"cat_estatus_caso", "id_estatus_caso", "nombre"},
	catalogos.EstatusMuestra: {"cat_estatus_muestra", "id_estatus_muestra", "nombre"},
	catalogos.TiposMuestra:   {"cat_tipo_muestra", "id_tipo_muestra", "descripcion"},
	catalogos.Especies:       {"cat_especie", "id_especie", "nombre"},
	catalogos.Razas:          {"cat_raza", "id_raza", "nombre"},
	catalogos.Pruebas:        {"cat_prueba", "id_prueba", "nombre"},
	catalogos.Resultados:     {"cat_resultado", "id_resultado", "nombre"},
	catalogos.Municipios:     {"cat_municipio", "id_municipio", "nombre"},
	catalogos.Estados:        {"cat_estado", "id_estado", "nombre"},
	catalogos.TiposUsuario:   {"tipos_usuario", "id_tipo", "nombre_tipo"},
}

type CatalogosRepo struct {
	db *sql.DB
}

func NewCatalogosRepo(db *sql.DB) *CatalogosRepo {
	return &CatalogosRepo{db: db}
}

func (r *CatalogosRepo) table(c catalogos.Catalogo) (catalogTable, error) {
	t, ok := catalogTables[c]
	if !ok {
		return catalogTable{}, fmt.Errorf("postgres: catálogo desconocido %q", c)
	}
	return t, nil
}

func (r *CatalogosRepo) List(ctx context.Context, c catalogos.Catalogo) ([]catalogos.Item, error) {
	t, err := r.table(c)
	if err != nil {
		return nil, err
	}
	rows, err := conn(ctx, r.db).QueryContext(ctx,
		fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s", t.id, t.name, t.table, t.id))
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	out := make([]catalogos.Item, 0)
	for rows.Next() {
		var it catalogos.Item
		if err := rows.Scan(&it.ID, &it.Nombre); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

func (r *CatalogosRepo) FindID(ctx context.Context, c catalogos.Catalogo, nombre string, m catalogos.Match) (int64, bool, error) {
	t, err := r.table(c)
	if err != nil {
		return 0, false, err
	}

	cond := fmt.Sprintf("UPPER(%s) = UPPER($1)", t.name)
	if m == catalogos.Contains {
		cond = fmt.Sprintf("%s ILIKE '%%' || $1::text || '%%'", t.name)
	}

	var id int64
	err = conn(ctx, r.db).QueryRowContext(ctx,
		fmt.Sprintf("SELECT %s FROM %s WHERE %s ORDER BY %s LIMIT 1", t.id, t.table, cond, t.id),
		nombre,
	).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, translate(err)
	}
	return id, true, nil
}

var _ catalogos.Repository = (*CatalogosRepo)(nil)

package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"sistpec-api/internal/ports/storage"
)

// buildUpdate arma un UPDATE parametrizado con las columnas de ch, en orden.
// Cualquier columna fuera de allowed es un error de programación.
func buildUpdate(table, idCol string, id int64, ch storage.Changes, allowed map[string]bool) (string, []any, error) {
	if ch.Len() == 0 {
		return "", nil, fmt.Errorf("postgres: update %s sin columnas", table)
	}

	sets := make([]string, 0, ch.Len())
	args := make([]any, 0, ch.Len()+1)
	err := ch.Each(func(col string, v any) error {
		if !allowed[col] {
			return fmt.Errorf("postgres: columna %q no actualizable en %s", col, table)
		}
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d", table, strings.Join(sets, ", "), idCol, len(args))
	return q, args, nil
}

// execUpdate aplica ch y devuelve storage.ErrNotFound si la fila no existe.
func execUpdate(ctx context.Context, db *sql.DB, table, idCol string, id int64, ch storage.Changes, allowed map[string]bool) error {
	q, args, err := buildUpdate(table, idCol, id, ch, allowed)
	if err != nil {
		return err
	}
	res, err := conn(ctx, db).ExecContext(ctx, q, args...)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func execDelete(ctx context.Context, db *sql.DB, table, idCol string, id int64) error {
	res, err := conn(ctx, db).ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE %s = $1", table, idCol), id)
	if err != nil {
		return translate(err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func columnSet(cols ...string) map[string]bool {
	m := make(map[string]bool, len(cols))
	for _, c := range cols {
		m[c] = true
	}
	return m
}

package postgres

import (
	"fmt"
	"strings"
)

// filters acumula condiciones WHERE con placeholders numerados.
// Cada cond lleva un %d donde va el número del parámetro.
type filters struct {
	where []string
	args  []any
}

func (f *filters) add(cond string, v any) {
	f.args = append(f.args, v)
	f.where = append(f.where, fmt.Sprintf(cond, len(f.args)))
}

// contains agrega "col ILIKE %v%".
func (f *filters) contains(col, v string) {
	f.add(col+" ILIKE '%%' || $%d::text || '%%'", v)
}

// build arma la consulta final con ORDER BY y LIMIT (limit <= 0 = sin límite).
func (f *filters) build(base, orderBy string, limit int) (string, []any) {
	q := base
	if len(f.where) > 0 {
		q += "\n\tWHERE " + strings.Join(f.where, "\n\t  AND ")
	}
	q += "\n\tORDER BY " + orderBy
	args := f.args
	if limit > 0 {
		args = append(args, limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return q, args
}

// Package storage define el contrato común de los adapters de persistencia
// (postgres y memoria): errores neutrales, transacciones y cambios parciales.
package storage

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("storage: not found")
	ErrUnavailable = errors.New("storage: unavailable")

	ErrDuplicate = errors.New("storage: duplicate key")
	ErrReference = errors.New("storage: foreign key violation")
)

// ConstraintError reporta la violación de una restricción con nombre
// (UNIQUE o FOREIGN KEY). Los servicios deciden el mensaje según Constraint.
type ConstraintError struct {
	Kind       error // ErrDuplicate o ErrReference
	Constraint string
	Err        error // error original del driver (puede ser nil)
}

func (e *ConstraintError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v (%s): %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%v (%s)", e.Kind, e.Constraint)
}

func (e *ConstraintError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func Duplicate(constraint string) error {
	return &ConstraintError{Kind: ErrDuplicate, Constraint: constraint}
}

func Reference(constraint string) error {
	return &ConstraintError{Kind: ErrReference, Constraint: constraint}
}

// Constraint extrae el nombre de la restricción violada, si aplica.
func Constraint(err error) (string, bool) {
	var ce *ConstraintError
	if errors.As(err, &ce) {
		return ce.Constraint, true
	}
	return "", false
}

// TxRunner ejecuta fn dentro de una transacción: commit si fn devuelve nil,
// rollback en cualquier otro caso.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Changes es el conjunto ordenado columna -> valor de un UPDATE parcial.
type Changes struct {
	cols []string
	vals map[string]any
}

// Set agrega o reemplaza el valor de una columna.
func (c *Changes) Set(col string, v any) {
	if c.vals == nil {
		c.vals = map[string]any{}
	}
	if _, ok := c.vals[col]; !ok {
		c.cols = append(c.cols, col)
	}
	c.vals[col] = v
}

func (c Changes) Len() int { return len(c.cols) }

func (c Changes) Columns() []string {
	out := make([]string, len(c.cols))
	copy(out, c.cols)
	return out
}

func (c Changes) Value(col string) (any, bool) {
	v, ok := c.vals[col]
	return v, ok
}

// Each recorre las columnas en el orden en que se agregaron.
func (c Changes) Each(fn func(col string, v any) error) error {
	for _, col := range c.cols {
		if err := fn(col, c.vals[col]); err != nil {
			return err
		}
	}
	return nil
}

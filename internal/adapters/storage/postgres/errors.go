package postgres

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"sistpec-api/internal/ports/storage"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

// translate convierte errores del driver a los errores neutrales de storage.
// El resto pasa sin cambios.
func translate(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ErrNotFound
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == codeUniqueViolation:
			return &storage.ConstraintError{Kind: storage.ErrDuplicate, Constraint: pgErr.ConstraintName, Err: err}
		case pgErr.Code == codeForeignKeyViolation:
			return &storage.ConstraintError{Kind: storage.ErrReference, Constraint: pgErr.ConstraintName, Err: err}
		case strings.HasPrefix(pgErr.Code, "08"), pgErr.Code == "57P01", pgErr.Code == "53300":
			// conexión perdida, servidor apagándose o sin slots
			return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
		}
		return err
	}

	if errors.Is(err, driver.ErrBadConn) || pgconn.SafeToRetry(err) || pgconn.Timeout(err) {
		return fmt.Errorf("%w: %v", storage.ErrUnavailable, err)
	}
	return err
}

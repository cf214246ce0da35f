// Package apperr define las categorías de error que los servicios devuelven
// y que la capa HTTP traduce a códigos de estado.
package apperr

import "errors"

var (
	ErrValidation   = errors.New("validation")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrUnavailable  = errors.New("unavailable")
	// ErrIntegrity: datos persistidos que no se pueden interpretar. Se responde 500
	// pero el mensaje sí se muestra al cliente.
	ErrIntegrity = errors.New("integrity")
)

// Error es un error de dominio con mensaje visible para el usuario.
type Error struct {
	Kind error
	Msg  string
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Kind }

func Validation(msg string) error   { return &Error{Kind: ErrValidation, Msg: msg} }
func NotFound(msg string) error     { return &Error{Kind: ErrNotFound, Msg: msg} }
func Conflict(msg string) error     { return &Error{Kind: ErrConflict, Msg: msg} }
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Msg: msg} }
func Forbidden(msg string) error    { return &Error{Kind: ErrForbidden, Msg: msg} }
func Unavailable(msg string) error  { return &Error{Kind: ErrUnavailable, Msg: msg} }
func Integrity(msg string) error    { return &Error{Kind: ErrIntegrity, Msg: msg} }

// Message devuelve el mensaje visible si err es (o envuelve) un *Error.
func Message(err error) (string, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Msg, true
	}
	return "", false
}

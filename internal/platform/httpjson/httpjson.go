// Package httpjson reúne los helpers de respuesta/lectura JSON que comparten
// los handlers de todos los módulos.
package httpjson

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/logger"
	"sistpec-api/internal/ports/storage"

	chimw "github.com/go-chi/chi/v5/middleware"
)

const (
	// MaxBodyBytes limita el cuerpo JSON de cualquier request.
	MaxBodyBytes = 1 << 20

	msgInternal = "Error interno del servidor"
)

// Detail es el cuerpo de error de toda la API.
type Detail struct {
	Detail string `json:"detail"`
}

// Message es la respuesta de éxito de PUT/PATCH/DELETE.
type Message struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func OK(msg string) Message {
	return Message{Success: true, Message: msg}
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteDetail(w http.ResponseWriter, status int, msg string) {
	WriteJSON(w, status, Detail{Detail: msg})
}

// Status traduce un error de servicio a código HTTP.
func Status(err error) int {
	switch {
	case errors.Is(err, apperr.ErrValidation), errors.Is(err, apperr.ErrConflict):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrUnavailable), errors.Is(err, storage.ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError escribe {detail} con el código que corresponde al error.
// Los errores inesperados se registran y nunca se devuelven tal cual al cliente.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := Status(err)

	if msg, ok := apperr.Message(err); ok {
		if status >= http.StatusInternalServerError {
			logger.FromContext(r.Context()).Error("request failed", map[string]any{
				"error":      err,
				"path":       r.URL.Path,
				"request_id": chimw.GetReqID(r.Context()),
			})
		}
		WriteDetail(w, status, msg)
		return
	}

	if status == http.StatusServiceUnavailable {
		WriteDetail(w, status, "Base de datos no disponible")
		return
	}

	logger.FromContext(r.Context()).Error("unexpected error", map[string]any{
		"error":      err,
		"method":     r.Method,
		"path":       r.URL.Path,
		"request_id": chimw.GetReqID(r.Context()),
	})
	WriteDetail(w, http.StatusInternalServerError, msgInternal)
}

// Decode lee el cuerpo JSON en dst. Campos desconocidos se ignoran
// (el frontend manda alias que no usamos).
func Decode(r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.Validation("Cuerpo JSON requerido")
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.Validation("Cuerpo JSON requerido")
		}
		return apperr.Validation("JSON inválido: " + err.Error())
	}
	return nil
}

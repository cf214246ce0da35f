package resultados

import (
	"time"

	"sistpec-api/internal/platform/dates"
)

const (
	ConstraintMuestra   = "fk_resultados_muestra"
	ConstraintPrueba    = "fk_resultados_prueba"
	ConstraintResultado = "fk_resultados_resultado"
	ConstraintUsuario   = "fk_resultados_usuario"
)

// Resultado de laboratorio de una prueba sobre una muestra.
type Resultado struct {
	ID              int64
	IDMuestra       int64
	IDPrueba        int64
	IDResultado     *int64 // cat_resultado
	Valor           *string
	Observaciones   *string
	FechaResultado  dates.Date
	IDUsuarioValida *int64
	CreatedAt       time.Time
	UpdatedAt       *time.Time
}

type View struct {
	Resultado
	CodigoMuestra   string
	TipoMuestra     *string
	PruebaNombre    string
	ResultadoNombre *string
	UsuarioValida   *string
	IDCaso          int64
	NumeroCaso      string
	ClaveUPP        string
	Propietario     string
}

type ListFilter struct {
	IDMuestra   *int64
	IDCaso      *int64
	NumeroCaso  string
	IDPrueba    *int64
	IDResultado *int64
	Resultado   string // nombre exacto, solo si IDResultado es nil
	FechaDesde  *dates.Date
	FechaHasta  *dates.Date
	Limit       int
}

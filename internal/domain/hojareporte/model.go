package hojareporte

import (
	"encoding/json"
	"time"

	"sistpec-api/internal/platform/dates"
)

const (
	ConstraintUsuario = "fk_hoja_reporte_usuario"
	ConstraintCaso    = "fk_hoja_reporte_caso"
)

// Hoja es la fila persistida; Contenido es el JSON tal como está guardado.
type Hoja struct {
	ID            int64
	Folio         *string
	IDCaso        *int64
	PeriodoInicio *dates.Date
	PeriodoFin    *dates.Date
	Contenido     json.RawMessage // nil = NULL
	Archivo       *string
	Fecha         time.Time
	IDUsuario     int64
	UpdatedAt     *time.Time
}

type View struct {
	Hoja
	UsuarioNombre string // nombre completo del autor
	Usuario       string // nombre_usuario
}

// Reporte es la vista con el contenido ya decodificado.
type Reporte struct {
	View
	Contenido map[string]any
}

type ListFilter struct {
	Folio         string
	PeriodoInicio *dates.Date // periodo_inicio >=
	PeriodoFin    *dates.Date // periodo_fin <=
	IDUsuario     *int64
	IDCaso        *int64
	MVZ           string // subcadena del nombre del autor
	Fecha         *dates.Date
	FechaDesde    *dates.Date
	FechaHasta    *dates.Date
	Limit         int
}

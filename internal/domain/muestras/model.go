package muestras

import (
	"time"

	"sistpec-api/internal/platform/dates"
)

const (
	ConstraintCaso    = "fk_muestras_caso"
	ConstraintTipo    = "fk_muestras_tipo"
	ConstraintEstatus = "fk_muestras_estatus"
	ConstraintEspecie = "fk_muestras_especie"
	ConstraintRaza    = "fk_muestras_raza"
)

type Muestra struct {
	ID               int64
	IDCaso           int64
	IDTipoMuestra    *int64
	IDEstatusMuestra int64
	CodigoMuestra    string
	NumeroArete      *string
	IDEspecie        *int64
	IDRaza           *int64
	Especie          *string // texto libre cuando no hay id_especie
	Sexo             *string
	Edad             *string
	FechaToma        *dates.Date
	Observaciones    *string
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}

type View struct {
	Muestra
	NumeroCaso        string
	ClaveUPP          string
	NombrePropietario string
	TipoMuestra       *string
	EstatusMuestra    string
	EspecieNombre     *string // del catálogo
	Raza              *string
}

type ListFilter struct {
	IDCaso           *int64
	CodigoMuestra    string
	NumeroArete      string
	IDEspecie        *int64
	IDTipoMuestra    *int64
	IDEstatusMuestra *int64
	Estatus          string // subcadena del nombre, solo si IDEstatusMuestra es nil
	FechaDesde       *dates.Date
	FechaHasta       *dates.Date
	Limit            int
}

package casos

import (
	"time"

	"sistpec-api/internal/platform/dates"
)

const (
	ConstraintNumero     = "uq_casos_numero"
	ConstraintUPP        = "fk_casos_upp"
	ConstraintMVZ        = "fk_casos_mvz"
	ConstraintRecepciona = "fk_casos_recepciona"
	ConstraintEstatus    = "fk_casos_estatus"
)

type Caso struct {
	ID                   int64
	NumeroCaso           string
	IDUPP                int64
	IDMVZ                *int64
	IDUsuarioRecepciona  *int64
	IDEstatusCaso        int64
	FechaRecepcion       dates.Date
	SemanaEpidemiologica *int
	AnioEpidemiologico   *int
	Observaciones        *string
	CreatedAt            time.Time
	UpdatedAt            *time.Time
}

// View es el caso con los datos de UPP, personas y estatus resueltos.
type View struct {
	Caso
	ClaveUPP          string
	Propietario       string
	Municipio         *string
	Localidad         *string
	MVZ               *string
	UsuarioRecepciona *string
	EstatusCaso       string
}

type ListFilter struct {
	NumeroCaso     string
	IDUPP          *int64
	ClaveUPP       string
	Propietario    string
	IDEstatusCaso  *int64
	Estatus        string // nombre exacto, solo si IDEstatusCaso es nil
	FechaRecepcion *dates.Date
	IDMVZ          *int64
	MVZ            string // subcadena del nombre, solo si IDMVZ es nil
	Semana         *int
	Anio           *int
	Limit          int
}

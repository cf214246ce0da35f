package upp

import "time"

const (
	ConstraintClave       = "uq_upp_clave"
	ConstraintPropietario = "fk_upp_propietario"
	ConstraintMunicipio   = "fk_upp_municipio"
)

// UPP es una unidad de producción pecuaria.
type UPP struct {
	ID                 int64
	Clave              string
	IDPropietario      int64
	IDMunicipio        *int64
	Localidad          *string
	Direccion          *string
	TelefonoContacto   *string
	Estatus            bool
	FechaRegistro      time.Time
	FechaActualizacion *time.Time
}

// View agrega los nombres de propietario, municipio y estado.
type View struct {
	UPP
	Propietario string
	Municipio   *string
	Estado      *string
}

type ListFilter struct {
	Search      string // subcadena de clave o nombre del propietario
	SoloActivas bool
	Limit       int
}

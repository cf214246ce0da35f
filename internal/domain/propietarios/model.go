package propietarios

import "time"

const (
	EstatusActivo = "ACTIVO"
	EstatusFinado = "FINADO"
)

// Restricciones del esquema que el servicio traduce a mensajes.
const (
	ConstraintCURP = "uq_propietarios_curp"
)

type Propietario struct {
	ID                 int64
	Nombre             string
	CURP               *string
	RFC                *string
	Telefono           *string
	Email              *string
	Estatus            string
	FechaRegistro      time.Time
	FechaActualizacion *time.Time
}

func (p Propietario) Activo() bool {
	return p.Estatus == EstatusActivo
}

type ListFilter struct {
	CURP    string // subcadena, se compara en mayúsculas
	Nombre  string // subcadena
	UPP     string // subcadena de clave_upp de alguna de sus UPP
	Estatus string // ACTIVO | FINADO
	Limit   int
}

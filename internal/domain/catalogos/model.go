package catalogos

// Catalogo identifica una tabla de catálogo (nombre público en la URL).
type Catalogo string

const (
	EstatusCaso    Catalogo = "estatus-caso"
	EstatusMuestra Catalogo = "estatus-muestra"
	TiposMuestra   Catalogo = "tipos-muestra"
	Especies       Catalogo = "especies"
	Razas          Catalogo = "razas"
	Pruebas        Catalogo = "pruebas"
	Resultados     Catalogo = "resultados"
	Municipios     Catalogo = "municipios"
	Estados        Catalogo = "estados"
	TiposUsuario   Catalogo = "tipos-usuario"
)

// Todos en el orden en que se documentan.
var Todos = []Catalogo{
	EstatusCaso, EstatusMuestra, TiposMuestra, Especies, Razas,
	Pruebas, Resultados, Municipios, Estados, TiposUsuario,
}

func (c Catalogo) Valid() bool {
	for _, x := range Todos {
		if x == c {
			return true
		}
	}
	return false
}

// Valores por defecto que usan los módulos.
const (
	EstatusCasoAbierto      = "ABIERTO"
	EstatusMuestraPendiente = "PENDIENTE"
)

type Item struct {
	ID     int64  `json:"id"`
	Nombre string `json:"nombre"`
}

// Match define cómo se compara un nombre al buscar su id.
type Match int

const (
	Exact    Match = iota // igualdad sin distinguir mayúsculas
	Contains              // subcadena sin distinguir mayúsculas
)

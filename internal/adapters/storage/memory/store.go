// Package memory implementa los repositorios sin base de datos, para desarrollo y tests.
// Todas las tablas viven en un único Store protegido por un mutex, así las
// validaciones de UNIQUE y FOREIGN KEY se hacen bajo el mismo lock que la escritura.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"sistpec-api/internal/domain/casos"
	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/domain/hojareporte"
	"sistpec-api/internal/domain/muestras"
	"sistpec-api/internal/domain/propietarios"
	"sistpec-api/internal/domain/resultados"
	"sistpec-api/internal/domain/upp"
	"sistpec-api/internal/domain/usuarios"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/ports/storage"
)

type Store struct {
	mu sync.RWMutex

	catalogos       map[catalogos.Catalogo][]catalogos.Item
	municipioEstado map[int64]int64

	propietarios map[int64]propietarios.Propietario
	upps         map[int64]upp.UPP
	usuarios     map[int64]usuarios.Usuario
	casos        map[int64]casos.Caso
	muestras     map[int64]muestras.Muestra
	resultados   map[int64]resultados.Resultado
	hojas        map[int64]hojareporte.Hoja

	lastID       map[string]int64
	casosPorAnio map[int]int

	now func() time.Time
}

// NewStore crea un Store con los catálogos base sembrados.
func NewStore() *Store {
	s := &Store{
		catalogos:       map[catalogos.Catalogo][]catalogos.Item{},
		municipioEstado: map[int64]int64{},
		propietarios:    map[int64]propietarios.Propietario{},
		upps:            map[int64]upp.UPP{},
		usuarios:        map[int64]usuarios.Usuario{},
		casos:           map[int64]casos.Caso{},
		muestras:        map[int64]muestras.Muestra{},
		resultados:      map[int64]resultados.Resultado{},
		hojas:           map[int64]hojareporte.Hoja{},
		lastID:          map[string]int64{},
		casosPorAnio:    map[int]int{},
		now:             time.Now,
	}
	s.seed()
	return s
}

func (s *Store) seed() {
	names := func(c catalogos.Catalogo, vals ...string) {
		items := make([]catalogos.Item, 0, len(vals))
		for i, v := range vals {
			items = append(items, catalogos.Item{ID: int64(i + 1), Nombre: v})
		}
		s.catalogos[c] = items
	}

	names(catalogos.EstatusCaso, "ABIERTO", "EN_PROCESO", "CERRADO", "CANCELADO")
	names(catalogos.EstatusMuestra, "PENDIENTE", "RECIBIDA", "EN_ANALISIS", "PROCESADA", "RECHAZADA")
	names(catalogos.Resultados, "POSITIVO", "NEGATIVO", "SOSPECHOSO", "NO_CONCLUYENTE")
	names(catalogos.TiposUsuario, "Administrador", "Responsable de laboratorio", "Recepcionista", "Coordinador", "MVZ autorizado")
	names(catalogos.TiposMuestra, "Sangre completa", "Suero", "Leche", "Tejido", "Hisopo nasal")
	names(catalogos.Especies, "Bovino", "Caprino", "Ovino", "Porcino")
	names(catalogos.Razas, "Holstein", "Suizo americano", "Angus", "Saanen")
	names(catalogos.Pruebas, "Tarjeta al 8%", "Rivanol", "Fijación de complemento", "ELISA", "PCR")
	names(catalogos.Estados, "Durango", "Coahuila")
	names(catalogos.Municipios, "Durango", "Gómez Palacio", "Lerdo", "Torreón")

	s.municipioEstado = map[int64]int64{1: 1, 2: 1, 3: 1, 4: 2}
}

// RunInTx no abre nada: cada operación del Store ya es atómica.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var _ storage.TxRunner = (*Store)(nil)

func (s *Store) nextID(table string) int64 {
	s.lastID[table]++
	return s.lastID[table]
}

func (s *Store) catalogName(c catalogos.Catalogo, id int64) (string, bool) {
	for _, it := range s.catalogos[c] {
		if it.ID == id {
			return it.Nombre, true
		}
	}
	return "", false
}

func (s *Store) catalogHas(c catalogos.Catalogo, id int64) bool {
	_, ok := s.catalogName(c, id)
	return ok
}

func (s *Store) catalogNamePtr(c catalogos.Catalogo, id *int64) *string {
	if id == nil {
		return nil
	}
	if n, ok := s.catalogName(c, *id); ok {
		return &n
	}
	return nil
}

// NextNumeroCaso implementa casos.NumberGenerator con un contador por año.
func (s *Store) NextNumeroCaso(ctx context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	year := s.now().Year()
	s.casosPorAnio[year]++
	return fmt.Sprintf("CASO-%d-%05d", year, s.casosPorAnio[year]), nil
}

// helpers de comparación

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func ptrContainsFold(s *string, sub string) bool {
	return s != nil && containsFold(*s, sub)
}

func eqInt64(p *int64, v int64) bool {
	return p != nil && *p == v
}

func inRange(d *dates.Date, desde, hasta *dates.Date) bool {
	if desde == nil && hasta == nil {
		return true
	}
	if d == nil {
		return false
	}
	if desde != nil && d.Before(*desde) {
		return false
	}
	if hasta != nil && d.After(*hasta) {
		return false
	}
	return true
}

func limit[T any](items []T, n int) []T {
	if n > 0 && len(items) > n {
		return items[:n]
	}
	return items
}

// sortDesc ordena por id descendente.
func sortDesc[T any](items []T, id func(T) int64) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) > id(items[j]) })
}

// conversiones para aplicar storage.Changes sobre los registros

func asString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case *string:
		if x != nil {
			return *x
		}
	}
	return ""
}

func asStringPtr(v any) *string {
	switch x := v.(type) {
	case string:
		return &x
	case *string:
		return x
	}
	return nil
}

func asInt64(v any) int64 {
	if p := asInt64Ptr(v); p != nil {
		return *p
	}
	return 0
}

func asInt64Ptr(v any) *int64 {
	switch x := v.(type) {
	case int64:
		return &x
	case *int64:
		return x
	case int:
		n := int64(x)
		return &n
	}
	return nil
}

func asIntPtr(v any) *int {
	switch x := v.(type) {
	case int:
		return &x
	case *int:
		return x
	case int64:
		n := int(x)
		return &n
	}
	return nil
}

func asBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case *bool:
		return x != nil && *x
	}
	return false
}

func asDatePtr(v any) *dates.Date {
	switch x := v.(type) {
	case dates.Date:
		return &x
	case *dates.Date:
		return x
	}
	return nil
}

func asTimePtr(v any) *time.Time {
	switch x := v.(type) {
	case time.Time:
		return &x
	case *time.Time:
		return x
	}
	return nil
}

func asBytes(v any) []byte {
	switch x := v.(type) {
	case []byte:
		return x
	case json.RawMessage:
		return x
	case string:
		return []byte(x)
	}
	return nil
}

func unknownColumn(table, col string) error {
	return fmt.Errorf("memory: columna %q no actualizable en %s", col, table)
}

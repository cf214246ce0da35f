package propietarios

import (
	"net/http"
	"time"

	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/propietarios", func(pr chi.Router) {
		pr.Post("/", createHandler(svc))
		pr.Get("/", listHandler(svc))
		pr.Get("/por-curp", getByCURPHandler(svc))

		pr.Get("/{id}", getHandler(svc))
		pr.Put("/{id}", updateHandler(svc))
		pr.Delete("/{id}", deleteHandler(svc))
		pr.Patch("/{id}/desactivar", setActivoHandler(svc, false))
		pr.Patch("/{id}/reactivar", setActivoHandler(svc, true))
	})
}

// propietarioRequest sirve para POST y PUT. "correo" es alias de "email".
type propietarioRequest struct {
	Nombre          *string `json:"nombre"`
	ApellidoPaterno *string `json:"apellido_paterno"`
	ApellidoMaterno *string `json:"apellido_materno"`
	CURP            *string `json:"curp"`
	RFC             *string `json:"rfc"`
	Telefono        *string `json:"telefono"`
	Email           *string `json:"email"`
	Correo          *string `json:"correo"`
	Estatus         *string `json:"estatus" enums:"ACTIVO,FINADO"`
	Activo          *bool   `json:"activo"`
}

func (req propietarioRequest) email() *string {
	if req.Email != nil {
		return req.Email
	}
	return req.Correo
}

type propietarioResponse struct {
	IDPropietario   int64     `json:"id_propietario"`
	Nombre          string    `json:"nombre"`
	ApellidoPaterno string    `json:"apellido_paterno"`
	ApellidoMaterno string    `json:"apellido_materno"`
	NombreCompleto  string    `json:"nombre_completo"`
	CURP            *string   `json:"curp"`
	RFC             *string   `json:"rfc"`
	Telefono        *string   `json:"telefono"`
	Email           *string   `json:"email"`
	Correo          *string   `json:"correo"`
	Estatus         string    `json:"estatus"`
	Activo          bool      `json:"activo"`
	FechaRegistro   time.Time `json:"fecha_registro"`
}

type createdResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	IDPropietario int64  `json:"id_propietario"`
}

func toResponse(p Propietario) propietarioResponse {
	// el nombre se guarda completo; los apellidos no se separan
	return propietarioResponse{
		IDPropietario:  p.ID,
		Nombre:         p.Nombre,
		NombreCompleto: p.Nombre,
		CURP:           p.CURP,
		RFC:            p.RFC,
		Telefono:       p.Telefono,
		Email:          p.Email,
		Correo:         p.Email,
		Estatus:        p.Estatus,
		Activo:         p.Activo(),
		FechaRegistro:  p.FechaRegistro,
	}
}

// @Summary Crear propietario
// @Description Registra un propietario. La CURP es única; si se repite responde 400.
// @Tags propietarios
// @Accept json
// @Produce json
// @Param payload body propietarioRequest true "Datos del propietario"
// @Success 201 {object} createdResponse
// @Failure 400 {object} httpjson.Detail "Ya existe un propietario con ese CURP / validación"
// @Router /api/propietarios [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req propietarioRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		id, err := svc.Create(r.Context(), CreateInput{
			Nombre:          normalizeName(req.Nombre),
			ApellidoPaterno: req.ApellidoPaterno,
			ApellidoMaterno: req.ApellidoMaterno,
			CURP:            req.CURP,
			RFC:             req.RFC,
			Telefono:        req.Telefono,
			Email:           req.email(),
			Estatus:         req.Estatus,
			Activo:          req.Activo,
		})
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		httpjson.WriteJSON(w, http.StatusCreated, createdResponse{
			Success:       true,
			Message:       "Propietario creado exitosamente",
			IDPropietario: id,
		})
	}
}

func normalizeName(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// @Summary Listar propietarios
// @Tags propietarios
// @Produce json
// @Param curp query string false "Subcadena de CURP"
// @Param nombre query string false "Subcadena del nombre"
// @Param upp query string false "Subcadena de la clave de alguna de sus UPP"
// @Param estatus query string false "ACTIVO o FINADO"
// @Param activo query bool false "Alternativa a estatus"
// @Param limit query int false "1..500 (100 por defecto)"
// @Success 200 {array} propietarioResponse
// @Router /api/propietarios [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := httpjson.NewQuery(r)
		f := ListFilter{
			CURP:    q.String("curp"),
			Nombre:  q.String("nombre"),
			UPP:     q.String("upp"),
			Estatus: q.String("estatus"),
			Limit:   q.Limit(httpjson.DefaultLimit, httpjson.MaxLimit),
		}
		if activo := q.Bool("activo"); activo != nil && f.Estatus == "" {
			f.Estatus = EstatusFinado
			if *activo {
				f.Estatus = EstatusActivo
			}
		}
		if err := q.Err(); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		out := make([]propietarioResponse, 0, len(items))
		for _, p := range items {
			out = append(out, toResponse(p))
		}
		httpjson.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Buscar propietario por CURP
// @Tags propietarios
// @Produce json
// @Param curp query string true "CURP exacta"
// @Success 200 {object} propietarioResponse
// @Failure 400 {object} httpjson.Detail "CURP requerida"
// @Failure 404 {object} httpjson.Detail "Propietario no encontrado"
// @Router /api/propietarios/por-curp [get]
func getByCURPHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.GetByCURP(r.Context(), r.URL.Query().Get("curp"))
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, toResponse(p))
	}
}

// @Summary Obtener propietario
// @Tags propietarios
// @Produce json
// @Param id path int true "ID del propietario"
// @Success 200 {object} propietarioResponse
// @Failure 404 {object} httpjson.Detail "Propietario no encontrado"
// @Router /api/propietarios/{id} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		p, err := svc.Get(r.Context(), id)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, toResponse(p))
	}
}

// @Summary Actualizar propietario
// @Description Actualización parcial: solo se modifican los campos enviados.
// @Tags propietarios
// @Accept json
// @Produce json
// @Param id path int true "ID del propietario"
// @Param payload body propietarioRequest true "Campos a modificar"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "Ya existe otro propietario con ese CURP / No hay campos para actualizar"
// @Failure 404 {object} httpjson.Detail "Propietario no encontrado"
// @Router /api/propietarios/{id} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		var req propietarioRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		err = svc.Update(r.Context(), id, UpdateInput{
			Nombre:          req.Nombre,
			ApellidoPaterno: req.ApellidoPaterno,
			ApellidoMaterno: req.ApellidoMaterno,
			CURP:            req.CURP,
			RFC:             req.RFC,
			Telefono:        req.Telefono,
			Email:           req.email(),
			Estatus:         req.Estatus,
			Activo:          req.Activo,
		})
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Propietario actualizado exitosamente"))
	}
}

// @Summary Desactivar / reactivar propietario
// @Description desactivar marca FINADO; reactivar marca ACTIVO.
// @Tags propietarios
// @Produce json
// @Param id path int true "ID del propietario"
// @Success 200 {object} httpjson.Message
// @Failure 404 {object} httpjson.Detail "Propietario no encontrado"
// @Router /api/propietarios/{id}/desactivar [patch]
// @Router /api/propietarios/{id}/reactivar [patch]
func setActivoHandler(svc *Service, activo bool) http.HandlerFunc {
	msg := "Propietario desactivado exitosamente"
	if activo {
		msg = "Propietario reactivado exitosamente"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		if err := svc.SetActivo(r.Context(), id, activo); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK(msg))
	}
}

// @Summary Eliminar propietario
// @Tags propietarios
// @Produce json
// @Param id path int true "ID del propietario"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No se puede eliminar: el propietario tiene registros relacionados"
// @Failure 404 {object} httpjson.Detail "Propietario no encontrado"
// @Router /api/propietarios/{id} [delete]
func deleteHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		if err := svc.Delete(r.Context(), id); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Propietario eliminado permanentemente"))
	}
}

package upp

import (
	"net/http"
	"time"

	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/upp", func(ur chi.Router) {
		ur.Post("/", createHandler(svc))
		ur.Get("/", listHandler(svc))
		ur.Get("/por-clave", getByClaveHandler(svc))

		ur.Get("/{id}", getHandler(svc))
		ur.Put("/{id}", updateHandler(svc))
		ur.Delete("/{id}", deleteHandler(svc))
		ur.Patch("/{id}/dar-baja", setEstatusHandler(svc, false))
		ur.Patch("/{id}/reactivar", setEstatusHandler(svc, true))
	})
}

type uppRequest struct {
	ClaveUPP         *string `json:"clave_upp"`
	IDPropietario    *int64  `json:"id_propietario"`
	IDMunicipio      *int64  `json:"id_municipio"`
	Municipio        *string `json:"municipio"`
	Localidad        *string `json:"localidad"`
	Direccion        *string `json:"direccion"`
	TelefonoContacto *string `json:"telefono_contacto"`
	Estatus          *bool   `json:"estatus"`
}

type uppResponse struct {
	IDUPP            int64     `json:"id_upp"`
	ClaveUPP         string    `json:"clave_upp"`
	IDPropietario    int64     `json:"id_propietario"`
	Propietario      string    `json:"propietario"`
	IDMunicipio      *int64    `json:"id_municipio"`
	Municipio        *string   `json:"municipio"`
	Localidad        *string   `json:"localidad"`
	Direccion        *string   `json:"direccion"`
	NombrePredio     string    `json:"nombre_predio"`
	TelefonoContacto *string   `json:"telefono_contacto"`
	Estatus          bool      `json:"estatus"`
	FechaRegistro    time.Time `json:"fecha_registro"`
	Estado           *string   `json:"estado"`
}

type createdResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	IDUPP   int64  `json:"id_upp"`
}

func toResponse(v View) uppResponse {
	predio := v.Clave
	if v.Direccion != nil {
		predio = *v.Direccion
	}
	return uppResponse{
		IDUPP:            v.ID,
		ClaveUPP:         v.Clave,
		IDPropietario:    v.IDPropietario,
		Propietario:      v.Propietario,
		IDMunicipio:      v.IDMunicipio,
		Municipio:        v.Municipio,
		Localidad:        v.Localidad,
		Direccion:        v.Direccion,
		NombrePredio:     predio,
		TelefonoContacto: v.TelefonoContacto,
		Estatus:          v.Estatus,
		FechaRegistro:    v.FechaRegistro,
		Estado:           v.Estado,
	}
}

// @Summary Crear UPP
// @Tags upp
// @Accept json
// @Produce json
// @Param payload body uppRequest true "clave_upp e id_propietario son requeridos"
// @Success 201 {object} createdResponse
// @Failure 400 {object} httpjson.Detail "Ya existe una UPP con esa clave / validación"
// @Failure 404 {object} httpjson.Detail "El propietario especificado no existe"
// @Router /api/upp [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req uppRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		in := CreateInput{
			IDMunicipio:      req.IDMunicipio,
			Municipio:        req.Municipio,
			Localidad:        req.Localidad,
			Direccion:        req.Direccion,
			TelefonoContacto: req.TelefonoContacto,
			Estatus:          req.Estatus,
		}
		if req.ClaveUPP != nil {
			in.Clave = *req.ClaveUPP
		}
		if req.IDPropietario != nil {
			in.IDPropietario = *req.IDPropietario
		}

		id, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusCreated, createdResponse{
			Success: true,
			Message: "UPP creada exitosamente",
			IDUPP:   id,
		})
	}
}

// @Summary Listar / buscar UPP
// @Description Ordenadas por clave. Por defecto solo las activas.
// @Tags upp
// @Produce json
// @Param search query string false "Subcadena de la clave o del nombre del propietario"
// @Param solo_activas query bool false "true por defecto"
// @Param limit query int false "1..50 (15 por defecto)"
// @Success 200 {array} uppResponse
// @Router /api/upp [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := httpjson.NewQuery(r)
		f := ListFilter{
			Search:      q.String("search"),
			SoloActivas: true,
			Limit:       q.Limit(DefaultLimit, MaxLimit),
		}
		if v := q.Bool("solo_activas"); v != nil {
			f.SoloActivas = *v
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
		out := make([]uppResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toResponse(v))
		}
		httpjson.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Buscar UPP por clave
// @Tags upp
// @Produce json
// @Param clave query string true "Clave UPP (sin distinguir mayúsculas)"
// @Success 200 {object} uppResponse
// @Failure 404 {object} httpjson.Detail "UPP no encontrada."
// @Router /api/upp/por-clave [get]
func getByClaveHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v, err := svc.GetByClave(r.Context(), r.URL.Query().Get("clave"))
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, toResponse(v))
	}
}

// @Summary Obtener UPP
// @Tags upp
// @Produce json
// @Param id path int true "ID de la UPP"
// @Success 200 {object} uppResponse
// @Failure 404 {object} httpjson.Detail "UPP no encontrada"
// @Router /api/upp/{id} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		v, err := svc.Get(r.Context(), id)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, toResponse(v))
	}
}

// @Summary Actualizar UPP
// @Tags upp
// @Accept json
// @Produce json
// @Param id path int true "ID de la UPP"
// @Param payload body uppRequest true "Campos a modificar"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "Ya existe otra UPP con esa clave / No hay campos para actualizar"
// @Failure 404 {object} httpjson.Detail "UPP no encontrada"
// @Router /api/upp/{id} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		var req uppRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		err = svc.Update(r.Context(), id, UpdateInput{
			Clave:            req.ClaveUPP,
			IDPropietario:    req.IDPropietario,
			IDMunicipio:      req.IDMunicipio,
			Municipio:        req.Municipio,
			Localidad:        req.Localidad,
			Direccion:        req.Direccion,
			TelefonoContacto: req.TelefonoContacto,
			Estatus:          req.Estatus,
		})
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("UPP actualizada exitosamente"))
	}
}

// @Summary Dar de baja / reactivar UPP
// @Tags upp
// @Produce json
// @Param id path int true "ID de la UPP"
// @Success 200 {object} httpjson.Message
// @Failure 404 {object} httpjson.Detail "UPP no encontrada"
// @Router /api/upp/{id}/dar-baja [patch]
// @Router /api/upp/{id}/reactivar [patch]
func setEstatusHandler(svc *Service, activa bool) http.HandlerFunc {
	msg := "UPP dada de baja exitosamente"
	if activa {
		msg = "UPP reactivada exitosamente"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		if err := svc.SetEstatus(r.Context(), id, activa); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK(msg))
	}
}

// @Summary Eliminar UPP
// @Tags upp
// @Produce json
// @Param id path int true "ID de la UPP"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No se puede eliminar: la UPP tiene registros relacionados"
// @Failure 404 {object} httpjson.Detail "UPP no encontrada"
// @Router /api/upp/{id} [delete]
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
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("UPP eliminada exitosamente"))
	}
}

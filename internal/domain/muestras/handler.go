package muestras

import (
	"net/http"
	"time"

	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/muestras", func(mr chi.Router) {
		mr.Post("/", createHandler(svc))
		mr.Get("/", listHandler(svc))

		mr.Get("/{id}", getHandler(svc))
		mr.Put("/{id}", updateHandler(svc))
		mr.Delete("/{id}", deleteHandler(svc))
	})
}

type muestraRequest struct {
	IDCaso           *int64      `json:"id_caso"`
	CodigoMuestra    *string     `json:"codigo_muestra"`
	NumeroArete      *string     `json:"numero_arete"`
	IDTipoMuestra    *int64      `json:"id_tipo_muestra"`
	TipoMuestra      *string     `json:"tipo_muestra"`
	IDEstatusMuestra *int64      `json:"id_estatus_muestra"`
	IDEspecie        *int64      `json:"id_especie"`
	IDRaza           *int64      `json:"id_raza"`
	Especie          *string     `json:"especie"`
	Sexo             *string     `json:"sexo"`
	Edad             *string     `json:"edad"`
	FechaToma        *dates.Date `json:"fecha_toma" swaggertype:"string" example:"2024-03-14"`
	Observaciones    *string     `json:"observaciones"`
}

type muestraResponse struct {
	IDMuestra         int64       `json:"id_muestra"`
	FolioMuestra      string      `json:"folio_muestra"`
	IDCaso            int64       `json:"id_caso"`
	NumeroCaso        string      `json:"numero_caso"`
	CodigoMuestra     string      `json:"codigo_muestra"`
	NumeroArete       *string     `json:"numero_arete"`
	ClaveUPP          string      `json:"clave_upp"`
	NombrePropietario string      `json:"nombre_propietario"`
	IDTipoMuestra     *int64      `json:"id_tipo_muestra"`
	TipoMuestra       *string     `json:"tipo_muestra"`
	IDEstatusMuestra  int64       `json:"id_estatus_muestra"`
	EstatusMuestra    string      `json:"estatus_muestra"`
	Estatus           string      `json:"estatus"`
	IDEspecie         *int64      `json:"id_especie"`
	IDRaza            *int64      `json:"id_raza"`
	Especie           *string     `json:"especie"`
	EspecieTexto      *string     `json:"especie_texto"`
	Raza              *string     `json:"raza"`
	Sexo              *string     `json:"sexo"`
	Edad              *string     `json:"edad"`
	FechaToma         *dates.Date `json:"fecha_toma" swaggertype:"string"`
	FechaRecepcion    time.Time   `json:"fecha_recepcion"`
	Observaciones     *string     `json:"observaciones"`
	CreatedAt         time.Time   `json:"created_at"`
	UpdatedAt         *time.Time  `json:"updated_at"`
}

type createdResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	IDMuestra int64  `json:"id_muestra"`
}

func toResponse(v View) muestraResponse {
	especie := v.EspecieNombre
	if especie == nil {
		especie = v.Especie
	}
	return muestraResponse{
		IDMuestra:         v.ID,
		FolioMuestra:      v.CodigoMuestra,
		IDCaso:            v.IDCaso,
		NumeroCaso:        v.NumeroCaso,
		CodigoMuestra:     v.CodigoMuestra,
		NumeroArete:       v.NumeroArete,
		ClaveUPP:          v.ClaveUPP,
		NombrePropietario: v.NombrePropietario,
		IDTipoMuestra:     v.IDTipoMuestra,
		TipoMuestra:       v.TipoMuestra,
		IDEstatusMuestra:  v.IDEstatusMuestra,
		EstatusMuestra:    v.EstatusMuestra,
		Estatus:           v.EstatusMuestra,
		IDEspecie:         v.IDEspecie,
		IDRaza:            v.IDRaza,
		Especie:           especie,
		EspecieTexto:      v.Especie,
		Raza:              v.Raza,
		Sexo:              v.Sexo,
		Edad:              v.Edad,
		FechaToma:         v.FechaToma,
		FechaRecepcion:    v.CreatedAt,
		Observaciones:     v.Observaciones,
		CreatedAt:         v.CreatedAt,
		UpdatedAt:         v.UpdatedAt,
	}
}

// @Summary Crear muestra
// @Description Estatus por defecto PENDIENTE. tipo_muestra se busca por subcadena de la descripción.
// @Tags muestras
// @Accept json
// @Produce json
// @Param payload body muestraRequest true "id_caso y codigo_muestra son requeridos"
// @Success 201 {object} createdResponse
// @Failure 400 {object} httpjson.Detail
// @Failure 404 {object} httpjson.Detail "El caso especificado no existe"
// @Router /api/muestras [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req muestraRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		in := CreateInput{
			NumeroArete:      req.NumeroArete,
			IDTipoMuestra:    req.IDTipoMuestra,
			TipoMuestra:      req.TipoMuestra,
			IDEstatusMuestra: req.IDEstatusMuestra,
			IDEspecie:        req.IDEspecie,
			IDRaza:           req.IDRaza,
			Especie:          req.Especie,
			Sexo:             req.Sexo,
			Edad:             req.Edad,
			FechaToma:        req.FechaToma,
			Observaciones:    req.Observaciones,
		}
		if req.IDCaso != nil {
			in.IDCaso = *req.IDCaso
		}
		if req.CodigoMuestra != nil {
			in.CodigoMuestra = *req.CodigoMuestra
		}

		id, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusCreated, createdResponse{
			Success:   true,
			Message:   "Muestra creada exitosamente",
			IDMuestra: id,
		})
	}
}

// @Summary Listar muestras
// @Tags muestras
// @Produce json
// @Param id_caso query int false "ID del caso"
// @Param codigo_muestra query string false "Subcadena"
// @Param numero_arete query string false "Subcadena"
// @Param id_especie query int false "ID de especie"
// @Param id_tipo_muestra query int false "ID de tipo de muestra"
// @Param id_estatus_muestra query int false "ID de estatus"
// @Param estatus query string false "Subcadena del estatus (si no viene id_estatus_muestra)"
// @Param fecha_desde query string false "fecha_toma >= YYYY-MM-DD"
// @Param fecha_hasta query string false "fecha_toma <= YYYY-MM-DD"
// @Param limit query int false "1..500 (100 por defecto)"
// @Success 200 {array} muestraResponse
// @Router /api/muestras [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := httpjson.NewQuery(r)
		f := ListFilter{
			IDCaso:           q.Int64("id_caso"),
			CodigoMuestra:    q.String("codigo_muestra"),
			NumeroArete:      q.String("numero_arete"),
			IDEspecie:        q.Int64("id_especie"),
			IDTipoMuestra:    q.Int64("id_tipo_muestra"),
			IDEstatusMuestra: q.Int64("id_estatus_muestra"),
			Estatus:          q.String("estatus"),
			FechaDesde:       q.Date("fecha_desde"),
			FechaHasta:       q.Date("fecha_hasta"),
			Limit:            q.Limit(httpjson.DefaultLimit, httpjson.MaxLimit),
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
		out := make([]muestraResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toResponse(v))
		}
		httpjson.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener muestra
// @Tags muestras
// @Produce json
// @Param id path int true "ID de la muestra"
// @Success 200 {object} muestraResponse
// @Failure 404 {object} httpjson.Detail "Muestra no encontrada"
// @Router /api/muestras/{id} [get]
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

// @Summary Actualizar muestra
// @Tags muestras
// @Accept json
// @Produce json
// @Param id path int true "ID de la muestra"
// @Param payload body muestraRequest true "Campos a modificar"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No hay campos para actualizar"
// @Failure 404 {object} httpjson.Detail "Muestra no encontrada"
// @Router /api/muestras/{id} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		var req muestraRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		err = svc.Update(r.Context(), id, UpdateInput{
			IDCaso:           req.IDCaso,
			CodigoMuestra:    req.CodigoMuestra,
			NumeroArete:      req.NumeroArete,
			IDTipoMuestra:    req.IDTipoMuestra,
			TipoMuestra:      req.TipoMuestra,
			IDEstatusMuestra: req.IDEstatusMuestra,
			IDEspecie:        req.IDEspecie,
			IDRaza:           req.IDRaza,
			Especie:          req.Especie,
			Sexo:             req.Sexo,
			Edad:             req.Edad,
			FechaToma:        req.FechaToma,
			Observaciones:    req.Observaciones,
		})
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Muestra actualizada exitosamente"))
	}
}

// @Summary Eliminar muestra
// @Tags muestras
// @Produce json
// @Param id path int true "ID de la muestra"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No se puede eliminar: la muestra tiene registros relacionados"
// @Failure 404 {object} httpjson.Detail "Muestra no encontrada"
// @Router /api/muestras/{id} [delete]
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
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Muestra eliminada exitosamente"))
	}
}

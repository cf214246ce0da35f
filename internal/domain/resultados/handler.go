package resultados

import (
	"net/http"
	"time"

	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/resultados", func(rr chi.Router) {
		rr.Post("/", createHandler(svc))
		rr.Get("/", listHandler(svc))

		rr.Get("/{id}", getHandler(svc))
		rr.Put("/{id}", updateHandler(svc))
		rr.Delete("/{id}", deleteHandler(svc))
	})
}

type resultadoRequest struct {
	IDMuestra       *int64      `json:"id_muestra"`
	IDPrueba        *int64      `json:"id_prueba"`
	IDResultado     *int64      `json:"id_resultado"`
	Resultado       *string     `json:"resultado" example:"NEGATIVO"`
	Valor           *string     `json:"valor"`
	Observaciones   *string     `json:"observaciones"`
	FechaResultado  *dates.Date `json:"fecha_resultado" swaggertype:"string" example:"2024-03-20"`
	IDUsuarioValida *int64      `json:"id_usuario_valida"`
}

type resultadoResponse struct {
	IDResultadoLab  int64      `json:"id_resultado_lab"`
	IDResultado     int64      `json:"id_resultado"`
	IDMuestra       int64      `json:"id_muestra"`
	CodigoMuestra   string     `json:"codigo_muestra"`
	IDPrueba        int64      `json:"id_prueba"`
	PruebaNombre    string     `json:"prueba_nombre"`
	PruebaRealizada string     `json:"prueba_realizada"`
	IDResultadoCat  *int64     `json:"id_resultado_cat"`
	Resultado       *string    `json:"resultado"`
	ResultadoNombre *string    `json:"resultado_nombre"`
	Valor           *string    `json:"valor"`
	Observaciones   *string    `json:"observaciones"`
	FechaResultado  dates.Date `json:"fecha_resultado" swaggertype:"string"`
	FechaAnalisis   dates.Date `json:"fecha_analisis" swaggertype:"string"`
	IDUsuarioValida *int64     `json:"id_usuario_valida"`
	UsuarioValida   *string    `json:"usuario_valida"`
	CreatedAt       time.Time  `json:"created_at"`
	TipoMuestra     *string    `json:"tipo_muestra"`
	IDCaso          int64      `json:"id_caso"`
	NumeroCaso      string     `json:"numero_caso"`
	ClaveUPP        string     `json:"clave_upp"`
	Propietario     string     `json:"propietario"`
}

type createdResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	IDResultadoLab int64  `json:"id_resultado_lab"`
	IDResultado    int64  `json:"id_resultado"`
}

func toResponse(v View) resultadoResponse {
	return resultadoResponse{
		IDResultadoLab:  v.ID,
		IDResultado:     v.ID,
		IDMuestra:       v.IDMuestra,
		CodigoMuestra:   v.CodigoMuestra,
		IDPrueba:        v.IDPrueba,
		PruebaNombre:    v.PruebaNombre,
		PruebaRealizada: v.PruebaNombre,
		IDResultadoCat:  v.IDResultado,
		Resultado:       v.ResultadoNombre,
		ResultadoNombre: v.ResultadoNombre,
		Valor:           v.Valor,
		Observaciones:   v.Observaciones,
		FechaResultado:  v.FechaResultado,
		FechaAnalisis:   v.FechaResultado,
		IDUsuarioValida: v.IDUsuarioValida,
		UsuarioValida:   v.UsuarioValida,
		CreatedAt:       v.CreatedAt,
		TipoMuestra:     v.TipoMuestra,
		IDCaso:          v.IDCaso,
		NumeroCaso:      v.NumeroCaso,
		ClaveUPP:        v.ClaveUPP,
		Propietario:     v.Propietario,
	}
}

// @Summary Registrar resultado de laboratorio
// @Description resultado se busca por nombre exacto en el catálogo (POSITIVO, NEGATIVO...).
// @Tags resultados
// @Accept json
// @Produce json
// @Param payload body resultadoRequest true "id_muestra, id_prueba y fecha_resultado son requeridos"
// @Success 201 {object} createdResponse
// @Failure 400 {object} httpjson.Detail
// @Failure 404 {object} httpjson.Detail "La muestra especificada no existe"
// @Router /api/resultados [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req resultadoRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		in := CreateInput{
			IDResultado:     req.IDResultado,
			Resultado:       req.Resultado,
			Valor:           req.Valor,
			Observaciones:   req.Observaciones,
			FechaResultado:  req.FechaResultado,
			IDUsuarioValida: req.IDUsuarioValida,
		}
		if req.IDMuestra != nil {
			in.IDMuestra = *req.IDMuestra
		}
		if req.IDPrueba != nil {
			in.IDPrueba = *req.IDPrueba
		}

		id, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusCreated, createdResponse{
			Success:        true,
			Message:        "Resultado creado exitosamente",
			IDResultadoLab: id,
			IDResultado:    id,
		})
	}
}

// @Summary Listar resultados
// @Tags resultados
// @Produce json
// @Param id_muestra query int false "ID de la muestra"
// @Param id_caso query int false "ID del caso"
// @Param numero_caso query string false "Subcadena"
// @Param id_prueba query int false "ID de la prueba"
// @Param id_resultado query int false "ID en cat_resultado"
// @Param resultado query string false "Nombre (si no viene id_resultado)"
// @Param fecha_desde query string false "fecha_resultado >= YYYY-MM-DD"
// @Param fecha_hasta query string false "fecha_resultado <= YYYY-MM-DD"
// @Param limit query int false "1..500 (100 por defecto)"
// @Success 200 {array} resultadoResponse
// @Router /api/resultados [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := httpjson.NewQuery(r)
		f := ListFilter{
			IDMuestra:   q.Int64("id_muestra"),
			IDCaso:      q.Int64("id_caso"),
			NumeroCaso:  q.String("numero_caso"),
			IDPrueba:    q.Int64("id_prueba"),
			IDResultado: q.Int64("id_resultado"),
			Resultado:   q.String("resultado"),
			FechaDesde:  q.Date("fecha_desde"),
			FechaHasta:  q.Date("fecha_hasta"),
			Limit:       q.Limit(httpjson.DefaultLimit, httpjson.MaxLimit),
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
		out := make([]resultadoResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toResponse(v))
		}
		httpjson.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener resultado
// @Tags resultados
// @Produce json
// @Param id path int true "id_resultado_lab"
// @Success 200 {object} resultadoResponse
// @Failure 404 {object} httpjson.Detail "Resultado no encontrado"
// @Router /api/resultados/{id} [get]
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

// @Summary Actualizar resultado
// @Tags resultados
// @Accept json
// @Produce json
// @Param id path int true "id_resultado_lab"
// @Param payload body resultadoRequest true "Campos a modificar"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No hay campos para actualizar"
// @Failure 404 {object} httpjson.Detail "Resultado no encontrado"
// @Router /api/resultados/{id} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		var req resultadoRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		err = svc.Update(r.Context(), id, UpdateInput{
			IDMuestra:       req.IDMuestra,
			IDPrueba:        req.IDPrueba,
			IDResultado:     req.IDResultado,
			Resultado:       req.Resultado,
			Valor:           req.Valor,
			Observaciones:   req.Observaciones,
			FechaResultado:  req.FechaResultado,
			IDUsuarioValida: req.IDUsuarioValida,
		})
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Resultado actualizado exitosamente"))
	}
}

// @Summary Eliminar resultado
// @Tags resultados
// @Produce json
// @Param id path int true "id_resultado_lab"
// @Success 200 {object} httpjson.Message
// @Failure 404 {object} httpjson.Detail "Resultado no encontrado"
// @Router /api/resultados/{id} [delete]
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
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Resultado eliminado exitosamente"))
	}
}

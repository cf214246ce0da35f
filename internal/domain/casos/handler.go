package casos

import (
	"fmt"
	"net/http"
	"time"

	"sistpec-api/internal/middleware"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/casos", func(cr chi.Router) {
		cr.Post("/", createHandler(svc))
		cr.Get("/", listHandler(svc))
		cr.Get("/exportar", exportHandler(svc))

		cr.Get("/{id}", getHandler(svc))
		cr.Put("/{id}", updateHandler(svc))
		cr.Delete("/{id}", deleteHandler(svc))
	})
}

type casoRequest struct {
	IDUPP                *int64      `json:"id_upp"`
	IDMVZ                *int64      `json:"id_mvz"`
	IDUsuarioRecepciona  *int64      `json:"id_usuario_recepciona"`
	IDEstatusCaso        *int64      `json:"id_estatus_caso"`
	Estatus              *string     `json:"estatus"`
	FechaRecepcion       *dates.Date `json:"fecha_recepcion" swaggertype:"string" example:"2024-03-15"`
	SemanaEpidemiologica *int        `json:"semana_epidemiologica"`
	AnioEpidemiologico   *int        `json:"anio_epidemiologico"`
	Observaciones        *string     `json:"observaciones"`
	IDUsuarioCrea        *int64      `json:"id_usuario_crea"`
}

type casoResponse struct {
	IDCaso               int64      `json:"id_caso"`
	NumeroCaso           string     `json:"numero_caso"`
	IDUPP                int64      `json:"id_upp"`
	ClaveUPP             string     `json:"clave_upp"`
	IDMVZ                *int64     `json:"id_mvz"`
	MVZ                  *string    `json:"mvz"`
	IDUsuarioRecepciona  *int64     `json:"id_usuario_recepciona"`
	UsuarioRecepciona    *string    `json:"usuario_recepciona"`
	IDEstatusCaso        int64      `json:"id_estatus_caso"`
	EstatusCaso          string     `json:"estatus_caso"`
	Estatus              string     `json:"estatus"`
	FechaRecepcion       dates.Date `json:"fecha_recepcion" swaggertype:"string"`
	SemanaEpidemiologica *int       `json:"semana_epidemiologica"`
	AnioEpidemiologico   *int       `json:"anio_epidemiologico"`
	Observaciones        *string    `json:"observaciones"`
	Municipio            *string    `json:"municipio"`
	Localidad            *string    `json:"localidad"`
	Propietario          string     `json:"propietario"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            *time.Time `json:"updated_at"`
}

type createdResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	IDCaso        int64  `json:"id_caso"`
	NumeroCaso    string `json:"numero_caso"`
	IDEstatusCaso int64  `json:"id_estatus_caso"`
	Estatus       string `json:"estatus"`
}

func toResponse(v View) casoResponse {
	return casoResponse{
		IDCaso:               v.ID,
		NumeroCaso:           v.NumeroCaso,
		IDUPP:                v.IDUPP,
		ClaveUPP:             v.ClaveUPP,
		IDMVZ:                v.IDMVZ,
		MVZ:                  v.MVZ,
		IDUsuarioRecepciona:  v.IDUsuarioRecepciona,
		UsuarioRecepciona:    v.UsuarioRecepciona,
		IDEstatusCaso:        v.IDEstatusCaso,
		EstatusCaso:          v.EstatusCaso,
		Estatus:              v.EstatusCaso,
		FechaRecepcion:       v.FechaRecepcion,
		SemanaEpidemiologica: v.SemanaEpidemiologica,
		AnioEpidemiologico:   v.AnioEpidemiologico,
		Observaciones:        v.Observaciones,
		Municipio:            v.Municipio,
		Localidad:            v.Localidad,
		Propietario:          v.Propietario,
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
	}
}

// listFilter lee los filtros comunes de GET / y GET /exportar.
func listFilter(r *http.Request) (ListFilter, error) {
	q := httpjson.NewQuery(r)
	f := ListFilter{
		NumeroCaso:     q.String("numero_caso"),
		IDUPP:          q.Int64("id_upp"),
		ClaveUPP:       q.String("clave_upp"),
		Propietario:    q.String("propietario"),
		IDEstatusCaso:  q.Int64("id_estatus_caso"),
		Estatus:        q.String("estatus"),
		FechaRecepcion: q.Date("fecha_recepcion"),
		IDMVZ:          q.Int64("id_mvz"),
		MVZ:            q.String("mvz"),
		Semana:         q.Int("semana_epidemiologica"),
		Anio:           q.Int("anio_epidemiologico"),
		Limit:          q.Limit(httpjson.DefaultLimit, httpjson.MaxLimit),
	}
	return f, q.Err()
}

// @Summary Crear caso
// @Description Genera numero_caso (CASO-AAAA-NNNNN). Estatus por defecto ABIERTO; semana y año
// @Description epidemiológicos se calculan de fecha_recepcion (ISO-8601) si no se envían.
// @Tags casos
// @Accept json
// @Produce json
// @Param payload body casoRequest true "id_upp, fecha_recepcion e id_usuario_crea son requeridos"
// @Success 201 {object} createdResponse
// @Failure 400 {object} httpjson.Detail
// @Failure 404 {object} httpjson.Detail "La UPP especificada no existe / El usuario especificado no existe"
// @Router /api/casos [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req casoRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		in := CreateInput{
			IDMVZ:                req.IDMVZ,
			IDUsuarioRecepciona:  req.IDUsuarioRecepciona,
			IDEstatusCaso:        req.IDEstatusCaso,
			FechaRecepcion:       req.FechaRecepcion,
			SemanaEpidemiologica: req.SemanaEpidemiologica,
			AnioEpidemiologico:   req.AnioEpidemiologico,
			Observaciones:        req.Observaciones,
		}
		if req.IDUPP != nil {
			in.IDUPP = *req.IDUPP
		}
		if req.IDUsuarioCrea != nil {
			in.IDUsuarioCrea = *req.IDUsuarioCrea
		} else if claims, ok := middleware.GetClaims(r.Context()); ok {
			in.IDUsuarioCrea = claims.UserID
		}

		c, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusCreated, createdResponse{
			Success:       true,
			Message:       "Caso creado exitosamente",
			IDCaso:        c.ID,
			NumeroCaso:    c.NumeroCaso,
			IDEstatusCaso: c.IDEstatusCaso,
			Estatus:       c.Estatus,
		})
	}
}

// @Summary Listar casos
// @Tags casos
// @Produce json
// @Param numero_caso query string false "Subcadena"
// @Param id_upp query int false "ID de UPP"
// @Param clave_upp query string false "Subcadena de la clave UPP"
// @Param propietario query string false "Subcadena del nombre del propietario"
// @Param id_estatus_caso query int false "ID de estatus"
// @Param estatus query string false "Nombre del estatus (si no viene id_estatus_caso)"
// @Param fecha_recepcion query string false "YYYY-MM-DD"
// @Param id_mvz query int false "ID del MVZ"
// @Param mvz query string false "Subcadena del nombre del MVZ (si no viene id_mvz)"
// @Param semana_epidemiologica query int false "Semana"
// @Param anio_epidemiologico query int false "Año"
// @Param limit query int false "1..500 (100 por defecto)"
// @Success 200 {array} casoResponse
// @Router /api/casos [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := listFilter(r)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		items, err := svc.List(r.Context(), f)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		out := make([]casoResponse, 0, len(items))
		for _, v := range items {
			out = append(out, toResponse(v))
		}
		httpjson.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Exportar casos a Excel
// @Description Acepta los mismos filtros que el listado.
// @Tags casos
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Success 200 {file} file
// @Router /api/casos/exportar [get]
func exportHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, err := listFilter(r)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		buf, err := svc.ExportXLSX(r.Context(), f)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		name := fmt.Sprintf("casos-%s.xlsx", svc.now().Format("20060102"))
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.WriteHeader(http.StatusOK)
		_, _ = buf.WriteTo(w)
	}
}

// @Summary Obtener caso
// @Tags casos
// @Produce json
// @Param id path int true "ID del caso"
// @Success 200 {object} casoResponse
// @Failure 404 {object} httpjson.Detail "Caso no encontrado"
// @Router /api/casos/{id} [get]
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

// @Summary Actualizar caso
// @Description numero_caso no se puede modificar.
// @Tags casos
// @Accept json
// @Produce json
// @Param id path int true "ID del caso"
// @Param payload body casoRequest true "Campos a modificar"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No hay campos para actualizar"
// @Failure 404 {object} httpjson.Detail "Caso no encontrado"
// @Router /api/casos/{id} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		var req casoRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		err = svc.Update(r.Context(), id, UpdateInput{
			IDUPP:                req.IDUPP,
			IDMVZ:                req.IDMVZ,
			IDUsuarioRecepciona:  req.IDUsuarioRecepciona,
			IDEstatusCaso:        req.IDEstatusCaso,
			Estatus:              req.Estatus,
			FechaRecepcion:       req.FechaRecepcion,
			SemanaEpidemiologica: req.SemanaEpidemiologica,
			AnioEpidemiologico:   req.AnioEpidemiologico,
			Observaciones:        req.Observaciones,
		})
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Caso actualizado exitosamente"))
	}
}

// @Summary Eliminar caso
// @Tags casos
// @Produce json
// @Param id path int true "ID del caso"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No se puede eliminar: el caso tiene registros relacionados"
// @Failure 404 {object} httpjson.Detail "Caso no encontrado"
// @Router /api/casos/{id} [delete]
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
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Caso eliminado exitosamente"))
	}
}

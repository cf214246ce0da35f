package hojareporte

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"sistpec-api/internal/platform/apperr"
	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

// RegisterRoutes monta /hoja-reporte. maxUpload es el tamaño máximo del
// adjunto en bytes.
func RegisterRoutes(r chi.Router, svc *Service, maxUpload int64) {
	r.Route("/hoja-reporte", func(rr chi.Router) {
		rr.Post("/", createHandler(svc))
		rr.Get("/", listHandler(svc))

		rr.Get("/{id}", getHandler(svc))
		rr.Put("/{id}", updateHandler(svc))
		rr.Delete("/{id}", deleteHandler(svc))

		rr.Post("/{id}/archivo", uploadHandler(svc, maxUpload))
		rr.Get("/{id}/archivo", downloadHandler(svc))
	})
}

type hojaRequest struct {
	Folio         *string         `json:"folio"`
	IDCaso        *int64          `json:"id_caso"`
	PeriodoInicio *dates.Date     `json:"periodo_inicio" swaggertype:"string" example:"2024-03-01"`
	PeriodoFin    *dates.Date     `json:"periodo_fin" swaggertype:"string" example:"2024-03-31"`
	Contenido     json.RawMessage `json:"contenido" swaggertype:"object"`
	Archivo       *string         `json:"archivo"`
	IDUsuario     *int64          `json:"id_usuario"`
}

type hojaResponse struct {
	ID            int64          `json:"id"`
	IDReporte     int64          `json:"id_reporte"`
	IDHojaReporte int64          `json:"id_hoja_reporte"`
	Folio         *string        `json:"folio"`
	IDCaso        *int64         `json:"id_caso"`
	PeriodoInicio *dates.Date    `json:"periodo_inicio" swaggertype:"string"`
	PeriodoFin    *dates.Date    `json:"periodo_fin" swaggertype:"string"`
	Contenido     map[string]any `json:"contenido"`
	Archivo       *string        `json:"archivo"`
	Fecha         time.Time      `json:"fecha"`
	IDUsuario     int64          `json:"id_usuario"`
	UsuarioNombre string         `json:"usuario_nombre"`
	Usuario       string         `json:"usuario"`
	MVZ           string         `json:"mvz"`
	UPP           string         `json:"upp"`
	Obs           string         `json:"obs"`
}

type createdResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message"`
	IDReporte     int64  `json:"id_reporte"`
	IDHojaReporte int64  `json:"id_hoja_reporte"`
}

type archivoResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Archivo string `json:"archivo"`
}

func toResponse(r Reporte) hojaResponse {
	return hojaResponse{
		ID:            r.ID,
		IDReporte:     r.ID,
		IDHojaReporte: r.ID,
		Folio:         r.Folio,
		IDCaso:        r.IDCaso,
		PeriodoInicio: r.PeriodoInicio,
		PeriodoFin:    r.PeriodoFin,
		Contenido:     r.Contenido,
		Archivo:       r.Archivo,
		Fecha:         r.Fecha,
		IDUsuario:     r.IDUsuario,
		UsuarioNombre: r.UsuarioNombre,
		Usuario:       r.Usuario,
		MVZ:           r.UsuarioNombre,
	}
}

// @Summary Crear hoja de reporte
// @Tags hoja-reporte
// @Accept json
// @Produce json
// @Param payload body hojaRequest true "id_usuario es requerido; contenido debe ser un objeto"
// @Success 201 {object} createdResponse
// @Failure 400 {object} httpjson.Detail
// @Failure 404 {object} httpjson.Detail "El usuario especificado no existe"
// @Router /api/hoja-reporte [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req hojaRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		in := CreateInput{
			Folio:         req.Folio,
			IDCaso:        req.IDCaso,
			PeriodoInicio: req.PeriodoInicio,
			PeriodoFin:    req.PeriodoFin,
			Contenido:     req.Contenido,
			Archivo:       req.Archivo,
		}
		if req.IDUsuario != nil {
			in.IDUsuario = *req.IDUsuario
		}

		id, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusCreated, createdResponse{
			Success:       true,
			Message:       "Hoja de reporte creada exitosamente",
			IDReporte:     id,
			IDHojaReporte: id,
		})
	}
}

// @Summary Listar hojas de reporte
// @Tags hoja-reporte
// @Produce json
// @Param folio query string false "Subcadena"
// @Param periodo_inicio query string false "periodo_inicio >= YYYY-MM-DD"
// @Param periodo_fin query string false "periodo_fin <= YYYY-MM-DD"
// @Param id_usuario query int false "Autor"
// @Param id_caso query int false "Caso"
// @Param mvz query string false "Subcadena del nombre del autor"
// @Param fecha query string false "Día de creación"
// @Param fecha_desde query string false "YYYY-MM-DD"
// @Param fecha_hasta query string false "YYYY-MM-DD"
// @Param limit query int false "1..500 (100 por defecto)"
// @Success 200 {array} hojaResponse
// @Failure 500 {object} httpjson.Detail "El contenido de la hoja de reporte está dañado"
// @Router /api/hoja-reporte [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := httpjson.NewQuery(r)
		f := ListFilter{
			Folio:         q.String("folio"),
			PeriodoInicio: q.Date("periodo_inicio"),
			PeriodoFin:    q.Date("periodo_fin"),
			IDUsuario:     q.Int64("id_usuario"),
			IDCaso:        q.Int64("id_caso"),
			MVZ:           q.String("mvz"),
			Fecha:         q.Date("fecha"),
			FechaDesde:    q.Date("fecha_desde"),
			FechaHasta:    q.Date("fecha_hasta"),
			Limit:         q.Limit(httpjson.DefaultLimit, httpjson.MaxLimit),
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
		out := make([]hojaResponse, 0, len(items))
		for _, it := range items {
			out = append(out, toResponse(it))
		}
		httpjson.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener hoja de reporte
// @Tags hoja-reporte
// @Produce json
// @Param id path int true "id_reporte"
// @Success 200 {object} hojaResponse
// @Failure 404 {object} httpjson.Detail "Hoja de reporte no encontrada"
// @Failure 500 {object} httpjson.Detail "El contenido de la hoja de reporte está dañado"
// @Router /api/hoja-reporte/{id} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		rep, err := svc.Get(r.Context(), id)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, toResponse(rep))
	}
}

// @Summary Actualizar hoja de reporte
// @Tags hoja-reporte
// @Accept json
// @Produce json
// @Param id path int true "id_reporte"
// @Param payload body hojaRequest true "Campos a modificar"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No hay campos para actualizar"
// @Failure 404 {object} httpjson.Detail "Hoja de reporte no encontrada"
// @Router /api/hoja-reporte/{id} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		var req hojaRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		err = svc.Update(r.Context(), id, UpdateInput{
			Folio:         req.Folio,
			IDCaso:        req.IDCaso,
			PeriodoInicio: req.PeriodoInicio,
			PeriodoFin:    req.PeriodoFin,
			Contenido:     req.Contenido,
			Archivo:       req.Archivo,
			IDUsuario:     req.IDUsuario,
		})
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Hoja de reporte actualizada exitosamente"))
	}
}

// @Summary Eliminar hoja de reporte
// @Tags hoja-reporte
// @Produce json
// @Param id path int true "id_reporte"
// @Success 200 {object} httpjson.Message
// @Failure 404 {object} httpjson.Detail "Hoja de reporte no encontrada"
// @Router /api/hoja-reporte/{id} [delete]
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
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Hoja de reporte eliminada exitosamente"))
	}
}

// @Summary Subir archivo de la hoja de reporte
// @Tags hoja-reporte
// @Accept multipart/form-data
// @Produce json
// @Param id path int true "id_reporte"
// @Param archivo formData file true "Archivo adjunto"
// @Success 200 {object} archivoResponse
// @Failure 400 {object} httpjson.Detail
// @Failure 404 {object} httpjson.Detail "Hoja de reporte no encontrada"
// @Router /api/hoja-reporte/{id}/archivo [post]
func uploadHandler(svc *Service, maxUpload int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		// margen para los encabezados multipart
		r.Body = http.MaxBytesReader(w, r.Body, maxUpload+(1<<20))
		if err := r.ParseMultipartForm(maxUpload); err != nil {
			var tooBig *http.MaxBytesError
			if errors.As(err, &tooBig) {
				httpjson.WriteError(w, r, apperr.Validation(fmt.Sprintf("El archivo excede el tamaño máximo de %d MB", maxUpload>>20)))
				return
			}
			httpjson.WriteError(w, r, apperr.Validation("Formulario multipart inválido"))
			return
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("archivo")
		if err != nil {
			httpjson.WriteError(w, r, apperr.Validation("El campo archivo es requerido"))
			return
		}
		defer file.Close()
		if header.Size > maxUpload {
			httpjson.WriteError(w, r, apperr.Validation(fmt.Sprintf("El archivo excede el tamaño máximo de %d MB", maxUpload>>20)))
			return
		}

		key, err := svc.AttachFile(r.Context(), id, header.Filename, header.Header.Get("Content-Type"), file, header.Size)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, archivoResponse{
			Success: true,
			Message: "Archivo guardado exitosamente",
			Archivo: key,
		})
	}
}

// @Summary Descargar archivo de la hoja de reporte
// @Tags hoja-reporte
// @Produce octet-stream
// @Param id path int true "id_reporte"
// @Success 200 {file} file
// @Failure 404 {object} httpjson.Detail "Archivo no encontrado"
// @Router /api/hoja-reporte/{id}/archivo [get]
func downloadHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		rc, contentType, name, err := svc.OpenFile(r.Context(), id)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		defer rc.Close()

		w.Header().Set("Content-Type", contentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		w.WriteHeader(http.StatusOK)
		_, _ = io.Copy(w, rc)
	}
}

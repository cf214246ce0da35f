package usuarios

import (
	"net/http"
	"time"

	"sistpec-api/internal/platform/dates"
	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/usuarios", func(ur chi.Router) {
		ur.Post("/", createHandler(svc))
		ur.Get("/", listHandler(svc))

		ur.Get("/{id}", getHandler(svc))
		ur.Put("/{id}", updateHandler(svc))
		ur.Delete("/{id}", deleteHandler(svc))
		ur.Patch("/{id}/desactivar", setActivoHandler(svc, false))
		ur.Patch("/{id}/reactivar", setActivoHandler(svc, true))
	})
}

type usuarioRequest struct {
	Nombre           *string     `json:"nombre"`
	ApellidoPaterno  *string     `json:"apellido_paterno"`
	ApellidoMaterno  *string     `json:"apellido_materno"`
	NombreUsuario    *string     `json:"nombre_usuario"`
	Correo           *string     `json:"correo"`
	Password         *string     `json:"password"`
	TipoUsuario      *int64      `json:"tipo_usuario"`
	ClaveDeRumiantes *string     `json:"clave_de_rumiantes"`
	VigenciaInicio   *dates.Date `json:"vigencia_inicio" swaggertype:"string" example:"2024-01-01"`
	VigenciaFin      *dates.Date `json:"vigencia_fin" swaggertype:"string" example:"2025-12-31"`
	Activo           *bool       `json:"activo"`
}

// usuarioResponse nunca expone password_hash.
type usuarioResponse struct {
	IDUsuario          int64       `json:"id_usuario"`
	Nombre             string      `json:"nombre"`
	ApellidoPaterno    string      `json:"apellido_paterno"`
	ApellidoMaterno    *string     `json:"apellido_materno"`
	NombreCompleto     string      `json:"nombre_completo"`
	NombreUsuario      string      `json:"nombre_usuario"`
	Correo             string      `json:"correo"`
	TipoUsuario        int64       `json:"tipo_usuario"`
	NombreTipo         string      `json:"nombre_tipo"`
	Rol                string      `json:"rol"`
	ClaveDeRumiantes   *string     `json:"clave_de_rumiantes"`
	VigenciaInicio     *dates.Date `json:"vigencia_inicio" swaggertype:"string"`
	VigenciaFin        *dates.Date `json:"vigencia_fin" swaggertype:"string"`
	Activo             bool        `json:"activo"`
	FechaCreacion      time.Time   `json:"fecha_creacion"`
	FechaActualizacion *time.Time  `json:"fecha_actualizacion"`
}

type createdResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	IDUsuario int64  `json:"id_usuario"`
}

func toResponse(u Usuario) usuarioResponse {
	return usuarioResponse{
		IDUsuario:          u.ID,
		Nombre:             u.Nombre,
		ApellidoPaterno:    u.ApellidoPaterno,
		ApellidoMaterno:    u.ApellidoMaterno,
		NombreCompleto:     u.NombreCompleto(),
		NombreUsuario:      u.NombreUsuario,
		Correo:             u.Correo,
		TipoUsuario:        u.TipoUsuario,
		NombreTipo:         u.NombreTipo,
		Rol:                Rol(u.TipoUsuario),
		ClaveDeRumiantes:   u.ClaveDeRumiantes,
		VigenciaInicio:     u.VigenciaInicio,
		VigenciaFin:        u.VigenciaFin,
		Activo:             u.Activo,
		FechaCreacion:      u.FechaCreacion,
		FechaActualizacion: u.FechaActualizacion,
	}
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// @Summary Crear usuario
// @Description La contraseña se guarda como hash argon2id.
// @Tags usuarios
// @Accept json
// @Produce json
// @Param payload body usuarioRequest true "Datos del usuario"
// @Success 201 {object} createdResponse
// @Failure 400 {object} httpjson.Detail "El nombre de usuario ya existe / El correo electrónico ya está registrado / validación"
// @Router /api/usuarios [post]
func createHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req usuarioRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		in := CreateInput{
			Nombre:           deref(req.Nombre),
			ApellidoPaterno:  deref(req.ApellidoPaterno),
			ApellidoMaterno:  req.ApellidoMaterno,
			NombreUsuario:    deref(req.NombreUsuario),
			Correo:           deref(req.Correo),
			Password:         deref(req.Password),
			ClaveDeRumiantes: req.ClaveDeRumiantes,
			VigenciaInicio:   req.VigenciaInicio,
			VigenciaFin:      req.VigenciaFin,
			Activo:           req.Activo,
		}
		if req.TipoUsuario != nil {
			in.TipoUsuario = *req.TipoUsuario
		}

		id, err := svc.Create(r.Context(), in)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusCreated, createdResponse{
			Success:   true,
			Message:   "Usuario creado exitosamente",
			IDUsuario: id,
		})
	}
}

// @Summary Listar usuarios
// @Tags usuarios
// @Produce json
// @Param nombre_usuario query string false "Subcadena"
// @Param correo query string false "Subcadena"
// @Param clave_de_rumiantes query string false "Subcadena"
// @Param tipo_usuario query int false "1..5"
// @Param activo query bool false "Solo activos / inactivos"
// @Param limit query int false "1..500 (100 por defecto)"
// @Success 200 {array} usuarioResponse
// @Router /api/usuarios [get]
func listHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := httpjson.NewQuery(r)
		f := ListFilter{
			NombreUsuario:    q.String("nombre_usuario"),
			Correo:           q.String("correo"),
			ClaveDeRumiantes: q.String("clave_de_rumiantes"),
			TipoUsuario:      q.Int64("tipo_usuario"),
			Activo:           q.Bool("activo"),
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
		out := make([]usuarioResponse, 0, len(items))
		for _, u := range items {
			out = append(out, toResponse(u))
		}
		httpjson.WriteJSON(w, http.StatusOK, out)
	}
}

// @Summary Obtener usuario
// @Tags usuarios
// @Produce json
// @Param id path int true "ID del usuario"
// @Success 200 {object} usuarioResponse
// @Failure 404 {object} httpjson.Detail "Usuario no encontrado"
// @Router /api/usuarios/{id} [get]
func getHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		u, err := svc.Get(r.Context(), id)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, toResponse(u))
	}
}

// @Summary Actualizar usuario
// @Tags usuarios
// @Accept json
// @Produce json
// @Param id path int true "ID del usuario"
// @Param payload body usuarioRequest true "Campos a modificar"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No hay campos para actualizar / duplicados"
// @Failure 404 {object} httpjson.Detail "Usuario no encontrado"
// @Router /api/usuarios/{id} [put]
func updateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := httpjson.PathID(r, "id")
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		var req usuarioRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}

		err = svc.Update(r.Context(), id, UpdateInput{
			Nombre:           req.Nombre,
			ApellidoPaterno:  req.ApellidoPaterno,
			ApellidoMaterno:  req.ApellidoMaterno,
			NombreUsuario:    req.NombreUsuario,
			Correo:           req.Correo,
			Password:         req.Password,
			TipoUsuario:      req.TipoUsuario,
			ClaveDeRumiantes: req.ClaveDeRumiantes,
			VigenciaInicio:   req.VigenciaInicio,
			VigenciaFin:      req.VigenciaFin,
			Activo:           req.Activo,
		})
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Usuario actualizado exitosamente"))
	}
}

// @Summary Desactivar / reactivar usuario
// @Tags usuarios
// @Produce json
// @Param id path int true "ID del usuario"
// @Success 200 {object} httpjson.Message
// @Failure 404 {object} httpjson.Detail "Usuario no encontrado"
// @Router /api/usuarios/{id}/desactivar [patch]
// @Router /api/usuarios/{id}/reactivar [patch]
func setActivoHandler(svc *Service, activo bool) http.HandlerFunc {
	msg := "Usuario desactivado exitosamente"
	if activo {
		msg = "Usuario reactivado exitosamente"
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

// @Summary Eliminar usuario
// @Tags usuarios
// @Produce json
// @Param id path int true "ID del usuario"
// @Success 200 {object} httpjson.Message
// @Failure 400 {object} httpjson.Detail "No se puede eliminar: el usuario tiene registros relacionados"
// @Failure 404 {object} httpjson.Detail "Usuario no encontrado"
// @Router /api/usuarios/{id} [delete]
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
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Usuario eliminado exitosamente"))
	}
}

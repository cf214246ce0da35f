package auth

import (
	"net/http"
	"strings"
	"time"

	"sistpec-api/internal/domain/usuarios"
	"sistpec-api/internal/middleware"
	"sistpec-api/internal/platform/httpjson"

	"github.com/go-chi/chi/v5"
)

func RegisterRoutes(r chi.Router, svc *Service) {
	r.Route("/auth", func(rr chi.Router) {
		rr.Post("/login", loginHandler(svc))
		rr.Post("/logout", logoutHandler(svc))
		rr.Get("/validate", validateHandler(svc))
		rr.Get("/me", meHandler())
	})
}

type loginRequest struct {
	NombreUsuario string `json:"nombre_usuario" example:"admin"`
	Password      string `json:"password" example:"********"`
}

type usuarioLogin struct {
	IDUsuario        int64   `json:"id_usuario"`
	Nombre           string  `json:"nombre"`
	ApellidoPaterno  string  `json:"apellido_paterno"`
	ApellidoMaterno  *string `json:"apellido_materno"`
	NombreCompleto   string  `json:"nombre_completo"`
	NombreUsuario    string  `json:"nombre_usuario"`
	Correo           string  `json:"correo"`
	TipoUsuario      int64   `json:"tipo_usuario"`
	NombreTipo       string  `json:"nombre_tipo"`
	Rol              string  `json:"rol"`
	ClaveDeRumiantes *string `json:"clave_de_rumiantes"`
}

type loginResponse struct {
	Success bool         `json:"success"`
	Message string       `json:"message"`
	Usuario usuarioLogin `json:"usuario"`
	Token   string       `json:"token"`
}

type usuarioToken struct {
	IDUsuario     int64  `json:"id_usuario"`
	NombreUsuario string `json:"nombre_usuario"`
	Rol           string `json:"rol"`
}

type validateResponse struct {
	Valid   bool         `json:"valid"`
	Message string       `json:"message"`
	Usuario usuarioToken `json:"usuario"`
	Expira  time.Time    `json:"expira"`
}

type meResponse struct {
	Usuario usuarioToken `json:"usuario"`
	Expira  time.Time    `json:"expira"`
}

func toUsuarioLogin(u usuarios.Usuario) usuarioLogin {
	return usuarioLogin{
		IDUsuario:        u.ID,
		Nombre:           u.Nombre,
		ApellidoPaterno:  u.ApellidoPaterno,
		ApellidoMaterno:  u.ApellidoMaterno,
		NombreCompleto:   u.NombreCompleto(),
		NombreUsuario:    u.NombreUsuario,
		Correo:           u.Correo,
		TipoUsuario:      u.TipoUsuario,
		NombreTipo:       u.NombreTipo,
		Rol:              usuarios.Rol(u.TipoUsuario),
		ClaveDeRumiantes: u.ClaveDeRumiantes,
	}
}

// token del query (?token=) o del header Authorization.
func requestToken(r *http.Request) string {
	if t := strings.TrimSpace(r.URL.Query().Get("token")); t != "" {
		return t
	}
	return middleware.BearerToken(r.Header.Get("Authorization"))
}

// @Summary Iniciar sesión
// @Tags auth
// @Accept json
// @Produce json
// @Param payload body loginRequest true "Credenciales"
// @Success 200 {object} loginResponse
// @Failure 400 {object} httpjson.Detail "Usuario y contraseña son requeridos"
// @Failure 401 {object} httpjson.Detail "Usuario o contraseña incorrectos"
// @Failure 403 {object} httpjson.Detail "El usuario está inactivo"
// @Router /api/auth/login [post]
func loginHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := httpjson.Decode(r, &req); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		res, err := svc.Login(r.Context(), req.NombreUsuario, req.Password)
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, loginResponse{
			Success: true,
			Message: "Login exitoso",
			Usuario: toUsuarioLogin(res.Usuario),
			Token:   res.Token,
		})
	}
}

// @Summary Cerrar sesión
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} httpjson.Message
// @Router /api/auth/logout [post]
func logoutHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := svc.Logout(r.Context(), requestToken(r)); err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, httpjson.OK("Sesión cerrada exitosamente"))
	}
}

// @Summary Validar token
// @Tags auth
// @Produce json
// @Param token query string false "Token (o header Authorization: Bearer)"
// @Success 200 {object} validateResponse
// @Failure 401 {object} httpjson.Detail "Token inválido o expirado"
// @Router /api/auth/validate [get]
func validateHandler(svc *Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, err := svc.Validate(r.Context(), requestToken(r))
		if err != nil {
			httpjson.WriteError(w, r, err)
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, validateResponse{
			Valid:   true,
			Message: "Token válido",
			Usuario: usuarioToken{IDUsuario: c.UserID, NombreUsuario: c.Username, Rol: c.Rol},
			Expira:  c.ExpiresAt,
		})
	}
}

// @Summary Sesión actual
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} meResponse
// @Failure 401 {object} httpjson.Detail "No autenticado"
// @Router /api/auth/me [get]
func meHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c, ok := middleware.GetClaims(r.Context())
		if !ok {
			httpjson.WriteDetail(w, http.StatusUnauthorized, "No autenticado")
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, meResponse{
			Usuario: usuarioToken{IDUsuario: c.UserID, NombreUsuario: c.Username, Rol: c.Rol},
			Expira:  c.ExpiresAt,
		})
	}
}

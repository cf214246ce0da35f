package router

import (
	"database/sql"
	"net/http"
	"time"

	"sistpec-api/internal/adapters/auth/sessions"
	"sistpec-api/internal/adapters/auth/token"
	"sistpec-api/internal/adapters/capabilities/roles"
	"sistpec-api/internal/adapters/filestore"
	mem "sistpec-api/internal/adapters/storage/memory"
	pg "sistpec-api/internal/adapters/storage/postgres"
	"sistpec-api/internal/domain/auth"
	"sistpec-api/internal/domain/casos"
	"sistpec-api/internal/domain/catalogos"
	"sistpec-api/internal/domain/hojareporte"
	"sistpec-api/internal/domain/muestras"
	"sistpec-api/internal/domain/propietarios"
	"sistpec-api/internal/domain/resultados"
	"sistpec-api/internal/domain/upp"
	"sistpec-api/internal/domain/usuarios"
	"sistpec-api/internal/middleware"
	"sistpec-api/internal/platform/httpjson"
	"sistpec-api/internal/platform/logger"
	"sistpec-api/internal/platform/metrics"
	"sistpec-api/internal/platform/password"
	"sistpec-api/internal/platform/tracing"
	portauth "sistpec-api/internal/ports/auth"
	"sistpec-api/internal/ports/capabilities"
	"sistpec-api/internal/ports/storage"

	_ "sistpec-api/docs"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

const Version = "1.0.0"

type Options struct {
	Logger logger.Logger // nil = logger por defecto

	// Opcional: si viene, usa Postgres. Si no, in-memory.
	DB *sql.DB
	// Store para modo memoria; nil crea uno nuevo.
	Store *mem.Store

	Sessions   portauth.SessionStore // nil = sesiones en memoria
	JWTSecret  string
	JWTIssuer  string
	SessionTTL time.Duration

	// AuthRequired exige sesión en /api y aplica las capacidades por rol.
	AuthRequired   bool
	AllowedOrigins []string

	Files          hojareporte.FileStore // nil = disco local en data/uploads
	MaxUploadBytes int64

	Hasher *password.Hasher // nil = parámetros por defecto
}

type repos struct {
	catalogos    catalogos.Repository
	propietarios propietarios.Repository
	upp          upp.Repository
	usuarios     usuarios.Repository
	casos        casos.Repository
	numeros      casos.NumberGenerator
	tx           storage.TxRunner
	muestras     muestras.Repository
	resultados   resultados.Repository
	hojas        hojareporte.Repository
}

func postgresRepos(db *sql.DB) repos {
	return repos{
		catalogos:    pg.NewCatalogosRepo(db),
		propietarios: pg.NewPropietariosRepo(db),
		upp:          pg.NewUPPRepo(db),
		usuarios:     pg.NewUsuariosRepo(db),
		casos:        pg.NewCasosRepo(db),
		numeros:      pg.NewNumberGenerator(db),
		tx:           pg.NewTxManager(db),
		muestras:     pg.NewMuestrasRepo(db),
		resultados:   pg.NewResultadosRepo(db),
		hojas:        pg.NewHojasRepo(db),
	}
}

func memoryRepos(s *mem.Store) repos {
	return repos{
		catalogos:    mem.NewCatalogosRepo(s),
		propietarios: mem.NewPropietariosRepo(s),
		upp:          mem.NewUPPRepo(s),
		usuarios:     mem.NewUsuariosRepo(s),
		casos:        mem.NewCasosRepo(s),
		numeros:      s,
		tx:           s,
		muestras:     mem.NewMuestrasRepo(s),
		resultados:   mem.NewResultadosRepo(s),
		hojas:        mem.NewHojasRepo(s),
	}
}

func NewRouter(opts Options) http.Handler {
	log := opts.Logger
	if log == nil {
		log = logger.NewFromEnv()
	}

	var rp repos
	if opts.DB != nil {
		rp = postgresRepos(opts.DB)
	} else {
		s := opts.Store
		if s == nil {
			s = mem.NewStore()
		}
		rp = memoryRepos(s)
	}

	hasher := opts.Hasher
	if hasher == nil {
		hasher = password.NewHasher(password.DefaultParams)
	}
	sessionStore := opts.Sessions
	if sessionStore == nil {
		sessionStore = sessions.NewMemoryStore()
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 10 << 20
	}
	files := opts.Files
	if files == nil {
		files = filestore.NewLocalStore("data/uploads")
	}

	tokens := token.NewManager(opts.JWTSecret, opts.JWTIssuer)
	verifier := token.NewVerifier(tokens, sessionStore)
	resolver := roles.NewResolver(roles.DefaultGrants, !opts.AuthRequired)

	// Services por módulo
	catalogosSvc := catalogos.NewService(rp.catalogos)
	propietariosSvc := propietarios.NewService(rp.propietarios)
	uppSvc := upp.NewService(rp.upp, catalogosSvc)
	usuariosSvc := usuarios.NewService(rp.usuarios, hasher).WithSessions(sessionStore)
	casosSvc := casos.NewService(rp.casos, rp.numeros, rp.tx, catalogosSvc)
	muestrasSvc := muestras.NewService(rp.muestras, catalogosSvc)
	resultadosSvc := resultados.NewService(rp.resultados, catalogosSvc)
	hojasSvc := hojareporte.NewService(rp.hojas, files)
	authSvc := auth.NewService(rp.usuarios, hasher, tokens, sessionStore, verifier, ttl)

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.Recover)
	r.Use(metrics.HTTPMetricsMiddleware)
	r.Use(tracing.RouteName)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.AuthContext(verifier))

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.WriteJSON(w, http.StatusOK, map[string]string{
			"message": "SISTPEC API",
			"version": Version,
			"docs":    "/docs/index.html",
			"health":  "/health",
		})
	})
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		httpjson.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/db-ping", dbPingHandler(opts.DB))
	r.Handle("/metrics", metrics.Handler())
	r.Get("/docs/*", httpSwagger.Handler(httpSwagger.URL("/docs/doc.json")))

	r.Route("/api", func(api chi.Router) {
		if opts.AuthRequired {
			api.Use(middleware.RequireAuth("/api/auth/login", "/api/auth/validate", "/api/auth/logout"))
		}

		auth.RegisterRoutes(api, authSvc)
		catalogos.RegisterRoutes(api, catalogosSvc)
		propietarios.RegisterRoutes(api, propietariosSvc)
		upp.RegisterRoutes(api, uppSvc)
		casos.RegisterRoutes(api, casosSvc)
		muestras.RegisterRoutes(api, muestrasSvc)
		hojareporte.RegisterRoutes(api, hojasSvc, maxUpload)

		api.Group(func(g chi.Router) {
			g.Use(middleware.RequireCapabilityForWrites(resolver, capabilities.UsuariosWrite))
			usuarios.RegisterRoutes(g, usuariosSvc)
		})
		api.Group(func(g chi.Router) {
			g.Use(middleware.RequireCapabilityForWrites(resolver, capabilities.ResultadosWrite))
			resultados.RegisterRoutes(g, resultadosSvc)
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.WriteDetail(w, http.StatusNotFound, "Ruta no encontrada")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httpjson.WriteDetail(w, http.StatusMethodNotAllowed, "Método no permitido")
	})

	return r
}

// @Summary Estado de la base de datos
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 503 {object} httpjson.Detail
// @Router /db-ping [get]
func dbPingHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db == nil {
			httpjson.WriteJSON(w, http.StatusOK, map[string]string{"db": "memory"})
			return
		}
		if err := pg.Ping(r.Context(), db); err != nil {
			logger.FromContext(r.Context()).Error("db ping failed", map[string]any{"error": err})
			httpjson.WriteDetail(w, http.StatusServiceUnavailable, "Base de datos no disponible")
			return
		}
		httpjson.WriteJSON(w, http.StatusOK, map[string]string{"db": "ok"})
	}
}

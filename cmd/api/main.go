// @title SISTPEC API
// @version 1.0.0
// @description Sistema de información de casos, muestras y resultados de laboratorio pecuario.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sistpec-api/internal/adapters/auth/sessions"
	"sistpec-api/internal/adapters/filestore"
	pg "sistpec-api/internal/adapters/storage/postgres"
	"sistpec-api/internal/config"
	"sistpec-api/internal/domain/hojareporte"
	"sistpec-api/internal/platform/logger"
	"sistpec-api/internal/platform/tracing"
	portauth "sistpec-api/internal/ports/auth"
	"sistpec-api/internal/router"
)

func main() {
	cfg := config.Load()
	log := logger.NewFromEnv().With(map[string]any{"app": cfg.AppName, "env": cfg.Environment})

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", map[string]any{"error": err})
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, log, cfg.AppName, cfg.Environment)
	if err != nil {
		log.Error("tracing init failed", map[string]any{"error": err})
		os.Exit(1)
	}

	var db *sql.DB
	if dsn := cfg.DatabaseDSN(); dsn != "" {
		db, err = pg.Open(dsn, cfg.DBMaxOpenConns)
		if err != nil {
			log.Error("database connection failed", map[string]any{"error": err})
			os.Exit(1)
		}
		defer db.Close()
		log.Info("using postgres repositories", map[string]any{"max_open_conns": cfg.DBMaxOpenConns})
	} else {
		log.Warn("DB_DSN/DB_HOST not set, using in-memory repositories", nil)
	}

	var sessionStore portauth.SessionStore
	if cfg.RedisURL != "" {
		rdb, err := sessions.NewRedisClient(ctx, cfg.RedisURL)
		if err != nil {
			log.Error("redis connection failed", map[string]any{"error": err})
			os.Exit(1)
		}
		defer rdb.Close()
		sessionStore = sessions.NewRedisStore(rdb)
		log.Info("sessions stored in redis", nil)
	} else {
		sessionStore = sessions.NewMemoryStore()
		log.Warn("REDIS_URL not set, sessions are kept in memory", nil)
	}

	handler := router.NewRouter(router.Options{
		Logger:         log,
		DB:             db,
		Sessions:       sessionStore,
		JWTSecret:      cfg.JWTSecret,
		JWTIssuer:      cfg.JWTIssuer,
		SessionTTL:     cfg.SessionTTL,
		AuthRequired:   cfg.AuthRequired,
		AllowedOrigins: cfg.AllowedOrigins,
		Files:          fileStore(ctx, cfg, log),
		MaxUploadBytes: cfg.MaxUploadMB << 20,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           tracing.Handler(handler, cfg.AppName),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       90 * time.Second,
	}

	go func() {
		log.Info("starting server", map[string]any{"addr": srv.Addr, "auth_required": cfg.AuthRequired})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", map[string]any{"error": err})
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down", nil)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", map[string]any{"error": err})
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Warn("tracing shutdown error", map[string]any{"error": err})
	}
}

// fileStore usa S3 si está configurado y responde; si no, disco local.
func fileStore(ctx context.Context, cfg *config.Config, log logger.Logger) hojareporte.FileStore {
	if cfg.S3Enabled() {
		s3, err := filestore.NewS3Store(ctx, filestore.S3Config{
			Bucket:          cfg.S3Bucket,
			Region:          cfg.S3Region,
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
		})
		if err == nil {
			checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err = s3.Check(checkCtx)
			cancel()
		}
		if err == nil {
			log.Info("attachments stored in s3", map[string]any{"bucket": cfg.S3Bucket})
			return s3
		}
		log.Warn("s3 unavailable, falling back to local disk", map[string]any{"error": err})
	}
	log.Info("attachments stored on local disk", map[string]any{"dir": cfg.UploadDir})
	return filestore.NewLocalStore(cfg.UploadDir)
}

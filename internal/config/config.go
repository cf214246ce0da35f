package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// MinJWTSecretLength es el largo mínimo del secreto JWT en producción.
const MinJWTSecretLength = 32

type Config struct {
	Port        string
	Environment string
	AppName     string

	// Postgres. Si DBDSN y DBHost están vacíos se usan repos en memoria.
	DBDSN          string
	DBHost         string
	DBPort         string
	DBName         string
	DBUser         string
	DBPassword     string
	DBSSLMode      string
	DBCharset      string
	DBMaxOpenConns int

	RedisURL string

	JWTSecret    string
	JWTIssuer    string
	SessionTTL   time.Duration
	AuthRequired bool

	AllowedOrigins []string

	// Adjuntos de hojas de reporte
	UploadDir         string
	MaxUploadMB       int64
	S3Bucket          string
	S3Region          string
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
}

func Load() *Config {
	// .env es opcional; en contenedores se usan variables del sistema
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		AppName:     getEnv("APP_NAME", "sistpec-api"),

		DBDSN:          os.Getenv("DB_DSN"),
		DBHost:         os.Getenv("DB_HOST"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBName:         getEnv("DB_NAME", "sistpec_cfpp"),
		DBUser:         getEnv("DB_USER", "sistpec_app"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		DBCharset:      getEnv("DB_CHARSET", "UTF8"),
		DBMaxOpenConns: getEnvInt("DB_MAX_OPEN_CONNS", 10),

		RedisURL: os.Getenv("REDIS_URL"),

		JWTSecret:    os.Getenv("JWT_SECRET"),
		JWTIssuer:    getEnv("JWT_ISSUER", "sistpec-api"),
		SessionTTL:   getEnvDuration("SESSION_TTL", 8*time.Hour),
		AuthRequired: getEnvBool("AUTH_REQUIRED", false),

		AllowedOrigins: getEnvList("CORS_ALLOWED_ORIGINS", []string{"https://dictamenes-five.vercel.app"}),

		UploadDir:         getEnv("UPLOAD_DIR", "data/uploads"),
		MaxUploadMB:       int64(getEnvInt("MAX_UPLOAD_MB", 10)),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3Region:          getEnv("S3_REGION", "us-east-1"),
		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
	}
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// DatabaseDSN arma el DSN de Postgres. Vacío = modo memoria.
func (c *Config) DatabaseDSN() string {
	if strings.TrimSpace(c.DBDSN) != "" {
		return c.DBDSN
	}
	if strings.TrimSpace(c.DBHost) == "" {
		return ""
	}

	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.DBUser, c.DBPassword),
		Host:   c.DBHost + ":" + c.DBPort,
		Path:   "/" + c.DBName,
	}
	q := url.Values{}
	q.Set("sslmode", c.DBSSLMode)
	if c.DBCharset != "" {
		q.Set("client_encoding", c.DBCharset)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// S3Enabled indica si hay credenciales completas para el bucket de adjuntos.
func (c *Config) S3Enabled() bool {
	return c.S3Bucket != "" && c.S3AccessKeyID != "" && c.S3SecretAccessKey != ""
}

// Validate rechaza configuraciones inseguras en producción.
func (c *Config) Validate() error {
	if c.SessionTTL <= 0 {
		return errors.New("SESSION_TTL must be positive")
	}
	insecure := []string{"", "secret", "change-me", "changeme", "development", "test"}
	for _, v := range insecure {
		if strings.EqualFold(c.JWTSecret, v) {
			if c.IsProduction() {
				return errors.New("JWT_SECRET is empty or an insecure default")
			}
			return nil
		}
	}
	if c.IsProduction() && len(c.JWTSecret) < MinJWTSecretLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in production", MinJWTSecretLength)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true
	case "false", "0", "no", "off":
		return false
	default:
		return defaultValue
	}
}

func getEnvInt(key string, defaultValue int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("[WARNING] invalid %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return n
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("[WARNING] invalid %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvList(key string, defaultValue []string) []string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	out := make([]string, 0)
	for _, p := range strings.Split(value, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

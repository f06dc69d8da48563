package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// PDF engines understood by the document renderer.
const (
	PDFEngineGofpdf   = "gofpdf"
	PDFEngineChromium = "chromium"
)

// Archive backends.
const (
	ArchiveBackendLocal      = "local"
	ArchiveBackendCloudinary = "cloudinary"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	CORS       CORSConfig
	Log        LogConfig
	Cache      CacheConfig
	Navigation NavigationConfig
	Documents  DocumentConfig
	Storage    StorageConfig
	Exports    ExportConfig
	Archive    ArchiveConfig
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Issuer            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

// CacheConfig toggles redis backed caching and per-feature TTLs.
type CacheConfig struct {
	Enabled      bool
	DashboardTTL time.Duration
	ReportsTTL   time.Duration
	ProfileTTL   time.Duration
}

// NavigationConfig controls menu visibility for users that hold no role.
type NavigationConfig struct {
	EmptyRolesFullMenu bool
}

// DocumentConfig configures certificate and receipt rendering.
type DocumentConfig struct {
	PDFEngine        string
	RenderTimeout    time.Duration
	InstituteName    string
	InstituteTagline string
	AcademyName      string
	AcademyTagline   string
	ChromiumPath     string
}

// StorageConfig points at the local file store used for exports and archives.
type StorageConfig struct {
	Dir             string
	SignedURLSecret string
	SignedURLTTL    time.Duration
}

// ExportConfig governs report export retention.
type ExportConfig struct {
	Retention       time.Duration
	CleanupSchedule string
}

// ArchiveConfig controls background archiving of issued documents.
type ArchiveConfig struct {
	Enabled       bool
	Backend       string
	CloudinaryURL string
	Folder        string
	Workers       int
	Retries       int
	RetryDelay    time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(err) {
			return nil, err
		}
	}

	return fromViper(v), nil
}

func fromViper(v *viper.Viper) *Config {
	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Database = DatabaseConfig{
		Host:         v.GetString("DB_HOST"),
		Port:         v.GetInt("DB_PORT"),
		User:         v.GetString("DB_USER"),
		Password:     v.GetString("DB_PASSWORD"),
		Name:         v.GetString("DB_NAME"),
		SSLMode:      v.GetString("DB_SSL_MODE"),
		MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Issuer:            v.GetString("JWT_ISSUER"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	cfg.Cache = CacheConfig{
		Enabled:      v.GetBool("ENABLE_CACHE"),
		DashboardTTL: parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 2*time.Minute),
		ReportsTTL:   parseDuration(v.GetString("REPORTS_CACHE_TTL"), 10*time.Minute),
		ProfileTTL:   parseDuration(v.GetString("PROFILE_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Navigation = NavigationConfig{
		EmptyRolesFullMenu: v.GetBool("NAV_EMPTY_ROLES_FULL_MENU"),
	}

	engine := strings.ToLower(strings.TrimSpace(v.GetString("DOCUMENT_PDF_ENGINE")))
	if engine != PDFEngineChromium {
		engine = PDFEngineGofpdf
	}
	cfg.Documents = DocumentConfig{
		PDFEngine:        engine,
		RenderTimeout:    parseDuration(v.GetString("DOCUMENT_RENDER_TIMEOUT"), 30*time.Second),
		InstituteName:    v.GetString("INSTITUTE_NAME"),
		InstituteTagline: v.GetString("INSTITUTE_TAGLINE"),
		AcademyName:      v.GetString("ACADEMY_NAME"),
		AcademyTagline:   v.GetString("ACADEMY_TAGLINE"),
		ChromiumPath:     v.GetString("CHROMIUM_PATH"),
	}

	cfg.Storage = StorageConfig{
		Dir:             v.GetString("STORAGE_DIR"),
		SignedURLSecret: v.GetString("SIGNED_URL_SECRET"),
		SignedURLTTL:    parseDuration(v.GetString("SIGNED_URL_TTL"), 30*time.Minute),
	}

	cfg.Exports = ExportConfig{
		Retention:       parseDuration(v.GetString("EXPORT_RETENTION"), 24*time.Hour),
		CleanupSchedule: v.GetString("EXPORT_CLEANUP_SCHEDULE"),
	}

	backend := strings.ToLower(strings.TrimSpace(v.GetString("ARCHIVE_BACKEND")))
	if backend != ArchiveBackendCloudinary {
		backend = ArchiveBackendLocal
	}
	cfg.Archive = ArchiveConfig{
		Enabled:       v.GetBool("ARCHIVE_ENABLED"),
		Backend:       backend,
		CloudinaryURL: v.GetString("CLOUDINARY_URL"),
		Folder:        v.GetString("ARCHIVE_FOLDER"),
		Workers:       v.GetInt("ARCHIVE_WORKERS"),
		Retries:       v.GetInt("ARCHIVE_RETRIES"),
		RetryDelay:    parseDuration(v.GetString("ARCHIVE_RETRY_DELAY"), 2*time.Second),
	}

	return cfg
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "institute_erp")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "institute-erp-api")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	v.SetDefault("ENABLE_CACHE", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "2m")
	v.SetDefault("REPORTS_CACHE_TTL", "10m")
	v.SetDefault("PROFILE_CACHE_TTL", "5m")

	v.SetDefault("NAV_EMPTY_ROLES_FULL_MENU", true)

	v.SetDefault("DOCUMENT_PDF_ENGINE", PDFEngineGofpdf)
	v.SetDefault("DOCUMENT_RENDER_TIMEOUT", "30s")
	v.SetDefault("INSTITUTE_NAME", "GANISHKA TECHNOLOGY")
	v.SetDefault("INSTITUTE_TAGLINE", "Tech Coaching Institute")
	v.SetDefault("ACADEMY_NAME", "GANISHKA ACADEMY")
	v.SetDefault("ACADEMY_TAGLINE", "Education Institute")
	v.SetDefault("CHROMIUM_PATH", "")

	v.SetDefault("STORAGE_DIR", "./storage")
	v.SetDefault("SIGNED_URL_SECRET", "dev_storage_secret")
	v.SetDefault("SIGNED_URL_TTL", "30m")

	v.SetDefault("EXPORT_RETENTION", "24h")
	v.SetDefault("EXPORT_CLEANUP_SCHEDULE", "@hourly")

	v.SetDefault("ARCHIVE_ENABLED", false)
	v.SetDefault("ARCHIVE_BACKEND", ArchiveBackendLocal)
	v.SetDefault("CLOUDINARY_URL", "")
	v.SetDefault("ARCHIVE_FOLDER", "institute_documents")
	v.SetDefault("ARCHIVE_WORKERS", 2)
	v.SetDefault("ARCHIVE_RETRIES", 3)
	v.SetDefault("ARCHIVE_RETRY_DELAY", "2s")
}

func isMissingFile(err error) bool {
	return strings.Contains(err.Error(), "no such file or directory")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

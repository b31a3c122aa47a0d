package app

import (
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/yungbote/solutions-catalog/internal/data/db"
	"github.com/yungbote/solutions-catalog/internal/platform/envutil"
	"github.com/yungbote/solutions-catalog/internal/platform/logger"
)

const (
	StorageModeLocal = "local"
	StorageModeGCS   = "gcs"
	StorageModeS3    = "s3"
)

type Config struct {
	Port            string
	LogMode         string
	ServiceName     string
	Version         string
	ShutdownTimeout time.Duration

	DB          db.Options
	AutoMigrate bool

	StoreOpTimeout time.Duration
	CacheTTL       time.Duration
	TopBooks       int

	StorageMode      string
	UploadDir        string
	UploadPublicPath string
	MaxUploadBytes   int64

	GCSBucket        string
	GCSCDNDomain     string
	GCSEmulatorHost  string
	GCSPublicBaseURL string
	GCSCredentials   string

	S3Endpoint      string
	S3AccessKey     string
	S3SecretKey     string
	S3Bucket        string
	S3Region        string
	S3UseSSL        bool
	S3PublicBaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	BlobCleanupConcurrency int

	CORSOrigins []string

	MetricsEnabled        bool
	MetricsScrapeInterval time.Duration

	OtelEnabled     bool
	OtelEndpoint    string
	OtelHeaders     string
	OtelInsecure    bool
	OtelSampleRatio float64
}

// LoadDotEnv seeds the environment from .env files when present. Variables
// already set in the process win.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

func LoadConfig(log *logger.Logger) Config {
	cfg := Config{
		Port:            envutil.String("PORT", "8080", log),
		LogMode:         envutil.String("LOG_MODE", "development", log),
		ServiceName:     envutil.String("SERVICE_NAME", "solutions-catalog", log),
		Version:         envutil.String("SERVICE_VERSION", "dev", log),
		ShutdownTimeout: envutil.Duration("SHUTDOWN_TIMEOUT", 15*time.Second, log),

		DB: db.Options{
			Driver:           strings.ToLower(envutil.String("DB_DRIVER", db.DriverPostgres, log)),
			PostgresHost:     envutil.String("POSTGRES_HOST", "localhost", log),
			PostgresPort:     envutil.String("POSTGRES_PORT", "5432", log),
			PostgresUser:     envutil.String("POSTGRES_USER", "postgres", log),
			PostgresPassword: envutil.String("POSTGRES_PASSWORD", "", nil),
			PostgresName:     envutil.String("POSTGRES_NAME", "solutions", log),
			PostgresSSLMode:  envutil.String("POSTGRES_SSLMODE", "disable", log),
			SQLitePath:       envutil.String("SQLITE_PATH", "", log),
			MaxOpenConns:     envutil.Int("DB_MAX_OPEN_CONNS", 10, log),
			MaxIdleConns:     envutil.Int("DB_MAX_IDLE_CONNS", 5, log),
			ConnMaxLifetime:  envutil.Duration("DB_CONN_MAX_LIFETIME", 30*time.Minute, log),
		},
		AutoMigrate: envutil.Bool("DB_AUTO_MIGRATE", true),

		StoreOpTimeout: envutil.Duration("STORE_OP_TIMEOUT", 10*time.Second, log),
		CacheTTL:       envutil.Duration("CACHE_TTL", 60*time.Second, log),
		TopBooks:       envutil.Int("STATS_TOP_BOOKS", 5, log),

		StorageMode:      strings.ToLower(envutil.String("STORAGE_MODE", StorageModeLocal, log)),
		UploadDir:        envutil.String("UPLOAD_DIR", "./uploads", log),
		UploadPublicPath: envutil.String("UPLOAD_PUBLIC_PATH", "/uploads", log),
		MaxUploadBytes:   envutil.Int64("MAX_UPLOAD_BYTES", 10<<20, log),

		GCSBucket:        envutil.String("IMAGE_GCS_BUCKET_NAME", "", log),
		GCSCDNDomain:     envutil.String("IMAGE_CDN_DOMAIN", "", log),
		GCSEmulatorHost:  envutil.String("STORAGE_EMULATOR_HOST", "", log),
		GCSPublicBaseURL: envutil.String("OBJECT_STORAGE_PUBLIC_BASE_URL", "", log),
		GCSCredentials:   envutil.String("GOOGLE_APPLICATION_CREDENTIALS_JSON", "", nil),

		S3Endpoint:      envutil.String("S3_ENDPOINT", "", log),
		S3AccessKey:     envutil.String("S3_ACCESS_KEY", "", nil),
		S3SecretKey:     envutil.String("S3_SECRET_KEY", "", nil),
		S3Bucket:        envutil.String("S3_BUCKET", "", log),
		S3Region:        envutil.String("S3_REGION", "us-east-1", log),
		S3UseSSL:        envutil.Bool("S3_USE_SSL", false),
		S3PublicBaseURL: envutil.String("S3_PUBLIC_BASE_URL", "", log),

		RedisAddr:     envutil.String("REDIS_ADDR", "", log),
		RedisPassword: envutil.String("REDIS_PASSWORD", "", nil),
		RedisDB:       envutil.Int("REDIS_DB", 0, log),

		BlobCleanupConcurrency: envutil.Int("BLOB_CLEANUP_CONCURRENCY", 2, log),

		CORSOrigins: envutil.List("CORS_ORIGINS", nil),

		MetricsEnabled:        envutil.Bool("METRICS_ENABLED", true),
		MetricsScrapeInterval: envutil.Duration("METRICS_SCRAPE_INTERVAL", 15*time.Second, log),

		OtelEnabled:  envutil.Bool("OTEL_ENABLED", false),
		OtelEndpoint: envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", "", log),
		OtelHeaders:  envutil.String("OTEL_EXPORTER_OTLP_HEADERS", "", nil),
		OtelInsecure: envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
	}
	cfg.OtelSampleRatio = float64(envutil.Int("OTEL_SAMPLE_PERCENT", 100, log)) / 100
	return cfg
}

// Production reports whether raw error text must be hidden from clients.
func (c Config) Production() bool {
	switch strings.ToLower(strings.TrimSpace(c.LogMode)) {
	case "prod", "production":
		return true
	}
	return false
}

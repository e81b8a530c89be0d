package config

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/pg-service/internal/platform/logger"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	ServiceName            string        `mapstructure:"SERVICE_NAME"`
	HTTPPort               string        `mapstructure:"HTTP_PORT"`
	MongoURI               string        `mapstructure:"MONGO_URI"`
	MongoDatabase          string        `mapstructure:"MONGO_DATABASE"`
	NATSURL                string        `mapstructure:"NATS_URL"`
	RedisAddress           string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword          string        `mapstructure:"REDIS_PASSWORD"`
	CacheTTL               time.Duration `mapstructure:"CACHE_TTL"`
	MinIOEndpoint          string        `mapstructure:"MINIO_ENDPOINT"`
	MinIOAccessKey         string        `mapstructure:"MINIO_ACCESS_KEY"`
	MinIOSecretKey         string        `mapstructure:"MINIO_SECRET_KEY"`
	MinIOBucket            string        `mapstructure:"MINIO_BUCKET"`
	MinIOUseSSL            bool          `mapstructure:"MINIO_USE_SSL"`
	ImageFolder            string        `mapstructure:"IMAGE_FOLDER"`
	ImageWidth             int           `mapstructure:"IMAGE_WIDTH"`
	ImageCrop              string        `mapstructure:"IMAGE_CROP"`
	StagingDir             string        `mapstructure:"STAGING_DIR"`
	MaxUploadMB            int64         `mapstructure:"MAX_UPLOAD_MB"`
	UploadConcurrency      int           `mapstructure:"UPLOAD_CONCURRENCY"`
	UploadTimeout          time.Duration `mapstructure:"UPLOAD_TIMEOUT"`
	JWTSecret              string        `mapstructure:"JWT_SECRET"`
	SMTPHost               string        `mapstructure:"SMTP_HOST"`
	SMTPPort               int           `mapstructure:"SMTP_PORT"`
	SMTPUser               string        `mapstructure:"SMTP_USER"`
	SMTPPassword           string        `mapstructure:"SMTP_PASSWORD"`
	SMTPFrom               string        `mapstructure:"SMTP_FROM"`
	PrometheusMetricsPort  string        `mapstructure:"PROMETHEUS_METRICS_PORT"`
	LogLevel               string        `mapstructure:"LOG_LEVEL"`
	LogFormat              string        `mapstructure:"LOG_FORMAT"`
	OTExporterOTLPEndpoint string        `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
}

const insecureJWTSecret = "change-me-pg-service-secret"

// LoadConfig reads configuration from the environment. The .env file, if any,
// is loaded into the environment by main before this is called.
func LoadConfig(appLogger *logger.Logger) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		appLogger.Error("Failed to unmarshal configuration", zap.Error(err))
		return nil, err
	}

	if cfg.JWTSecret == insecureJWTSecret || cfg.JWTSecret == "" {
		appLogger.Warn("JWT_SECRET is set to its default insecure value or is empty. Please set a strong secret in your environment.")
	}
	if cfg.MongoURI == "" {
		appLogger.Fatal("MONGO_URI is not set. This is required.")
	}
	if cfg.UploadConcurrency <= 0 {
		cfg.UploadConcurrency = 4
	}

	appLogger.Debug("Configuration loaded",
		zap.String("service_name", cfg.ServiceName),
		zap.String("http_port", cfg.HTTPPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.String("nats_url", cfg.NATSURL),
		zap.String("redis_address", cfg.RedisAddress),
		zap.String("minio_endpoint", cfg.MinIOEndpoint),
		zap.String("staging_dir", cfg.StagingDir),
		zap.Int("upload_concurrency", cfg.UploadConcurrency),
		zap.Duration("upload_timeout", cfg.UploadTimeout),
		zap.Bool("smtp_configured", cfg.SMTPHost != ""),
		zap.String("prometheus_port", cfg.PrometheusMetricsPort),
		zap.String("otel_endpoint", cfg.OTExporterOTLPEndpoint),
	)

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "pg-service")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "pg_listings")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("REDIS_ADDRESS", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("CACHE_TTL", time.Hour)
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "minioadmin")
	v.SetDefault("MINIO_SECRET_KEY", "minioadmin")
	v.SetDefault("MINIO_BUCKET", "pg-images")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("IMAGE_FOLDER", "images")
	v.SetDefault("IMAGE_WIDTH", 150)
	v.SetDefault("IMAGE_CROP", "scale")
	v.SetDefault("STAGING_DIR", "uploads")
	v.SetDefault("MAX_UPLOAD_MB", 32)
	v.SetDefault("UPLOAD_CONCURRENCY", 4)
	v.SetDefault("UPLOAD_TIMEOUT", 30*time.Second)
	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USER", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_FROM", "no-reply@pg-service.local")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9095")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
}

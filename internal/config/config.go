package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	// Server configuration
	Port        int    `json:"port"`
	Environment string `json:"environment"`

	// MongoDB configuration
	MongoURI      string `json:"mongo_uri"`
	MongoDatabase string `json:"mongo_database"`

	// Redis configuration
	RedisURI      string `json:"redis_uri"`
	RedisPassword string `json:"redis_password"`
	RedisDB       int    `json:"redis_db"`

	// Collection names
	RegistrationsCollection  string `json:"mongo_registrations_collection"`
	CNPJLookupLogsCollection string `json:"mongo_cnpj_lookup_logs_collection"`
	AuditLogsCollection      string `json:"mongo_audit_logs_collection"`

	// Storage backends: "mongo" binds Mongo + S3, "memory" keeps everything in process
	StorageDriver string `json:"storage_driver"`

	// CNPJ lookup configuration
	CNPJCacheTTL       time.Duration `json:"cnpj_cache_ttl"`
	CNPJLookupTimeout  time.Duration `json:"cnpj_lookup_timeout"`
	CNPJL1CacheMaxCost int64         `json:"cnpj_l1_cache_max_cost"`
	BrasilAPIBaseURL   string        `json:"brasilapi_base_url"`

	// Address autofill configuration
	ViaCEPBaseURL   string        `json:"viacep_base_url"`
	AddressCacheTTL time.Duration `json:"address_cache_ttl"`

	// Blob storage configuration
	S3Bucket       string        `json:"s3_bucket"`
	S3Region       string        `json:"s3_region"`
	S3BaseEndpoint string        `json:"s3_base_endpoint"`
	S3AccessKey    string        `json:"-"`
	S3SecretKey    string        `json:"-"`
	BlobURLTTL     time.Duration `json:"blob_url_ttl"`

	// Admin and identity configuration
	Admin     AdminAllowlist `json:"admin"`
	JWTSecret string         `json:"-"`

	// Tracing configuration
	TracingEnabled  bool   `json:"tracing_enabled"`
	TracingEndpoint string `json:"tracing_endpoint"`

	// Audit worker configuration
	AuditWorkerCount int `json:"audit_worker_count"`
	AuditBufferSize  int `json:"audit_buffer_size"`
}

var (
	AppConfig *Config
)

// LoadConfig loads configuration from environment variables
func LoadConfig() error {
	port, err := strconv.Atoi(getEnvOrDefault("PORT", "8080"))
	if err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}

	redisDB, err := strconv.Atoi(getEnvOrDefault("REDIS_DB", "0"))
	if err != nil {
		return fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	ttlDays, err := strconv.Atoi(getEnvOrDefault("CNPJ_CACHE_TTL_DAYS", "30"))
	if err != nil || ttlDays <= 0 {
		return fmt.Errorf("invalid CNPJ_CACHE_TTL_DAYS: %q", os.Getenv("CNPJ_CACHE_TTL_DAYS"))
	}

	timeoutMs, err := strconv.Atoi(getEnvOrDefault("CNPJ_LOOKUP_TIMEOUT_MS", "4000"))
	if err != nil || timeoutMs <= 0 {
		return fmt.Errorf("invalid CNPJ_LOOKUP_TIMEOUT_MS: %q", os.Getenv("CNPJ_LOOKUP_TIMEOUT_MS"))
	}

	l1MaxCost, err := strconv.ParseInt(getEnvOrDefault("CNPJ_L1_CACHE_MAX_COST", "16777216"), 10, 64)
	if err != nil {
		return fmt.Errorf("invalid CNPJ_L1_CACHE_MAX_COST: %w", err)
	}

	addressCacheTTL, err := time.ParseDuration(getEnvOrDefault("ADDRESS_CACHE_TTL", "24h"))
	if err != nil {
		return fmt.Errorf("invalid ADDRESS_CACHE_TTL: %w", err)
	}

	blobURLTTL, err := time.ParseDuration(getEnvOrDefault("BLOB_URL_TTL", "15m"))
	if err != nil {
		return fmt.Errorf("invalid BLOB_URL_TTL: %w", err)
	}

	storageDriver := getEnvOrDefault("STORAGE_DRIVER", "mongo")
	if storageDriver != "mongo" && storageDriver != "memory" {
		return fmt.Errorf("invalid STORAGE_DRIVER: %q (expected mongo or memory)", storageDriver)
	}

	AppConfig = &Config{
		// Server configuration
		Port:        port,
		Environment: getEnvOrDefault("ENVIRONMENT", "development"),

		// MongoDB configuration
		MongoURI:      getEnvOrDefault("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnvOrDefault("MONGODB_DATABASE", "onboarding"),

		// Redis configuration
		RedisURI:      getEnvOrDefault("REDIS_URI", "localhost:6379"),
		RedisPassword: getEnvOrDefault("REDIS_PASSWORD", ""),
		RedisDB:       redisDB,

		// Collection names
		RegistrationsCollection:  getEnvOrDefault("MONGODB_REGISTRATIONS_COLLECTION", "registrations"),
		CNPJLookupLogsCollection: getEnvOrDefault("MONGODB_CNPJ_LOOKUP_LOGS_COLLECTION", "cnpj_lookup_logs"),
		AuditLogsCollection:      getEnvOrDefault("MONGODB_AUDIT_LOGS_COLLECTION", "audit_logs"),

		StorageDriver: storageDriver,

		// CNPJ lookup configuration
		CNPJCacheTTL:       time.Duration(ttlDays) * 24 * time.Hour,
		CNPJLookupTimeout:  time.Duration(timeoutMs) * time.Millisecond,
		CNPJL1CacheMaxCost: l1MaxCost,
		BrasilAPIBaseURL:   getEnvOrDefault("BRASILAPI_BASE_URL", "https://brasilapi.com.br/api/cnpj/v1"),

		// Address autofill configuration
		ViaCEPBaseURL:   getEnvOrDefault("VIACEP_BASE_URL", "https://viacep.com.br/ws"),
		AddressCacheTTL: addressCacheTTL,

		// Blob storage configuration
		S3Bucket:       getEnvOrDefault("S3_BUCKET", ""),
		S3Region:       getEnvOrDefault("S3_REGION", "us-east-1"),
		S3BaseEndpoint: getEnvOrDefault("S3_BASE_ENDPOINT", ""),
		S3AccessKey:    getEnvOrDefault("S3_ACCESS_KEY", ""),
		S3SecretKey:    getEnvOrDefault("S3_SECRET_KEY", ""),
		BlobURLTTL:     blobURLTTL,

		// Admin and identity configuration
		Admin:     ParseAdminAllowlist(getEnvOrDefault("ADMIN_EMAILS", "")),
		JWTSecret: getEnvOrDefault("JWT_SECRET", ""),

		// Tracing configuration
		TracingEnabled:  getEnvAsBoolOrDefault("TRACING_ENABLED", false),
		TracingEndpoint: getEnvOrDefault("TRACING_ENDPOINT", "localhost:4317"),

		// Audit worker configuration
		AuditWorkerCount: getEnvAsIntOrDefault("AUDIT_WORKER_COUNT", 2),
		AuditBufferSize:  getEnvAsIntOrDefault("AUDIT_BUFFER_SIZE", 1000),
	}

	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault returns the integer value of an environment variable or the default
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault returns the boolean value of an environment variable or the default
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Server   ServerConfig
	Remote   RemoteConfig
	Quota    QuotaConfig
	Monitor  MonitorConfig
	Policies PolicyConfig
	Taxonomy TaxonomyConfig
	Storage  StorageConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// RemoteConfig holds the remote classification gateway settings
type RemoteConfig struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// QuotaConfig holds daily remote-call budget settings
type QuotaConfig struct {
	MaxRequestsPerDay int
	CacheTTL          time.Duration
	CacheSize         int
}

// MonitorConfig holds continuous-monitoring scheduler settings
type MonitorConfig struct {
	PollInterval    time.Duration
	DebounceWindow  time.Duration
	MinInputLen     int
	MinInsertLen    int
	HighThreshold   float64
	MediumThreshold float64
	LogThreshold    float64
}

// PolicyConfig holds policy loading settings
type PolicyConfig struct {
	Path         string
	WatchChanges bool
}

// TaxonomyConfig holds fraud category loading settings
type TaxonomyConfig struct {
	Directory string
}

// StorageConfig holds local persistence settings
type StorageConfig struct {
	Directory string
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level     string // debug, info, warn, error
	Format    string // json, text
	AuditPath string // alert audit trail file, empty for stdout
}

// MetricsConfig holds metrics/monitoring settings
type MetricsConfig struct {
	Enabled  bool
	Port     int
	Endpoint string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  time.Duration(getEnvInt("SERVER_READ_TIMEOUT_SEC", 30)) * time.Second,
			WriteTimeout: time.Duration(getEnvInt("SERVER_WRITE_TIMEOUT_SEC", 60)) * time.Second,
		},
		Remote: RemoteConfig{
			BaseURL: getEnv("REMOTE_URL", ""),
			APIKey:  getEnv("REMOTE_KEY", ""),
			Model:   getEnv("REMOTE_MODEL", "gpt-4o-mini"),
			Timeout: time.Duration(getEnvInt("REMOTE_TIMEOUT_SEC", 10)) * time.Second,
		},
		Quota: QuotaConfig{
			MaxRequestsPerDay: getEnvInt("QUOTA_MAX_PER_DAY", 100),
			CacheTTL:          time.Duration(getEnvInt("QUOTA_CACHE_TTL_SEC", 600)) * time.Second,
			CacheSize:         getEnvInt("QUOTA_CACHE_SIZE", 1000),
		},
		Monitor: MonitorConfig{
			PollInterval:    time.Duration(getEnvInt("MONITOR_POLL_MS", 2000)) * time.Millisecond,
			DebounceWindow:  time.Duration(getEnvInt("MONITOR_DEBOUNCE_MS", 1000)) * time.Millisecond,
			MinInputLen:     getEnvInt("MONITOR_MIN_INPUT_LEN", 10),
			MinInsertLen:    getEnvInt("MONITOR_MIN_INSERT_LEN", 20),
			HighThreshold:   float64(getEnvInt("MONITOR_HIGH_THRESHOLD", 70)),
			MediumThreshold: float64(getEnvInt("MONITOR_MEDIUM_THRESHOLD", 40)),
			LogThreshold:    float64(getEnvInt("MONITOR_LOG_THRESHOLD", 20)),
		},
		Policies: PolicyConfig{
			Path:         getEnv("POLICY_PATH", ""),
			WatchChanges: getEnvBool("POLICY_WATCH_CHANGES", true),
		},
		Taxonomy: TaxonomyConfig{
			Directory: getEnv("TAXONOMY_DIR", "configs/categories"),
		},
		Storage: StorageConfig{
			Directory: getEnv("STATE_DIR", "data"),
		},
		Logging: LoggingConfig{
			Level:     getEnv("LOG_LEVEL", "info"),
			Format:    getEnv("LOG_FORMAT", "text"),
			AuditPath: getEnv("AUDIT_LOG_PATH", "logs/alerts.jsonl"),
		},
		Metrics: MetricsConfig{
			Enabled:  getEnvBool("METRICS_ENABLED", true),
			Port:     getEnvInt("METRICS_PORT", 9090),
			Endpoint: getEnv("METRICS_ENDPOINT", "/metrics"),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

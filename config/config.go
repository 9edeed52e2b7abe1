// Package config provides configuration management for the packaging planner service.
//
// Values are resolved in layers: built-in defaults, an optional YAML file,
// environment variables and finally command-line overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/guttosm/packgenius/internal/domain/model"
)

// Config holds the complete application configuration.
type Config struct {
	Server   ServerConfig
	Cache    CacheConfig
	Auth     AuthConfig
	Database DatabaseConfig
	Planner  PlannerConfig
	Advisor  AdvisorConfig
	Log      LogConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port           string
	RateLimit      int
	RateWindow     time.Duration
	RequestTimeout time.Duration
	CORSOrigins    []string
	SwaggerUser    string
	SwaggerPass    string
}

// CacheConfig holds cache configuration.
type CacheConfig struct {
	// Size and TTL bound the advisory analysis cache.
	Size int
	TTL  time.Duration
	// InventoryTTL is how long an inventory snapshot is reused.
	InventoryTTL time.Duration
}

// AuthConfig holds authentication configuration.
type AuthConfig struct {
	Enabled      bool
	APIKeys      map[string]bool
	JWTSecretKey string
	JWTIssuer    string
}

// DatabaseConfig holds MongoDB configuration.
type DatabaseConfig struct {
	URI          string
	DatabaseName string
	LogsTTL      time.Duration
	Enabled      bool
	// CircuitBreaker configuration
	CircuitBreakerFailureThreshold int
	CircuitBreakerSuccessThreshold int
	CircuitBreakerTimeout          time.Duration
}

// PlannerConfig holds the defaults passed into every plan.
type PlannerConfig struct {
	// Unit documents the length unit shared by products, cartons and gaps.
	Unit               string
	SafetyGaps         model.SafetyGaps
	InnerWallThickness float64
	// Strict rejects invalid input instead of producing a degenerate plan.
	Strict             bool
	CorrectRotatedGaps bool
	DefaultInventory   []model.BoxItem
	HistoryLimit       int
	MaxHistoryItems    int
	MaxInventoryItems  int
}

// AdvisorConfig holds the advisory LLM client configuration.
type AdvisorConfig struct {
	Enabled         bool
	APIKey          string
	BaseURL         string
	Model           string
	Timeout         time.Duration
	RateLimit       float64
	Burst           int
	DefaultLanguage string
}

// LogConfig holds logger and audit log settings.
type LogConfig struct {
	Level  string
	Pretty bool
	// AsyncBufferSize and AsyncWorkers size the audit log queue.
	AsyncBufferSize int
	AsyncWorkers    int
}

// Overrides holds command-line values that take precedence over everything else.
type Overrides struct {
	ConfigFile     string
	Port           *string
	MongoEnabled   *bool
	AdvisorEnabled *bool
	Strict         *bool
	LogLevel       *string
}

// DefaultInventory returns the stock carton list used to seed an empty store.
func DefaultInventory() []model.BoxItem {
	return []model.BoxItem{
		model.NewBoxItem("BOX-001", 200, 150, 100),
		model.NewBoxItem("BOX-002", 300, 200, 150),
		model.NewBoxItem("BOX-003", 100, 100, 100),
		model.NewBoxItem("BOX-004", 500, 400, 300),
		model.NewBoxItem("BOX-005", 250, 250, 120),
		model.NewBoxItem("BOX-006", 180, 180, 90),
		model.NewBoxItem("BOX-007", 600, 600, 600),
	}
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           "8080",
			RateLimit:      100,
			RateWindow:     time.Minute,
			RequestTimeout: 30 * time.Second,
			CORSOrigins:    parseCORSOrigins(""),
		},
		Cache: CacheConfig{
			Size:         1000,
			TTL:          time.Hour,
			InventoryTTL: 30 * time.Second,
		},
		Auth: AuthConfig{
			JWTIssuer: "packgenius",
		},
		Database: DatabaseConfig{
			URI:                            "mongodb://localhost:27017",
			DatabaseName:                   "packgenius",
			LogsTTL:                        30 * 24 * time.Hour,
			CircuitBreakerFailureThreshold: 5,
			CircuitBreakerSuccessThreshold: 2,
			CircuitBreakerTimeout:          30 * time.Second,
		},
		Planner: PlannerConfig{
			Unit:               "mm",
			SafetyGaps:         model.DefaultSafetyGaps(),
			InnerWallThickness: model.DefaultInnerWallThickness,
			DefaultInventory:   DefaultInventory(),
			HistoryLimit:       20,
			MaxHistoryItems:    100,
			MaxInventoryItems:  1000,
		},
		Advisor: AdvisorConfig{
			BaseURL:         "https://api.deepseek.com",
			Model:           "deepseek-chat",
			Timeout:         20 * time.Second,
			RateLimit:       2,
			Burst:           4,
			DefaultLanguage: "en",
		},
		Log: LogConfig{
			Level:           "info",
			AsyncBufferSize: 1000,
			AsyncWorkers:    4,
		},
	}
}

// Load creates a Config from defaults and environment variables.
func Load() Config {
	return applyEnv(Defaults())
}

// LoadWithOverrides resolves defaults, the YAML file named by overrides or
// CONFIG_FILE, environment variables and CLI overrides, in that order.
func LoadWithOverrides(o *Overrides) (Config, error) {
	cfg := Defaults()

	path := os.Getenv("CONFIG_FILE")
	if o != nil && o.ConfigFile != "" {
		path = o.ConfigFile
	}
	if path != "" {
		fc, err := loadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("load config file: %w", err)
		}
		if err := fc.apply(&cfg); err != nil {
			return Config{}, fmt.Errorf("apply config file: %w", err)
		}
	}

	cfg = applyEnv(cfg)

	if o != nil {
		if o.Port != nil && *o.Port != "" {
			cfg.Server.Port = *o.Port
		}
		if o.MongoEnabled != nil {
			cfg.Database.Enabled = *o.MongoEnabled
		}
		if o.AdvisorEnabled != nil {
			cfg.Advisor.Enabled = *o.AdvisorEnabled
		}
		if o.Strict != nil {
			cfg.Planner.Strict = *o.Strict
		}
		if o.LogLevel != nil && *o.LogLevel != "" {
			cfg.Log.Level = *o.LogLevel
		}
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks values that would make the service misbehave.
func (c Config) Validate() error {
	var errs []error
	if c.Server.Port == "" {
		errs = append(errs, errors.New("server port must not be empty"))
	}
	if c.Planner.Unit == "" {
		errs = append(errs, errors.New("planner unit must not be empty"))
	}
	g := c.Planner.SafetyGaps
	if g.L < 0 || g.W < 0 || g.H < 0 {
		errs = append(errs, errors.New("safety gaps must be zero or greater"))
	}
	if c.Planner.InnerWallThickness < 0 {
		errs = append(errs, errors.New("inner wall thickness must be zero or greater"))
	}
	if c.Planner.HistoryLimit < 1 || c.Planner.HistoryLimit > c.Planner.MaxHistoryItems {
		errs = append(errs, fmt.Errorf("history limit must be between 1 and %d", c.Planner.MaxHistoryItems))
	}
	if c.Auth.Enabled && len(c.Auth.APIKeys) == 0 && c.Auth.JWTSecretKey == "" {
		errs = append(errs, errors.New("auth enabled without API_KEYS or JWT_SECRET_KEY"))
	}
	if c.Advisor.Enabled && c.Advisor.APIKey == "" {
		errs = append(errs, errors.New("advisor enabled without DEEPSEEK_API_KEY"))
	}
	return errors.Join(errs...)
}

func applyEnv(cfg Config) Config {
	cfg.Server = ServerConfig{
		Port:           getEnv("PORT", cfg.Server.Port),
		RateLimit:      getEnvInt("RATE_LIMIT", cfg.Server.RateLimit),
		RateWindow:     getEnvDuration("RATE_WINDOW", cfg.Server.RateWindow),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", cfg.Server.RequestTimeout),
		CORSOrigins:    cfg.Server.CORSOrigins,
		SwaggerUser:    getEnv("SWAGGER_USER", cfg.Server.SwaggerUser),
		SwaggerPass:    getEnv("SWAGGER_PASS", cfg.Server.SwaggerPass),
	}
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = parseCORSOrigins(v)
	}

	cfg.Cache = CacheConfig{
		Size:         getEnvInt("CACHE_SIZE", cfg.Cache.Size),
		TTL:          getEnvDuration("CACHE_TTL", cfg.Cache.TTL),
		InventoryTTL: getEnvDuration("INVENTORY_CACHE_TTL", cfg.Cache.InventoryTTL),
	}

	cfg.Auth.Enabled = getEnvBool("AUTH_ENABLED", cfg.Auth.Enabled)
	if keys := parseAPIKeys(os.Getenv("API_KEYS")); keys != nil {
		cfg.Auth.APIKeys = keys
	}
	cfg.Auth.JWTSecretKey = getEnv("JWT_SECRET_KEY", cfg.Auth.JWTSecretKey)
	cfg.Auth.JWTIssuer = getEnv("JWT_ISSUER", cfg.Auth.JWTIssuer)

	cfg.Database = DatabaseConfig{
		URI:                            getEnv("MONGODB_URI", cfg.Database.URI),
		DatabaseName:                   getEnv("MONGODB_DATABASE", cfg.Database.DatabaseName),
		LogsTTL:                        getEnvDuration("MONGODB_LOGS_TTL", cfg.Database.LogsTTL),
		Enabled:                        getEnvBool("MONGODB_ENABLED", cfg.Database.Enabled),
		CircuitBreakerFailureThreshold: getEnvInt("CIRCUIT_BREAKER_FAILURE_THRESHOLD", cfg.Database.CircuitBreakerFailureThreshold),
		CircuitBreakerSuccessThreshold: getEnvInt("CIRCUIT_BREAKER_SUCCESS_THRESHOLD", cfg.Database.CircuitBreakerSuccessThreshold),
		CircuitBreakerTimeout:          getEnvDuration("CIRCUIT_BREAKER_TIMEOUT", cfg.Database.CircuitBreakerTimeout),
	}

	p := &cfg.Planner
	p.Unit = getEnv("DIMENSION_UNIT", p.Unit)
	p.SafetyGaps = model.SafetyGaps{
		L: getEnvFloat("SAFETY_GAP_L", p.SafetyGaps.L),
		W: getEnvFloat("SAFETY_GAP_W", p.SafetyGaps.W),
		H: getEnvFloat("SAFETY_GAP_H", p.SafetyGaps.H),
	}
	p.InnerWallThickness = getEnvFloat("INNER_WALL_THICKNESS", p.InnerWallThickness)
	p.Strict = getEnvBool("PLANNER_STRICT", p.Strict)
	p.CorrectRotatedGaps = getEnvBool("PLANNER_CORRECT_ROTATED_GAPS", p.CorrectRotatedGaps)
	p.HistoryLimit = getEnvInt("HISTORY_LIMIT", p.HistoryLimit)
	p.MaxHistoryItems = getEnvInt("HISTORY_MAX_ITEMS", p.MaxHistoryItems)

	a := &cfg.Advisor
	a.APIKey = getEnv("DEEPSEEK_API_KEY", a.APIKey)
	a.Enabled = getEnvBool("ADVISOR_ENABLED", a.Enabled || a.APIKey != "")
	a.BaseURL = getEnv("ADVISOR_BASE_URL", a.BaseURL)
	a.Model = getEnv("ADVISOR_MODEL", a.Model)
	a.Timeout = getEnvDuration("ADVISOR_TIMEOUT", a.Timeout)
	a.RateLimit = getEnvFloat("ADVISOR_RATE_LIMIT", a.RateLimit)
	a.Burst = getEnvInt("ADVISOR_BURST", a.Burst)
	a.DefaultLanguage = getEnv("DEFAULT_LANGUAGE", a.DefaultLanguage)

	l := &cfg.Log
	l.Level = getEnv("LOG_LEVEL", l.Level)
	l.Pretty = getEnvBool("LOG_PRETTY", l.Pretty)
	l.AsyncBufferSize = getEnvInt("LOG_BUFFER_SIZE", l.AsyncBufferSize)
	l.AsyncWorkers = getEnvInt("LOG_WORKERS", l.AsyncWorkers)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func parseAPIKeys(s string) map[string]bool {
	if s == "" {
		return nil
	}
	keys := strings.Split(s, ",")
	result := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			result[k] = true
		}
	}
	return result
}

func parseCORSOrigins(s string) []string {
	// Default origins for local development
	defaults := []string{
		"http://localhost:3000",
		"http://127.0.0.1:3000",
		"http://localhost:5173",
	}
	if s == "" {
		return defaults
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts)+len(defaults))
	result = append(result, defaults...)
	for _, p := range parts {
		if origin := strings.TrimSpace(p); origin != "" {
			result = append(result, origin)
		}
	}
	return result
}

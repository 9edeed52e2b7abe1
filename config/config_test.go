package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/packgenius/internal/domain/model"
)

func TestLoad(t *testing.T) {
	t.Run("loads default values", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Equal(t, "8080", cfg.Server.Port)
		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 1000, cfg.Cache.Size)
		assert.Equal(t, 30*time.Second, cfg.Cache.InventoryTTL)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, "mm", cfg.Planner.Unit)
		assert.Equal(t, model.DefaultSafetyGaps(), cfg.Planner.SafetyGaps)
		assert.Equal(t, 1.0, cfg.Planner.InnerWallThickness)
		assert.Len(t, cfg.Planner.DefaultInventory, 7)
		assert.False(t, cfg.Advisor.Enabled)
		assert.Equal(t, "deepseek-chat", cfg.Advisor.Model)
	})

	t.Run("loads values from environment", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("PORT", "9090")
		_ = os.Setenv("RATE_LIMIT", "50")
		_ = os.Setenv("RATE_WINDOW", "30s")
		_ = os.Setenv("CACHE_SIZE", "500")
		_ = os.Setenv("CACHE_TTL", "10m")
		_ = os.Setenv("AUTH_ENABLED", "true")
		_ = os.Setenv("API_KEYS", "key1,key2")
		_ = os.Setenv("SAFETY_GAP_L", "0.3")
		_ = os.Setenv("SAFETY_GAP_W", "0.3")
		_ = os.Setenv("SAFETY_GAP_H", "0.2")
		_ = os.Setenv("DIMENSION_UNIT", "cm")
		_ = os.Setenv("INNER_WALL_THICKNESS", "3")
		_ = os.Setenv("PLANNER_STRICT", "true")
		_ = os.Setenv("DEEPSEEK_API_KEY", "sk-test")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, "9090", cfg.Server.Port)
		assert.Equal(t, 50, cfg.Server.RateLimit)
		assert.Equal(t, 30*time.Second, cfg.Server.RateWindow)
		assert.Equal(t, 500, cfg.Cache.Size)
		assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
		assert.True(t, cfg.Auth.Enabled)
		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.Equal(t, model.SafetyGaps{L: 0.3, W: 0.3, H: 0.2}, cfg.Planner.SafetyGaps)
		assert.Equal(t, "cm", cfg.Planner.Unit)
		assert.Equal(t, 3.0, cfg.Planner.InnerWallThickness)
		assert.True(t, cfg.Planner.Strict)
		assert.True(t, cfg.Advisor.Enabled)
		assert.Equal(t, "sk-test", cfg.Advisor.APIKey)
	})

	t.Run("handles invalid values gracefully", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("RATE_LIMIT", "invalid")
		_ = os.Setenv("AUTH_ENABLED", "invalid")
		_ = os.Setenv("RATE_WINDOW", "invalid")
		_ = os.Setenv("SAFETY_GAP_L", "wide")
		defer os.Clearenv()

		cfg := Load()

		assert.Equal(t, 100, cfg.Server.RateLimit)
		assert.False(t, cfg.Auth.Enabled)
		assert.Equal(t, time.Minute, cfg.Server.RateWindow)
		assert.Equal(t, 3.0, cfg.Planner.SafetyGaps.L)
	})

	t.Run("advisor can be disabled with a key present", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("DEEPSEEK_API_KEY", "sk-test")
		_ = os.Setenv("ADVISOR_ENABLED", "false")
		defer os.Clearenv()

		cfg := Load()

		assert.False(t, cfg.Advisor.Enabled)
	})

	t.Run("parses API keys with whitespace", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("API_KEYS", " key1 , key2 , key3 ")
		defer os.Clearenv()

		cfg := Load()

		assert.True(t, cfg.Auth.APIKeys["key1"])
		assert.True(t, cfg.Auth.APIKeys["key2"])
		assert.True(t, cfg.Auth.APIKeys["key3"])
	})

	t.Run("returns nil for empty API keys", func(t *testing.T) {
		os.Clearenv()

		cfg := Load()

		assert.Nil(t, cfg.Auth.APIKeys)
	})

	t.Run("appends CORS origins to defaults", func(t *testing.T) {
		os.Clearenv()
		_ = os.Setenv("CORS_ORIGINS", "https://app.example.com, ")
		defer os.Clearenv()

		cfg := Load()

		assert.Contains(t, cfg.Server.CORSOrigins, "http://localhost:3000")
		assert.Contains(t, cfg.Server.CORSOrigins, "https://app.example.com")
	})
}

const sampleYAML = `
server:
  port: "7070"
  rate_window: 2m
database:
  enabled: true
  name: packs
planner:
  unit: cm
  safety_gaps: {l: 0.5, w: 0.5, h: 0.25}
  inner_wall_thickness: 0.3
  correct_rotated_gaps: true
  default_inventory:
    - {id: S, length: 20, width: 15, height: 10}
    - {id: M, length: 40, width: 30, height: 20}
advisor:
  model: deepseek-reasoner
  timeout: 5s
log:
  level: debug
  pretty: true
`

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadWithOverrides(t *testing.T) {
	t.Run("applies YAML file", func(t *testing.T) {
		os.Clearenv()
		path := writeConfigFile(t, sampleYAML)

		cfg, err := LoadWithOverrides(&Overrides{ConfigFile: path})
		require.NoError(t, err)

		assert.Equal(t, "7070", cfg.Server.Port)
		assert.Equal(t, 2*time.Minute, cfg.Server.RateWindow)
		assert.True(t, cfg.Database.Enabled)
		assert.Equal(t, "packs", cfg.Database.DatabaseName)
		assert.Equal(t, "cm", cfg.Planner.Unit)
		assert.Equal(t, model.SafetyGaps{L: 0.5, W: 0.5, H: 0.25}, cfg.Planner.SafetyGaps)
		assert.Equal(t, 0.3, cfg.Planner.InnerWallThickness)
		assert.True(t, cfg.Planner.CorrectRotatedGaps)
		assert.Equal(t, []model.BoxItem{
			model.NewBoxItem("S", 20, 15, 10),
			model.NewBoxItem("M", 40, 30, 20),
		}, cfg.Planner.DefaultInventory)
		assert.Equal(t, "deepseek-reasoner", cfg.Advisor.Model)
		assert.Equal(t, 5*time.Second, cfg.Advisor.Timeout)
		assert.Equal(t, "debug", cfg.Log.Level)
		assert.True(t, cfg.Log.Pretty)
	})

	t.Run("log level flag wins over environment", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()
		_ = os.Setenv("LOG_LEVEL", "warn")
		_ = os.Setenv("LOG_WORKERS", "8")

		level := "error"
		cfg, err := LoadWithOverrides(&Overrides{LogLevel: &level})
		require.NoError(t, err)

		assert.Equal(t, "error", cfg.Log.Level)
		assert.Equal(t, 8, cfg.Log.AsyncWorkers)
		assert.Equal(t, 1000, cfg.Log.AsyncBufferSize)
	})

	t.Run("environment overrides YAML and flags override environment", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()
		path := writeConfigFile(t, sampleYAML)
		_ = os.Setenv("PORT", "6060")
		_ = os.Setenv("DIMENSION_UNIT", "in")

		port := "5050"
		mongo := false
		cfg, err := LoadWithOverrides(&Overrides{ConfigFile: path, Port: &port, MongoEnabled: &mongo})
		require.NoError(t, err)

		assert.Equal(t, "5050", cfg.Server.Port)
		assert.Equal(t, "in", cfg.Planner.Unit)
		assert.False(t, cfg.Database.Enabled)
	})

	t.Run("CONFIG_FILE environment variable", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()
		_ = os.Setenv("CONFIG_FILE", writeConfigFile(t, sampleYAML))

		cfg, err := LoadWithOverrides(nil)
		require.NoError(t, err)

		assert.Equal(t, "7070", cfg.Server.Port)
	})

	t.Run("missing file", func(t *testing.T) {
		os.Clearenv()

		_, err := LoadWithOverrides(&Overrides{ConfigFile: filepath.Join(t.TempDir(), "absent.yaml")})
		assert.Error(t, err)
	})

	t.Run("invalid duration", func(t *testing.T) {
		os.Clearenv()
		path := writeConfigFile(t, "advisor:\n  timeout: soon\n")

		_, err := LoadWithOverrides(&Overrides{ConfigFile: path})
		assert.ErrorContains(t, err, "advisor.timeout")
	})

	t.Run("invalid default inventory", func(t *testing.T) {
		os.Clearenv()
		path := writeConfigFile(t, "planner:\n  default_inventory:\n    - {id: X, length: 0, width: 1, height: 1}\n")

		_, err := LoadWithOverrides(&Overrides{ConfigFile: path})
		assert.ErrorContains(t, err, "default_inventory[0]")
	})

	t.Run("negative gaps fail validation", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()
		_ = os.Setenv("SAFETY_GAP_H", "-1")

		_, err := LoadWithOverrides(nil)
		assert.ErrorContains(t, err, "safety gaps")
	})

	t.Run("advisor enabled without key fails validation", func(t *testing.T) {
		os.Clearenv()
		enabled := true

		_, err := LoadWithOverrides(&Overrides{AdvisorEnabled: &enabled})
		assert.ErrorContains(t, err, "DEEPSEEK_API_KEY")
	})

	t.Run("auth enabled without credentials fails validation", func(t *testing.T) {
		os.Clearenv()
		defer os.Clearenv()
		_ = os.Setenv("AUTH_ENABLED", "true")

		_, err := LoadWithOverrides(nil)
		assert.ErrorContains(t, err, "API_KEYS or JWT_SECRET_KEY")

		_ = os.Setenv("JWT_SECRET_KEY", "secret")
		cfg, err := LoadWithOverrides(nil)
		require.NoError(t, err)
		assert.True(t, cfg.Auth.Enabled)
	})
}

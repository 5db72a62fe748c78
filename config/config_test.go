package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		for _, name := range []string{
			"SKINLENS_SERVER_PORT",
			"SKINLENS_SERVER_ENVIRONMENT",
			"SKINLENS_SERVER_ALLOWED_ORIGINS",
			"SKINLENS_SERVER_SHUTDOWN_TIMEOUT",
			"SKINLENS_MODEL_TYPE",
			"SKINLENS_MODEL_PATH",
			"SKINLENS_MODEL_REMOTE_URL",
			"SKINLENS_MODEL_TIMEOUT",
			"SKINLENS_MODEL_RATE_LIMIT",
			"SKINLENS_CACHE_TYPE",
			"SKINLENS_CACHE_TTL",
			"SKINLENS_CATALOG_PATH",
			"SKINLENS_RATELIMIT_PER_IP",
			"SKINLENS_LOG_LEVEL",
			"SKINLENS_LOG_FORMAT",
		} {
			os.Unsetenv(name)
		}
	}

	// Run from an empty directory so no config.yaml or .env is picked up
	originalDir, _ := os.Getwd()
	defer os.Chdir(originalDir)
	os.Chdir(t.TempDir())

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Server.ShutdownTimeout != 10*time.Second {
			t.Errorf("Server.ShutdownTimeout = %v, want 10s", cfg.Server.ShutdownTimeout)
		}
		if cfg.Model.Type != "linear" {
			t.Errorf("Model.Type = %s, want linear", cfg.Model.Type)
		}
		if cfg.Model.Path != "ingredient_classifier_v1.json" {
			t.Errorf("Model.Path = %s, want ingredient_classifier_v1.json", cfg.Model.Path)
		}
		if cfg.Model.Timeout != 10*time.Second {
			t.Errorf("Model.Timeout = %v, want 10s", cfg.Model.Timeout)
		}
		if cfg.Model.RateLimit != 5 {
			t.Errorf("Model.RateLimit = %v, want 5", cfg.Model.RateLimit)
		}
		if cfg.Cache.Type != "memory" {
			t.Errorf("Cache.Type = %s, want memory", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != time.Hour {
			t.Errorf("Cache.TTL = %v, want 1h", cfg.Cache.TTL)
		}
		if cfg.Catalog.Path != "" {
			t.Errorf("Catalog.Path = %s, want empty", cfg.Catalog.Path)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
			t.Errorf("Log = %+v, want info/json", cfg.Log)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SKINLENS_SERVER_PORT", "9090")
		os.Setenv("SKINLENS_SERVER_ENVIRONMENT", "production")
		os.Setenv("SKINLENS_MODEL_TYPE", "remote")
		os.Setenv("SKINLENS_MODEL_REMOTE_URL", "http://model:9000")
		os.Setenv("SKINLENS_MODEL_TIMEOUT", "3s")
		os.Setenv("SKINLENS_MODEL_RATE_LIMIT", "2.5")
		os.Setenv("SKINLENS_CACHE_TYPE", "none")
		os.Setenv("SKINLENS_CACHE_TTL", "24h")
		os.Setenv("SKINLENS_CATALOG_PATH", "/etc/skinlens/catalog.yaml")
		os.Setenv("SKINLENS_RATELIMIT_PER_IP", "200")
		os.Setenv("SKINLENS_LOG_LEVEL", "debug")
		os.Setenv("SKINLENS_LOG_FORMAT", "console")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Server.Environment != "production" {
			t.Errorf("Server.Environment = %s, want production", cfg.Server.Environment)
		}
		if cfg.Model.Type != "remote" {
			t.Errorf("Model.Type = %s, want remote", cfg.Model.Type)
		}
		if cfg.Model.RemoteURL != "http://model:9000" {
			t.Errorf("Model.RemoteURL = %s, want http://model:9000", cfg.Model.RemoteURL)
		}
		if cfg.Model.Timeout != 3*time.Second {
			t.Errorf("Model.Timeout = %v, want 3s", cfg.Model.Timeout)
		}
		if cfg.Model.RateLimit != 2.5 {
			t.Errorf("Model.RateLimit = %v, want 2.5", cfg.Model.RateLimit)
		}
		if cfg.Cache.Type != "none" {
			t.Errorf("Cache.Type = %s, want none", cfg.Cache.Type)
		}
		if cfg.Cache.TTL != 24*time.Hour {
			t.Errorf("Cache.TTL = %v, want 24h", cfg.Cache.TTL)
		}
		if cfg.Catalog.Path != "/etc/skinlens/catalog.yaml" {
			t.Errorf("Catalog.Path = %s, want /etc/skinlens/catalog.yaml", cfg.Catalog.Path)
		}
		if cfg.RateLimit.PerIP != 200 {
			t.Errorf("RateLimit.PerIP = %d, want 200", cfg.RateLimit.PerIP)
		}
		if cfg.Log.Level != "debug" || cfg.Log.Format != "console" {
			t.Errorf("Log = %+v, want debug/console", cfg.Log)
		}
	})

	t.Run("fails validation when remote URL is missing", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SKINLENS_MODEL_TYPE", "remote")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Fatal("Load() error = nil, want error for missing remote URL")
		}
		want := "invalid configuration: model remote URL is required when model type is 'remote' (set SKINLENS_MODEL_REMOTE_URL)"
		if err.Error() != want {
			t.Errorf("Load() error = %v, want %q", err, want)
		}
	})

	t.Run("fails validation for invalid cache type", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("SKINLENS_CACHE_TYPE", "redis")
		defer cleanupEnv()

		_, err := Load()
		if err == nil {
			t.Error("Load() error = nil, want error for invalid cache type")
		}
	})

	t.Run("reads config.yaml from the working directory", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		yaml := "server:\n  port: \"7070\"\nmodel:\n  type: none\n"
		if err := os.WriteFile("config.yaml", []byte(yaml), 0644); err != nil {
			t.Fatalf("Failed to write config.yaml: %v", err)
		}
		defer os.Remove("config.yaml")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "7070" {
			t.Errorf("Server.Port = %s, want 7070", cfg.Server.Port)
		}
		if cfg.Model.Type != "none" {
			t.Errorf("Model.Type = %s, want none", cfg.Model.Type)
		}
	})
}

// inTempDir runs the rest of the test from an empty directory
func inTempDir(t *testing.T) {
	t.Helper()
	originalDir, _ := os.Getwd()
	t.Cleanup(func() { os.Chdir(originalDir) })
	os.Chdir(t.TempDir())
}

func writeEnvFile(t *testing.T, content string) {
	t.Helper()
	if err := os.WriteFile(".env", []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test .env file: %v", err)
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("returns nil when .env file doesn't exist", func(t *testing.T) {
		inTempDir(t)

		if err := loadEnvFile(); err != nil {
			t.Errorf("loadEnvFile() error = %v, want nil when file doesn't exist", err)
		}
	})

	t.Run("loads variables and skips comments", func(t *testing.T) {
		inTempDir(t)
		writeEnvFile(t, `
# Comment line
SKINLENS_TEST_VAR_1=value1
SKINLENS_TEST_VAR_2=value2

# SKINLENS_TEST_COMMENTED=should_not_load
`)
		for _, name := range []string{"SKINLENS_TEST_VAR_1", "SKINLENS_TEST_VAR_2", "SKINLENS_TEST_COMMENTED"} {
			os.Unsetenv(name)
			defer os.Unsetenv(name)
		}

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if got := os.Getenv("SKINLENS_TEST_VAR_1"); got != "value1" {
			t.Errorf("SKINLENS_TEST_VAR_1 = %s, want value1", got)
		}
		if got := os.Getenv("SKINLENS_TEST_VAR_2"); got != "value2" {
			t.Errorf("SKINLENS_TEST_VAR_2 = %s, want value2", got)
		}
		if _, set := os.LookupEnv("SKINLENS_TEST_COMMENTED"); set {
			t.Errorf("SKINLENS_TEST_COMMENTED should not be loaded from comment")
		}
	})

	t.Run("doesn't override existing environment variables", func(t *testing.T) {
		inTempDir(t)
		writeEnvFile(t, "SKINLENS_TEST_OVERRIDE=new-value\n")

		os.Setenv("SKINLENS_TEST_OVERRIDE", "existing-value")
		defer os.Unsetenv("SKINLENS_TEST_OVERRIDE")

		if err := loadEnvFile(); err != nil {
			t.Fatalf("loadEnvFile() error = %v, want nil", err)
		}

		if got := os.Getenv("SKINLENS_TEST_OVERRIDE"); got != "existing-value" {
			t.Errorf("SKINLENS_TEST_OVERRIDE = %s, want existing-value (should not override)", got)
		}
	})

	t.Run("values from .env reach Load", func(t *testing.T) {
		inTempDir(t)
		writeEnvFile(t, "SKINLENS_SERVER_PORT=6060\nSKINLENS_MODEL_TYPE=none\n")
		os.Unsetenv("SKINLENS_SERVER_PORT")
		os.Unsetenv("SKINLENS_MODEL_TYPE")
		defer os.Unsetenv("SKINLENS_SERVER_PORT")
		defer os.Unsetenv("SKINLENS_MODEL_TYPE")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}
		if cfg.Server.Port != "6060" {
			t.Errorf("Server.Port = %s, want 6060", cfg.Server.Port)
		}
	})
}

func validConfig() *Config {
	return &Config{
		Model: ModelConfig{
			Type: "linear",
			Path: "model.json",
		},
		Cache: CacheConfig{
			Type: "memory",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidate(t *testing.T) {
	t.Run("validates successfully with all required fields", func(t *testing.T) {
		if err := validate(validConfig()); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails when linear model has no path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Model.Path = ""
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for empty model path")
		}
	})

	t.Run("fails for invalid model type", func(t *testing.T) {
		cfg := validConfig()
		cfg.Model.Type = "onnx"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid model type")
		}
	})

	t.Run("validates remote model with URL", func(t *testing.T) {
		cfg := validConfig()
		cfg.Model = ModelConfig{Type: "remote", RemoteURL: "http://localhost:9000"}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil for valid remote config", err)
		}
	})

	t.Run("validates model type none without path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Model = ModelConfig{Type: "none"}
		if err := validate(cfg); err != nil {
			t.Errorf("validate() error = %v, want nil", err)
		}
	})

	t.Run("fails for invalid cache type", func(t *testing.T) {
		cfg := validConfig()
		cfg.Cache.Type = "invalid-type"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid cache type")
		}
	})

	t.Run("fails for negative per-ip rate limit", func(t *testing.T) {
		cfg := validConfig()
		cfg.RateLimit.PerIP = -1
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for negative rate limit")
		}
	})

	t.Run("fails for invalid log format", func(t *testing.T) {
		cfg := validConfig()
		cfg.Log.Format = "xml"
		if err := validate(cfg); err == nil {
			t.Error("validate() error = nil, want error for invalid log format")
		}
	})
}

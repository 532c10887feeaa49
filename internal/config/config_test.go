package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"ADDR", "DB_PATH", "SESSION_SECRET", "SESSION_COOKIE", "SESSION_SECURE", "SESSION_MAX_AGE", "LOG_LEVEL", "LOG_FORMAT", "APP_ENV"} {
		t.Setenv(key, "")
	}
}

func TestLoadWithDefaults_Succeeds(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadWithDefaults()
	if err != nil {
		t.Fatalf("LoadWithDefaults: %v", err)
	}
	if cfg.Server.Addr != ":8080" || cfg.Database.Path == "" || cfg.Session.Secret == "" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Session.CookieName != "bill_session" || cfg.Session.MaxAge != 30*24*time.Hour {
		t.Errorf("unexpected session defaults: %+v", cfg.Session)
	}
}

func TestLoad_RequiresSessionSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("DB_PATH", "test.db")

	if _, err := Load(); err == nil {
		t.Fatalf("expected error when SESSION_SECRET is not set")
	}

	t.Setenv("SESSION_SECRET", "x")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load with secret set: %v", err)
	}
	if cfg.Database.Path != "test.db" {
		t.Errorf("DB path = %q, want test.db", cfg.Database.Path)
	}
}

func TestLoad_ParsesTypedValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "x")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("SESSION_MAX_AGE", "2h")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Session.Secure || cfg.Session.MaxAge != 2*time.Hour {
		t.Errorf("unexpected session config: %+v", cfg.Session)
	}

	t.Setenv("SESSION_SECURE", "maybe")
	if _, err := Load(); err == nil {
		t.Error("expected error for invalid SESSION_SECURE")
	}
}

func TestLoadForEnv(t *testing.T) {
	tests := []struct {
		name    string
		appEnv  string
		secret  string
		wantErr bool
	}{
		{"production requires secret", "", "", true},
		{"production with secret", "production", "x", false},
		{"development falls back to default secret", "development", "", false},
		{"development is case insensitive", "Development", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv("APP_ENV", tt.appEnv)
			t.Setenv("SESSION_SECRET", tt.secret)

			cfg, err := LoadForEnv()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadForEnv: %v", err)
			}
			if cfg.Session.Secret == "" {
				t.Error("expected a session secret")
			}
		})
	}
}

func TestString_MasksSecret(t *testing.T) {
	clearEnv(t)
	t.Setenv("SESSION_SECRET", "super-secret")
	cfg, _ := Load()
	if strings.Contains(cfg.String(), "super-secret") {
		t.Errorf("secret leaked: %s", cfg.String())
	}
}

func TestLoadEnvFiles(t *testing.T) {
	const key = "BILLTRACKER_TEST_FROM_DOTENV"
	os.Unsetenv(key)
	t.Cleanup(func() { os.Unsetenv(key) })

	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte(key+"=loaded\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if err := LoadEnvFiles(filepath.Join(dir, "missing.env"), envFile); err != nil {
		t.Fatalf("LoadEnvFiles: %v", err)
	}
	if got := os.Getenv(key); got != "loaded" {
		t.Errorf("%s = %q, want loaded", key, got)
	}

	if err := LoadEnvFiles(filepath.Join(dir, "nope.env")); err != nil {
		t.Errorf("missing files should be skipped, got %v", err)
	}
}

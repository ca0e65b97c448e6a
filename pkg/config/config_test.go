package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Port != "8080" {
		t.Errorf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %q", cfg.Env)
	}
	if cfg.MongoDatabase != "travo" {
		t.Errorf("expected default mongo database travo, got %q", cfg.MongoDatabase)
	}
	if cfg.FCMCredentialsPath != "" {
		t.Errorf("expected FCM disabled by default, got %q", cfg.FCMCredentialsPath)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("JWT_SECRET", "super-secret")

	cfg := Load()

	if cfg.Port != "9090" {
		t.Errorf("expected port 9090, got %q", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Errorf("expected env production, got %q", cfg.Env)
	}
	if cfg.JWTSecret != "super-secret" {
		t.Errorf("expected overridden JWT secret, got %q", cfg.JWTSecret)
	}
}

func TestLoadAppliesDotEnvFile(t *testing.T) {
	dir := t.TempDir()
	env := "PORT=9999\nJWT_SECRET=from-dotenv\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(env), 0o644); err != nil {
		t.Fatalf("writing .env: %v", err)
	}

	// t.Setenv registers restoration of the original values; the unset makes
	// the .env file the only source.
	for _, key := range []string{"PORT", "JWT_SECRET"} {
		t.Setenv(key, "placeholder")
		os.Unsetenv(key)
	}
	t.Chdir(dir)

	cfg := Load()

	if cfg.Port != "9999" {
		t.Errorf("expected port 9999 from .env, got %q", cfg.Port)
	}
	if cfg.JWTSecret != "from-dotenv" {
		t.Errorf("expected JWT secret from .env, got %q", cfg.JWTSecret)
	}
}

package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/ballers_test")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("Port = %q, want the 8080 default", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("Env = %q, want development", cfg.Env)
	}
	if cfg.DatabaseURL != "postgres://localhost/ballers_test" {
		t.Fatalf("DatabaseURL = %q, want the env value", cfg.DatabaseURL)
	}
}

func TestLoadExplicitValues(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.Env != "production" {
		t.Fatalf("Env = %q, want production", cfg.Env)
	}
}

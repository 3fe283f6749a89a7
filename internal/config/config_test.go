package config

import "testing"

func TestGetEnvFallback(t *testing.T) {
	if got := getEnv("ESTATEBOOK_UNSET_KEY", "fallback"); got != "fallback" {
		t.Errorf("getEnv() = %q, want fallback", got)
	}

	t.Setenv("ESTATEBOOK_SET_KEY", "value")
	if got := getEnv("ESTATEBOOK_SET_KEY", "fallback"); got != "value" {
		t.Errorf("getEnv() = %q, want value", got)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("DATABASE_PATH", "/tmp/test.db")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if cfg.DatabasePath != "/tmp/test.db" {
		t.Errorf("DatabasePath = %q, want /tmp/test.db", cfg.DatabasePath)
	}
}

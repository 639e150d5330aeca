package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("VIOLIN_PRICE_CEILING", "")
	t.Setenv("TOP_LIMIT", "")

	cfg := Load()
	if cfg.Port != "8080" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "8080")
	}
	if cfg.TopLimit != 10 {
		t.Errorf("TopLimit: got %d, want 10", cfg.TopLimit)
	}
	if cfg.ViolinCeiling != 300 {
		t.Errorf("ViolinCeiling: got %.2f, want 300", cfg.ViolinCeiling)
	}
	if cfg.SnapshotURL != "http://localhost:8080/" {
		t.Errorf("SnapshotURL: got %q", cfg.SnapshotURL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TOP_LIMIT", "5")
	t.Setenv("VIOLIN_PRICE_CEILING", "150.5")
	t.Setenv("LOAD_CONCURRENCY", "not-a-number")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg := Load()
	if cfg.Port != "9090" {
		t.Errorf("Port: got %q, want %q", cfg.Port, "9090")
	}
	if cfg.TopLimit != 5 {
		t.Errorf("TopLimit: got %d, want 5", cfg.TopLimit)
	}
	if cfg.ViolinCeiling != 150.5 {
		t.Errorf("ViolinCeiling: got %.2f, want 150.5", cfg.ViolinCeiling)
	}
	if cfg.LoadConcurrency != 2 {
		t.Errorf("LoadConcurrency: got %d, want fallback 2", cfg.LoadConcurrency)
	}
	if !cfg.Debug() {
		t.Error("Debug() should be true for LOG_LEVEL=DEBUG")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "db", PostgresPort: "5433", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "perfume_db", PostgresSSLMode: "disable",
	}
	want := "host=db port=5433 user=u password=p dbname=perfume_db sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN() = %q; want %q", got, want)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/etnz/krd"
	"github.com/google/go-cmp/cmp"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	conv, err := cfg.Convention()
	if err != nil {
		t.Fatalf("Convention() unexpected error: %v", err)
	}
	if conv != krd.DefaultConvention {
		t.Errorf("Convention() = %v, want %v", conv, krd.DefaultConvention)
	}
	mode, err := cfg.Mode()
	if err != nil {
		t.Fatalf("Mode() unexpected error: %v", err)
	}
	if mode != krd.Discrete {
		t.Errorf("Mode() = %v, want discrete", mode)
	}
	if cfg.Workers <= 0 {
		t.Errorf("Workers = %d, want > 0", cfg.Workers)
	}
	if cfg.Log.Level != "info" || cfg.Server.Addr != ":8080" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "krd.yaml")
	content := `
periods_per_year: 12
compounding: continuous
currency: USD
log:
  level: debug
server:
  addr: ":9090"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}

	want := Default()
	want.PeriodsPerYear = 12
	want.Compounding = "continuous"
	want.Currency = "USD"
	want.Log.Level = "debug"
	want.Server.Addr = ":9090"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("Load() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadEnv(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("KRD_PERIODS_PER_YEAR", "2")
	t.Setenv("KRD_LOG_FORMAT", "json")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if cfg.PeriodsPerYear != 2 {
		t.Errorf("PeriodsPerYear = %d, want 2", cfg.PeriodsPerYear)
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want json", cfg.Log.Format)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Errorf("Load() with a missing explicit file expected an error")
	}
}

func TestInvalid(t *testing.T) {
	cfg := Default()
	cfg.PeriodsPerYear = 0
	if _, err := cfg.Convention(); !errors.Is(err, krd.ErrNumeric) {
		t.Errorf("Convention() error = %v, want ErrNumeric", err)
	}
	cfg.Compounding = "weekly"
	if _, err := cfg.Mode(); err == nil {
		t.Errorf("Mode() expected an error")
	}
}

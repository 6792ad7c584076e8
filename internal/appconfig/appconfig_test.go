package appconfig

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestDefaults(t *testing.T) {
	d := Defaults()
	if d.DPI != 203 || d.WidthDots != 576 || d.Adapter != "stub" {
		t.Fatalf("unexpected defaults: %+v", d)
	}
}

func TestLoadFallsBackToDefaultsWithNoConfigFileOrFlags(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DPI != 203 || cfg.WidthDots != 576 || cfg.Adapter != "stub" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "escreceipt.yaml")
	contents := "dpi: 300\nwidth: 832\nadapter: png\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("failed writing test config: %v", err)
	}
	cfg, err := Load(dir, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.DPI != 300 || cfg.WidthDots != 832 || cfg.Adapter != "png" {
		t.Fatalf("expected file-provided config, got %+v", cfg)
	}
}

func TestLoadFlagsOverrideConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "escreceipt.yaml")
	if err := os.WriteFile(path, []byte("adapter: png\n"), 0o644); err != nil {
		t.Fatalf("failed writing test config: %v", err)
	}
	flags := viper.New()
	flags.Set("adapter", "refadapter")
	cfg, err := Load(dir, flags)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Adapter != "refadapter" {
		t.Fatalf("expected flag to override config file, got %q", cfg.Adapter)
	}
}

func TestNewLoggerBuildsAWorkingLogger(t *testing.T) {
	cfg := Defaults()
	log, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log == nil {
		t.Fatalf("expected a non-nil logger")
	}
	log.Info("smoke test")
}

func TestNewLoggerFallsBackToInfoOnUnknownLevel(t *testing.T) {
	cfg := Defaults()
	cfg.LogLevel = "not-a-real-level"
	log, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if log == nil {
		t.Fatalf("expected a non-nil logger")
	}
}

func TestNewLoggerWritesToRotatingFileWhenConfigured(t *testing.T) {
	dir := t.TempDir()
	cfg := Defaults()
	cfg.LogFile = filepath.Join(dir, "escreceipt.log")
	log, err := NewLogger(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	log.Info("hello file sink")
	log.Sync()
	if _, err := os.Stat(cfg.LogFile); err != nil {
		t.Fatalf("expected log file to be created: %v", err)
	}
}

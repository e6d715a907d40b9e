package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "release" {
		t.Fatalf("mode=%q", cfg.Mode)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port=%d", cfg.Port)
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log_level=%q", cfg.LogLevel)
	}
	if cfg.ReadLimit != 32768 {
		t.Fatalf("read_limit=%d", cfg.ReadLimit)
	}
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("ping_period=%v", cfg.PingPeriod)
	}
	if cfg.AudioFile != "./sample.mp3" {
		t.Fatalf("audio_file=%q", cfg.AudioFile)
	}
	if len(cfg.ICEServers) == 0 || len(cfg.ICEServers[0].URLs) == 0 {
		t.Fatalf("ice_servers=%v, want default STUN entry", cfg.ICEServers)
	}
	if cfg.Assist.Enabled {
		t.Fatal("assist enabled by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "config"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	yaml := []byte("mode: debug\nlog_level: debug\nport: 5000\naudio_file: ./honk.mp3\nassist:\n  enabled: true\n  model: gpt-4o\n")
	if err := os.WriteFile(filepath.Join(dir, "config", "config.test.yaml"), yaml, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("CONFIG_ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Mode != "debug" || cfg.Port != 5000 {
		t.Fatalf("cfg=%+v", cfg)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("log_level=%q", cfg.LogLevel)
	}
	if cfg.AudioFile != "./honk.mp3" {
		t.Fatalf("audio_file=%q", cfg.AudioFile)
	}
	if !cfg.Assist.Enabled || cfg.Assist.Model != "gpt-4o" {
		t.Fatalf("assist=%+v", cfg.Assist)
	}
	// Defaults still fill unset keys.
	if cfg.PingPeriod != 54*time.Second {
		t.Fatalf("ping_period=%v", cfg.PingPeriod)
	}
}

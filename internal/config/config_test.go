package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
  request_timeout: 5s
apps:
  exam_score:
    model:
      format: xgboost
      path: "models/xgb.json"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("request_timeout = %v, want 5s", cfg.Server.RequestTimeout)
	}
	if cfg.Apps.ExamScore.Model.Format != "xgboost" {
		t.Errorf("format = %q", cfg.Apps.ExamScore.Model.Format)
	}
	if !filepath.IsAbs(cfg.Apps.ExamScore.Model.Path) {
		t.Errorf("model path should be absolute, got %s", cfg.Apps.ExamScore.Model.Path)
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("debug: true\n"), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
log:
  file: "./logs/yosoku.log"
apps:
  personality:
    model:
      path: "./models/model.json"
    scaler:
      path: "./models/scaler.json"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join(dir, "models", "model.json"); cfg.Apps.Personality.Model.Path != want {
		t.Errorf("model path = %s, want %s", cfg.Apps.Personality.Model.Path, want)
	}
	if want := filepath.Join(dir, "models", "scaler.json"); cfg.Apps.Personality.Scaler.Path != want {
		t.Errorf("scaler path = %s, want %s", cfg.Apps.Personality.Scaler.Path, want)
	}
	if want := filepath.Join(dir, "logs", "yosoku.log"); cfg.Log.File != want {
		t.Errorf("log file = %s, want %s", cfg.Log.File, want)
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing config")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8501 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Server.RequestTimeout != 30*time.Second {
		t.Errorf("default timeout: got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Apps.ExamScore.Model.Format != "auto" || cfg.Apps.Personality.Model.Format != "auto" {
		t.Errorf("model formats should default to auto: %+v", cfg.Apps)
	}
	if cfg.Apps.Personality.Scaler.Path == "" {
		t.Error("scaler path should be set by default")
	}
	if cfg.Log.MaxSizeMB != 50 || cfg.Log.MaxBackups != 3 || cfg.Log.MaxAgeDays != 28 {
		t.Errorf("log defaults: got %+v", cfg.Log)
	}
}

func TestEnabledOrDefault(t *testing.T) {
	t.Run("nil_returns_true", func(t *testing.T) {
		a := &ExamScoreConfig{}
		if !a.EnabledOrDefault() {
			t.Error("EnabledOrDefault() = false, want true")
		}
	})
	t.Run("false_returns_false", func(t *testing.T) {
		f := false
		p := &PersonalityConfig{Enabled: &f}
		if p.EnabledOrDefault() {
			t.Error("EnabledOrDefault() = true, want false")
		}
	})
}

func TestCacheSizeOrDefault(t *testing.T) {
	i := &InferenceConfig{}
	if got := i.CacheSizeOrDefault(); got != 1024 {
		t.Errorf("CacheSizeOrDefault() = %d, want 1024", got)
	}
	zero := 0
	i.CacheSize = &zero
	if got := i.CacheSizeOrDefault(); got != 0 {
		t.Errorf("CacheSizeOrDefault() = %d, want 0", got)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "saved.yaml")
	cfg := &Config{
		Server: ServerConfig{Host: "localhost", Port: 9090},
		Apps: AppsConfig{ExamScore: ExamScoreConfig{
			Model: ArtifactConfig{Format: "xgboost", Path: "/tmp/xgb.json"},
		}},
	}
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Server.Port != 9090 {
		t.Errorf("loaded port: got %d", loaded.Server.Port)
	}
	if loaded.Apps.ExamScore.Model.Path != "/tmp/xgb.json" {
		t.Errorf("loaded model path: got %s", loaded.Apps.ExamScore.Model.Path)
	}
}

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/CrestNiraj12/skillfeed/domain"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	for _, k := range []string{EnvConfig, EnvBaseURL, EnvSession, EnvTimeout, EnvKind, EnvLog, EnvLevel, EnvToken} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != DefaultBaseURL || cfg.Timeout != 60*time.Second || cfg.Kind != domain.KindPost {
		t.Fatalf("unexpected defaults: %#v", cfg)
	}
	if !strings.HasSuffix(cfg.SessionPath, filepath.Join("skillfeed", "session.json")) || cfg.LogPath != "" {
		t.Fatalf("unexpected default paths: %#v", cfg)
	}
}

func TestLoad_ParsesEnvAndNormalizes(t *testing.T) {
	isolate(t)
	t.Setenv(EnvBaseURL, "https://learn.example/api/")
	t.Setenv(EnvTimeout, "15s")
	t.Setenv(EnvKind, "learning-plan")
	t.Setenv(EnvLog, "/tmp/skillfeed.log")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "https://learn.example/api" {
		t.Fatalf("base URL must be normalized: %q", cfg.BaseURL)
	}
	if cfg.Timeout != 15*time.Second || cfg.Kind != domain.KindPlan || cfg.LogPath != "/tmp/skillfeed.log" {
		t.Fatalf("unexpected config: %#v", cfg)
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "base_url: http://file.example/api\ntimeout: 5s\nkind: progress\nsession: ~/sess.json\ntoken_file: /run/tok\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv(EnvKind, "plan")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.BaseURL != "http://file.example/api" || cfg.Timeout != 5*time.Second {
		t.Fatalf("file values not applied: %#v", cfg)
	}
	if cfg.Kind != domain.KindPlan {
		t.Fatalf("env must override file, got %q", cfg.Kind)
	}
	if cfg.TokenPath != "/run/tok" || cfg.LogLevel != "debug" {
		t.Fatalf("token file and log level not applied: %#v", cfg)
	}
	home, _ := os.UserHomeDir()
	if cfg.SessionPath != filepath.Join(home, "sess.json") {
		t.Fatalf("expected ~ expansion, got %q", cfg.SessionPath)
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "c.yaml")
	if err := os.WriteFile(path, []byte("kind: plan\n"), 0o600); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Setenv(EnvConfig, path)
	cfg, err := Load("")
	if err != nil || cfg.Kind != domain.KindPlan {
		t.Fatalf("expected kind from SKILLFEED_CONFIG file, got %#v err=%v", cfg, err)
	}
}

func TestLoad_DotEnvDoesNotOverrideEnvironment(t *testing.T) {
	isolate(t)
	if err := os.WriteFile(".env", []byte("SKILLFEED_KIND=progress\nSKILLFEED_TIMEOUT=9s\n"), 0o600); err != nil {
		t.Fatalf("write .env failed: %v", err)
	}
	t.Setenv(EnvKind, "plan")
	os.Unsetenv(EnvTimeout)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Kind != domain.KindPlan {
		t.Fatalf("process env must win over .env, got %q", cfg.Kind)
	}
	if cfg.Timeout != 9*time.Second {
		t.Fatalf("expected timeout from .env, got %s", cfg.Timeout)
	}
}

func TestLoad_Rejects(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"relative url", EnvBaseURL, "/api"},
		{"ftp url", EnvBaseURL, "ftp://files.example"},
		{"bad kind", EnvKind, "video"},
		{"bad timeout", EnvTimeout, "soon"},
		{"negative timeout", EnvTimeout, "-1s"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			t.Setenv(tc.key, tc.val)
			if _, err := Load(""); err == nil {
				t.Fatalf("expected error for %s=%q", tc.key, tc.val)
			}
		})
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	isolate(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestUIState_LoadAndSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "ui_state.json")

	st, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("missing state should not error: %v", err)
	}
	if st != (UIState{}) {
		t.Fatalf("expected empty state for missing file")
	}

	want := UIState{Kind: "plan", ShowDetail: true}
	if err := SaveUIState(path, want); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	got, err := LoadUIState(path)
	if err != nil {
		t.Fatalf("load after save failed: %v", err)
	}
	if got != want {
		t.Fatalf("unexpected loaded state got=%#v want=%#v", got, want)
	}

	if err := os.WriteFile(path, []byte("not-json"), 0o600); err != nil {
		t.Fatalf("write corrupt state failed: %v", err)
	}
	if _, err := LoadUIState(path); err == nil {
		t.Fatalf("expected parse error for invalid json")
	}
}

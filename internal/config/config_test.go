package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := `
server:
  addr: "127.0.0.1:9000"
  read_timeout: 3s
rules:
  check_filter: true
  castling: true
render:
  size: 320
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != "127.0.0.1:9000" || cfg.Server.ReadTimeout != 3*time.Second {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.WriteTimeout != 10*time.Second {
		t.Errorf("unset field lost its default: %v", cfg.Server.WriteTimeout)
	}
	if !cfg.Rules.CheckFilter || !cfg.Rules.Castling {
		t.Errorf("unexpected rules: %+v", cfg.Rules)
	}
	if cfg.Render.Size != 320 || cfg.Render.Scale != 3 {
		t.Errorf("unexpected render config: %+v", cfg.Render)
	}
}

func TestLoadMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")
	if _, err := Load(path, true); err != nil {
		t.Errorf("optional missing file: %v", err)
	}
	if _, err := Load(path, false); err == nil {
		t.Error("expected an error for a required missing file")
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("render:\n  size: 10\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, false); err == nil || !strings.Contains(err.Error(), "render.size") {
		t.Errorf("expected a render.size error, got %v", err)
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"CHESSRULES_ADDR":              ":7000",
		"CHESSRULES_STORAGE_IN_MEMORY": "true",
		"CHESSRULES_CHECK_FILTER":      "1",
		"CHESSRULES_LOG_LEVEL":         "debug",
		"CHESSRULES_RENDER_SCALE":      "2.5",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Server.Addr != ":7000" || !cfg.Storage.InMemory || !cfg.Rules.CheckFilter {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.Rules.Castling {
		t.Error("castling should stay off")
	}
	if cfg.Log.Level != "debug" || cfg.Render.Scale != 2.5 {
		t.Errorf("env not applied: %+v", cfg)
	}

	env["CHESSRULES_CASTLING"] = "sometimes"
	if err := Default().ApplyEnv(lookup); err == nil {
		t.Error("expected an error for a bad boolean")
	}
}

func TestWriteRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Rules.Castling = true
	cfg.Server.ReadTimeout = 42 * time.Second

	if err := cfg.Write(path); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !got.Rules.Castling || got.Server.ReadTimeout != 42*time.Second {
		t.Errorf("round trip lost values: %+v", got)
	}
}

package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dompet/internal/config"
)

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("DOMPET_TEST_KEY=from-file\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DOMPET_TEST_KEY", "")
	os.Unsetenv("DOMPET_TEST_KEY")

	if err := LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile: %v", err)
	}
	if got := os.Getenv("DOMPET_TEST_KEY"); got != "from-file" {
		t.Fatalf("DOMPET_TEST_KEY = %q", got)
	}
	if err := LoadEnvFile(filepath.Join(dir, "missing.env")); err != nil {
		t.Fatalf("missing file should be ignored: %v", err)
	}
}

func TestLoadAndValidateConfig(t *testing.T) {
	t.Setenv("API_BASE_URL", "ftp://nowhere")
	if _, err := LoadAndValidateConfig(); err == nil || !strings.Contains(err.Error(), "scheme") {
		t.Fatalf("expected scheme error, got %v", err)
	}
	t.Setenv("API_BASE_URL", "http://localhost:8000")
	if _, err := LoadAndValidateConfig(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg, err := LoadAndValidateConfig(func(c *config.Config) { c.LogLevel = "debug" })
	if err != nil || cfg.LogLevel != "debug" {
		t.Fatalf("override not applied: %v", err)
	}
	if _, err := LoadAndValidateConfig(func(c *config.Config) { c.LogLevel = "loud" }); err == nil {
		t.Fatal("overrides must be validated")
	}
}

func TestSetupLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dompet.log")
	logger, closer, err := SetupLogger(&config.Config{LogLevel: "debug", LogFile: path})
	if err != nil {
		t.Fatalf("SetupLogger: %v", err)
	}
	logger.Debug("hello")
	if err := closer.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "msg=hello") {
		t.Fatalf("log file = %q", b)
	}

	if _, _, err := SetupLogger(&config.Config{LogLevel: "loud", LogFile: path}); err == nil {
		t.Fatal("expected level error")
	}
}

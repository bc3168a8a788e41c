package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "OPENROUTER_API_KEY", "OPENROUTER_MODEL", "OPENROUTER_BASE_URL",
		"TRIAGE_AI_TIMEOUT", "TRIAGE_STATE_PATH", "TRIAGE_BATCH_LIMIT", "TRIAGE_WHOIS_ENRICH"} {
		t.Setenv(k, "")
	}
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != DefaultPort || cfg.Model != DefaultModel || cfg.BaseURL != DefaultBaseURL {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.AITimeout != 30*time.Second {
		t.Errorf("AITimeout = %s, want 30s", cfg.AITimeout)
	}
	if cfg.HasCredential() {
		t.Error("expected no credential")
	}
	if cfg.WhoisEnrich {
		t.Error("whois enrichment should default to off")
	}
}

func TestLoadOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("OPENROUTER_API_KEY", " sk-test ")
	t.Setenv("OPENROUTER_BASE_URL", "http://localhost:9999/v1/")
	t.Setenv("TRIAGE_AI_TIMEOUT", "5s")
	t.Setenv("TRIAGE_BATCH_LIMIT", "8")
	t.Setenv("TRIAGE_WHOIS_ENRICH", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIKey != "sk-test" || !cfg.HasCredential() {
		t.Errorf("APIKey = %q", cfg.APIKey)
	}
	if cfg.BaseURL != "http://localhost:9999/v1" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.AITimeout != 5*time.Second || cfg.BatchLimit != 8 || !cfg.WhoisEnrich {
		t.Errorf("unexpected overrides: %+v", cfg)
	}
}

func TestLoadRejectsBadValues(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("TRIAGE_AI_TIMEOUT", "soon")
	if _, err := Load(); err == nil {
		t.Error("expected error for bad timeout")
	}
	t.Setenv("TRIAGE_AI_TIMEOUT", "")
	t.Setenv("TRIAGE_BATCH_LIMIT", "0")
	if _, err := Load(); err == nil {
		t.Error("expected error for zero batch limit")
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+): it changes the working
// directory for the test and restores it on cleanup.
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}

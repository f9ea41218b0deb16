package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mshiomi/portalauth/config"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("request timeout %v, want 30s", cfg.RequestTimeout)
	}
	if !cfg.ImpersonateTLS {
		t.Error("TLS impersonation disabled by default")
	}
	if cfg.InsecureSkipVerify {
		t.Error("certificate verification disabled by default")
	}
}

func TestDefaultConfig_FreshCopyEachCall(t *testing.T) {
	a := config.DefaultConfig()
	a.BaseURL = "https://mutated.example"
	b := config.DefaultConfig()
	if b.BaseURL == a.BaseURL {
		t.Error("DefaultConfig returned a shared instance")
	}
}

func TestLoadConfig_Valid(t *testing.T) {
	path := writeFile(t, `{
		"base_url": "https://idportal.example.ac.jp",
		"request_timeout": 10000000000,
		"impersonate_tls": false
	}`)
	cfg, err := config.LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.BaseURL != "https://idportal.example.ac.jp" {
		t.Errorf("base url %q", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("request timeout %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.ImpersonateTLS {
		t.Error("impersonate_tls not honoured")
	}
}

func TestLoadConfig_UnknownField(t *testing.T) {
	path := writeFile(t, `{"base_url": "https://x", "base_urll": "typo"}`)
	if _, err := config.LoadConfig(path); err == nil {
		t.Error("expected error for unknown field")
	}
}

func TestLoadConfig_MalformedJSON(t *testing.T) {
	path := writeFile(t, `{"base_url": `)
	if _, err := config.LoadConfig(path); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	if _, err := config.LoadConfig(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

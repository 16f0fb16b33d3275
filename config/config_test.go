package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if got := cfg.Service.Port; got != "3000" {
		t.Errorf("Port = %q, want 3000", got)
	}
	if got := cfg.Upstream.URL; got != "http://localhost:8080" {
		t.Errorf("Upstream.URL = %q", got)
	}
	if got := cfg.SessionTTL(); got != 7*24*time.Hour {
		t.Errorf("SessionTTL() = %v, want 168h", got)
	}
	if got := cfg.SweepInterval(); got != time.Hour {
		t.Errorf("SweepInterval() = %v, want 1h", got)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() with defaults error = %v", err)
	}
}

func TestValidateProductionRequiresAPIKey(t *testing.T) {
	cfg := Load()
	cfg.Service.Env = "production"
	cfg.Upstream.APIKey = ""

	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error when RAG_API_KEY empty in production")
	}

	cfg.Upstream.APIKey = "key"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil with key set", err)
	}
}

func TestValidateSessionBackend(t *testing.T) {
	cfg := Load()
	cfg.Session.Backend = "etcd"
	if err := cfg.Validate(); err == nil {
		t.Error("Validate() = nil, want error for unknown backend")
	}
}

func TestAllowedDomainsList(t *testing.T) {
	t.Setenv("ALLOWED_DOMAINS", "example.com, corp.example.org ,")
	cfg := Load()

	want := []string{"example.com", "corp.example.org"}
	if len(cfg.Auth.AllowedDomains) != len(want) {
		t.Fatalf("AllowedDomains = %v, want %v", cfg.Auth.AllowedDomains, want)
	}
	for i, d := range want {
		if cfg.Auth.AllowedDomains[i] != d {
			t.Errorf("AllowedDomains[%d] = %q, want %q", i, cfg.Auth.AllowedDomains[i], d)
		}
	}
}

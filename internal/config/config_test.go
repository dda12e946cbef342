package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	return &Config{
		Port:         "8080",
		DBPath:       filepath.Join(t.TempDir(), "epxe.db"),
		GeminiModel:  "gemini-2.5-flash",
		JobQueueSize: 16,
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidateBadPort(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "nope"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "invalid port") {
		t.Errorf("expected port error, got %v", err)
	}
}

func TestValidateBadIssuerURL(t *testing.T) {
	cfg := validConfig(t)
	cfg.IssuerLoginURL = "ftp://bank.example"
	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "ISSUER_LOGIN_URL") {
		t.Errorf("expected issuer URL error, got %v", err)
	}
}

func TestValidateAccumulates(t *testing.T) {
	cfg := validConfig(t)
	cfg.Port = "0"
	cfg.JobQueueSize = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error")
	}
	for _, want := range []string{"invalid port", "job queue size"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %v missing %q", err, want)
		}
	}
}

func TestWebImportConfigured(t *testing.T) {
	cfg := validConfig(t)
	if cfg.WebImportConfigured() {
		t.Error("web import should not be configured by default")
	}
	cfg.IssuerLoginURL = "https://bank.example/login"
	cfg.IssuerTransactionsURL = "https://bank.example/transactions"
	cfg.IssuerUsername = "user"
	cfg.IssuerPassword = "secret"
	if !cfg.WebImportConfigured() {
		t.Error("web import should be configured")
	}
}

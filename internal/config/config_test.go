package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Qloo.BaseURL != "https://hackathon.api.qloo.com" {
		t.Errorf("Default qloo base URL = %q", cfg.Qloo.BaseURL)
	}
	if cfg.Gemini.Model != "gemini-2.0-flash-lite" {
		t.Errorf("Default gemini model = %q", cfg.Gemini.Model)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Default server port = %d", cfg.Server.Port)
	}
	if cfg.Email.FromName != "Trendletter" {
		t.Errorf("Default from name = %q", cfg.Email.FromName)
	}
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	t.Setenv("QLOO_API_KEY", "env-qloo-key")
	t.Setenv("RESEND_API_KEY", "env-resend-key")
	t.Setenv("TRENDLETTER_DATA_DIR", "/tmp/trendletter-test")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Qloo.APIKey != "env-qloo-key" {
		t.Errorf("Qloo API key = %q", cfg.Qloo.APIKey)
	}
	if cfg.Email.ResendAPIKey != "env-resend-key" {
		t.Errorf("Resend API key = %q", cfg.Email.ResendAPIKey)
	}
	if cfg.App.DataDir != "/tmp/trendletter-test" {
		t.Errorf("Data dir = %q", cfg.App.DataDir)
	}
}

func TestDuration(t *testing.T) {
	cases := []struct {
		value string
		want  time.Duration
	}{
		{"", 5 * time.Second},
		{"garbage", 5 * time.Second},
		{"250ms", 250 * time.Millisecond},
		{"1m30s", 90 * time.Second},
	}
	for _, tc := range cases {
		if got := Duration(tc.value, 5*time.Second); got != tc.want {
			t.Errorf("Duration(%q) = %v, want %v", tc.value, got, tc.want)
		}
	}
}

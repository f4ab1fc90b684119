package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"REWRITER_PROVIDER", "REWRITER_TIMEOUT", "SCHEDULER_BOOKING_TIMEOUT", "DATABASE_URL", "PG_DSN", "GEMINI_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Rewriter.Provider != ProviderGemini || cfg.Rewriter.Timeout != 22*time.Second || cfg.Rewriter.MaxAttempts != 3 {
		t.Errorf("rewriter = %+v", cfg.Rewriter)
	}
	if cfg.Gemini.Temperature != 0.5 || cfg.Gemini.TopP != 0.9 || cfg.Gemini.MaxTokens != 500 {
		t.Errorf("gemini = %+v", cfg.Gemini)
	}
	if cfg.Scheduler.AvailabilityTimeout != 10*time.Second || cfg.Scheduler.BookingTimeout != 15*time.Second {
		t.Errorf("scheduler = %+v", cfg.Scheduler)
	}
	if cfg.RewriterEnabled() {
		t.Error("rewriter should be disabled without an API key")
	}
}

func TestLoad_UnknownProvider(t *testing.T) {
	t.Setenv("REWRITER_PROVIDER", "claude")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestGetEnvAsDuration(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{value: "", want: time.Minute},
		{value: "15", want: 15 * time.Second},
		{value: "1.5", want: 1500 * time.Millisecond},
		{value: "250ms", want: 250 * time.Millisecond},
		{value: "soon", want: time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			t.Setenv("TEST_DURATION", tt.value)
			if got := getEnvAsDuration("TEST_DURATION", time.Minute); got != tt.want {
				t.Errorf("getEnvAsDuration(%q) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestGetPostgreSQLDSN(t *testing.T) {
	cfg := &Config{PostgreSQL: PostgreSQLConfig{Host: "db", Port: 5433, User: "u", Password: "p", Database: "d", SSLMode: "disable"}}
	if got := cfg.GetPostgreSQLDSN(); got != "host=db port=5433 user=u password=p dbname=d sslmode=disable" {
		t.Errorf("GetPostgreSQLDSN() = %q", got)
	}

	cfg.PostgreSQL.DSN = "postgres://x"
	if got := cfg.GetPostgreSQLDSN(); got != "postgres://x" {
		t.Errorf("GetPostgreSQLDSN() = %q, want the DSN", got)
	}
}

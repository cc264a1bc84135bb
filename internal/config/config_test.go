package config_test

import (
	"errors"
	"testing"
	"time"

	"github.com/aliskhannn/nqesh-reviewer/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/nqesh")
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("TELEGRAM_API_TOKEN", "")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Quiz.QuestionSeconds != 120 || cfg.Quiz.HistoryLimit != 100 {
		t.Errorf("unexpected quiz defaults: %+v", cfg.Quiz)
	}
	if cfg.Quiz.SaveRetryDelay != 500*time.Millisecond || cfg.Quiz.IdleTimeout != 30*time.Minute {
		t.Errorf("unexpected durations: %+v", cfg.Quiz)
	}
	if cfg.TelegramAPIToken != "" {
		t.Error("telegram token should be optional")
	}
}

func TestLoad_RequiresSecrets(t *testing.T) {
	tests := []struct {
		name   string
		dbURL  string
		secret string
	}{
		{name: "no database", dbURL: "", secret: "secret"},
		{name: "no jwt secret", dbURL: "postgres://localhost/nqesh", secret: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URL", tt.dbURL)
			t.Setenv("AUTH_JWT_SECRET", tt.secret)

			if _, err := config.Load(); !errors.Is(err, config.ErrMissingEnvironmentVariables) {
				t.Errorf("want ErrMissingEnvironmentVariables, got %v", err)
			}
		})
	}
}

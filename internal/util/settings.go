package util

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Settings are the runtime knobs read from the environment. Credentials
// stay in the secrets file.
type Settings struct {
	Port             int           `env:"PORT" envDefault:"3009"`
	MetricsNamespace string        `env:"REINO_METRICS_NAMESPACE" envDefault:"reino"`
	SessionTTL       time.Duration `env:"REINO_SESSION_TTL" envDefault:"30m"`
	InputDebounce    time.Duration `env:"REINO_INPUT_DEBOUNCE" envDefault:"300ms"`
	ValidationWindow time.Duration `env:"REINO_VALIDATION_DEBOUNCE" envDefault:"100ms"`
	DbProbeAttempts  int           `env:"REINO_DB_PROBE_ATTEMPTS" envDefault:"5"`
	DbProbeInterval  time.Duration `env:"REINO_DB_PROBE_INTERVAL" envDefault:"2s"`
	TypebotEnabled   bool          `env:"REINO_TYPEBOT_ENABLED" envDefault:"true"`
	RequireAuth      bool          `env:"REINO_REQUIRE_AUTH" envDefault:"false"`
}

// LoadSettings reads an optional .env file and then the process
// environment. Variables already set win over the file.
func LoadSettings(envFiles ...string) (*Settings, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		// a missing file is fine; production sets real env vars
		_ = godotenv.Load(f)
	}

	settings := Settings{}
	err := env.Parse(&settings)
	if err != nil {
		return nil, fmt.Errorf("failed to parse settings: %w", err)
	}

	if settings.Port <= 0 {
		return nil, fmt.Errorf("invalid port %d", settings.Port)
	}
	if settings.DbProbeAttempts < 1 {
		settings.DbProbeAttempts = 1
	}

	return &settings, nil
}

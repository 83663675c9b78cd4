package config

import "github.com/caarlos0/env/v10"

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort                 string   `env:"HTTP_PORT" envDefault:"8080"`
	TrustedProxies           []string `env:"TRUSTED_PROXIES" envSeparator:","`
	DatabaseDriver           string   `env:"DATABASE_DRIVER" envDefault:"sqlite"`
	DatabaseURL              string   `env:"DATABASE_URL" envDefault:"file:predictions.db"`
	DatabaseMaxConns         int      `env:"DATABASE_MAX_CONNS" envDefault:"10"`
	ModelPath                string   `env:"MODEL_PATH" envDefault:"model/loan_model.json"`
	SessionSecret            string   `env:"SESSION_SECRET,required,notEmpty"`
	SessionTTLHours          int      `env:"SESSION_TTL_HOURS" envDefault:"720"`
	CookieSecure             bool     `env:"COOKIE_SECURE" envDefault:"false"`
	EMIAnnualRate            float64  `env:"EMI_ANNUAL_RATE" envDefault:"8.5"`
	FallbackConfidence       float64  `env:"FALLBACK_CONFIDENCE" envDefault:"83"`
	HistoryRetentionDays     int      `env:"HISTORY_RETENTION_DAYS" envDefault:"90"`
	RetentionIntervalMinutes int      `env:"RETENTION_INTERVAL_MINUTES" envDefault:"60"`
	RedisAddr                string   `env:"REDIS_ADDR"`
	RedisPassword            string   `env:"REDIS_PASSWORD"`
	RedisDB                  int      `env:"REDIS_DB" envDefault:"0"`
	SubmissionLimit          int      `env:"SUBMISSION_LIMIT" envDefault:"30"`
	SubmissionWindowSeconds  int      `env:"SUBMISSION_WINDOW_SECONDS" envDefault:"60"`
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// UsesPostgres indica si el almacenamiento apunta a Postgres en lugar de SQLite.
func (c *Config) UsesPostgres() bool {
	return c.DatabaseDriver == "postgres" || c.DatabaseDriver == "pgx"
}

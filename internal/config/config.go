package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App struct {
		Name     string     `envconfig:"APP_NAME" default:"Dochazka"`
		Port     int        `envconfig:"PORT" default:"8080"`
		LogLevel slog.Level `envconfig:"LOG_LEVEL" default:"INFO"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"dochazka"`
	}

	Server struct {
		Timeout time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
	}

	Storage struct {
		Driver string `envconfig:"STORAGE_DRIVER" default:"postgres"`
		// Seed fills an empty store with the demo employees and jobs.
		Seed bool `envconfig:"STORAGE_SEED" default:"false"`
	}

	Timesheet struct {
		BlockSubmitOnErrors       bool    `envconfig:"TIMESHEET_BLOCK_SUBMIT_ON_ERRORS" default:"true"`
		ResetStatusOnUnseenMonth  bool    `envconfig:"TIMESHEET_RESET_STATUS_ON_UNSEEN_MONTH" default:"false"`
		ExemptAbsenceOnNonWorkday bool    `envconfig:"TIMESHEET_EXEMPT_ABSENCE_ON_NON_WORKDAY" default:"false"`
		StandardHours             float64 `envconfig:"TIMESHEET_STANDARD_HOURS" default:"8"`
	}

	Holidays struct {
		MinYear int `envconfig:"HOLIDAYS_MIN_YEAR" default:"2000"`
		MaxYear int `envconfig:"HOLIDAYS_MAX_YEAR" default:"2100"`
	}

	Gemini struct {
		APIKey  string        `envconfig:"GEMINI_API_KEY"`
		Model   string        `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
		BaseURL string        `envconfig:"GEMINI_BASE_URL" default:"https://generativelanguage.googleapis.com"`
		Timeout time.Duration `envconfig:"GEMINI_TIMEOUT" default:"30s"`
	}

	Gotenberg struct {
		URL     string        `envconfig:"GOTENBERG_URL"`
		Timeout time.Duration `envconfig:"GOTENBERG_TIMEOUT" default:"30s"`
	}

	Report struct {
		Recipient string `envconfig:"REPORT_RECIPIENT" default:"mzdy@example.com"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"http://localhost:*"`
	}

	RateLimit struct {
		AssistantRequests int           `envconfig:"RATE_LIMIT_ASSISTANT_REQUESTS" default:"10"`
		AssistantWindow   time.Duration `envconfig:"RATE_LIMIT_ASSISTANT_WINDOW" default:"1m"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if c.Timesheet.StandardHours <= 0 || c.Timesheet.StandardHours > 24 {
		return fmt.Errorf("standard hours must be between 0 and 24, got %g", c.Timesheet.StandardHours)
	}

	if c.Holidays.MinYear > c.Holidays.MaxYear {
		return fmt.Errorf("holiday year range %d-%d is empty", c.Holidays.MinYear, c.Holidays.MaxYear)
	}

	return nil
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v6"
)

type Config struct {
	Port int `env:"PORT" envDefault:"5001"`

	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     int    `env:"DB_PORT" envDefault:"5432"`
	DBName     string `env:"DB_NAME" envDefault:"mailscheduler"`

	SMTPHost     string        `env:"SMTP_HOST" envDefault:"smtp.gmail.com"`
	SMTPPort     int           `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername string        `env:"SMTP_USERNAME"`
	SMTPPassword string        `env:"SMTP_PASSWORD"`
	SendTimeout  time.Duration `env:"SMTP_SEND_TIMEOUT" envDefault:"30s"`

	DefaultSender   string `env:"DEFAULT_SENDER" envDefault:"help.mailscheduler@gmail.com"`
	TrackingBaseURL string `env:"TRACKING_BASE_URL" envDefault:"http://localhost:5001"`
	UploadDir       string `env:"UPLOAD_DIR" envDefault:"./uploads"`
}

// Load parses the configuration from environment variables. A .env file, if
// any, is loaded by main before this runs.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config from env: %w", err)
	}
	return cfg, nil
}

func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

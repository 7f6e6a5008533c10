package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	Environment string `env:"ENV"  env-default:"development"`
	Host        string `env:"HOST" env-default:"http://localhost:8080"` // Raw HOST env (e.g. https://api.storylens.app)
	Port        string `env:"PORT" env-default:"8080"`

	FrontendURL    string   `env:"FRONTEND_URL"    env-default:"http://localhost:3000"`
	FrontendURL2   string   `env:"FRONTEND_URL_2"`
	FrontendURL3   string   `env:"FRONTEND_URL_3"`
	OriginsRaw     string   `env:"ALLOWED_ORIGINS"`
	AllowedOrigins []string `env:"-"` // CORS: from ALLOWED_ORIGINS or FRONTEND_URL(s)

	Server     ServerConfig
	Postgres   PostgresConfig
	Redis      RedisConfig
	Mongo      MongoConfig
	Cloudinary CloudinaryConfig
	Identity   IdentityConfig
	Admission  AdmissionConfig
	Log        LogConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	ReadTimeout     time.Duration `env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// PostgresConfig holds the entry/collection/user database settings.
type PostgresConfig struct {
	URI             string        `env:"POSTGRES_URI"               env-default:"postgres://localhost:5432/storylens?sslmode=disable"`
	MaxOpenConns    int           `env:"POSTGRES_MAX_OPEN_CONNS"    env-default:"25"`
	MaxIdleConns    int           `env:"POSTGRES_MAX_IDLE_CONNS"    env-default:"5"`
	ConnMaxLifetime time.Duration `env:"POSTGRES_CONN_MAX_LIFETIME" env-default:"5m"`
}

type RedisConfig struct {
	URI string `env:"REDIS_URI" env-default:"redis://localhost:6379/0"`
}

// MongoConfig holds the draft store settings.
type MongoConfig struct {
	URI      string `env:"MONGODB_URI"      env-default:"mongodb://localhost:27017/storylens"`
	Database string `env:"MONGODB_DATABASE" env-default:"storylens"`
}

// CloudinaryConfig holds credentials for the mood image search. Empty credentials disable it.
type CloudinaryConfig struct {
	CloudName  string `env:"CLOUDINARY_CLOUD_NAME"`
	APIKey     string `env:"CLOUDINARY_API_KEY"`
	APISecret  string `env:"CLOUDINARY_API_SECRET"`
	MoodFolder string `env:"CLOUDINARY_MOOD_FOLDER"`
}

// Enabled reports whether all credentials are present.
func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

// IdentityConfig holds the shared secret of the external identity provider.
type IdentityConfig struct {
	JWTSecret string `env:"IDENTITY_JWT_SECRET"`
	JWTIssuer string `env:"IDENTITY_JWT_ISSUER"`
}

// AdmissionConfig sets the per-user quota for costly writes.
type AdmissionConfig struct {
	Limit  int           `env:"ADMISSION_LIMIT"  env-default:"10"`
	Window time.Duration `env:"ADMISSION_WINDOW" env-default:"1h"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL"  env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"json"`
}

// Load reads an optional .env file, then the environment, then derives the CORS origin list.
func Load() (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	cfg.Environment = strings.ToLower(strings.TrimSpace(cfg.Environment))
	cfg.AllowedOrigins = cfg.resolveOrigins()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}
	return &cfg, nil
}

// Validate checks settings that have no safe default.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Identity.JWTSecret) == "" {
		errs = append(errs, errors.New("IDENTITY_JWT_SECRET is required"))
	} else if len(c.Identity.JWTSecret) < 32 {
		errs = append(errs, errors.New("IDENTITY_JWT_SECRET must be at least 32 characters"))
	}
	if c.Admission.Limit <= 0 {
		errs = append(errs, fmt.Errorf("ADMISSION_LIMIT must be positive, got %d", c.Admission.Limit))
	}
	if c.Admission.Window <= 0 {
		errs = append(errs, fmt.Errorf("ADMISSION_WINDOW must be positive, got %s", c.Admission.Window))
	}
	return errors.Join(errs...)
}

func (c *Config) resolveOrigins() []string {
	allowedOrigins := parseOrigins(c.OriginsRaw)
	if len(allowedOrigins) == 0 {
		for _, u := range []string{c.FrontendURL, c.FrontendURL2, c.FrontendURL3} {
			u = strings.TrimSpace(u)
			if u != "" {
				allowedOrigins = append(allowedOrigins, u)
			}
		}
	}

	// When HOST is a backend host (e.g. api.storylens.app), always add https://domain and https://www.domain
	hostForCORS := c.HostName()
	if hostForCORS != "" && hostForCORS != "localhost" {
		parts := strings.Split(hostForCORS, ".")
		if len(parts) >= 3 {
			domain := strings.Join(parts[1:], ".")
			for _, origin := range []string{"https://" + domain, "https://www." + domain} {
				if !containsOrigin(allowedOrigins, origin) {
					allowedOrigins = append(allowedOrigins, origin)
				}
			}
		}
	}
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}
	return allowedOrigins
}

func parseOrigins(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func containsOrigin(list []string, o string) bool {
	o = strings.TrimSpace(strings.ToLower(o))
	for _, v := range list {
		if strings.TrimSpace(strings.ToLower(v)) == o {
			return true
		}
	}
	return false
}

// HostName is HOST without scheme, path or port (e.g. api.storylens.app).
func (c *Config) HostName() string {
	host := c.Host
	for _, prefix := range []string{"https://", "http://"} {
		host = strings.TrimPrefix(host, prefix)
	}
	if idx := strings.Index(host, "/"); idx != -1 {
		host = host[:idx]
	}
	if idx := strings.Index(host, ":"); idx != -1 {
		host = host[:idx]
	}
	return strings.TrimSpace(host)
}

// IsProduction returns true when ENV is set to "production".
func (c *Config) IsProduction() bool {
	return strings.ToLower(strings.TrimSpace(c.Environment)) == "production"
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

package server

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	"taskapi/internal/domain/errors"
)

type Config struct {
	Addr              string        `json:"addr" env:"ADDR" env-default:"0.0.0.0"`
	Port              int           `json:"port" env:"PORT" env-default:"8080"`
	DBStr             string        `json:"db_str" env:"DB_STR" env-default:"postgresql://shouldbeinVaultuser:shouldbeinVaultpassword@db:5432/tasks?sslmode=disable"`
	MigratePath       string        `json:"migrate_path" env:"MIGRATE_PATH" env-default:"migrations"`
	Env               string        `json:"env" env:"ENV" env-default:"prod"`
	AppKey            string        `json:"app_key" env:"APP_KEY" env-default:"base64:change-me-in-every-environment"`
	QueryTimeout      time.Duration `json:"query_timeout" env:"QUERY_TIMEOUT" env-default:"15s"`
	LegacyStatusCodes bool          `json:"legacy_status_codes" env:"LEGACY_STATUS_CODES" env-default:"false"`

	// SeedEmail and SeedPassword, when both set, make cmd/tasks ensure that
	// user exists at startup.
	SeedEmail    string `json:"seed_email" env:"SEED_EMAIL"`
	SeedPassword string `json:"seed_password" env:"SEED_PASSWORD"`
}

const (
	defaultAddr  = "0.0.0.0"
	defaultPort  = 8080
	defaultDBStr = "postgresql://shouldbeinVaultuser:shouldbeinVaultpassword@db:5432/tasks?sslmode=disable"
)

// DefaultConfig is what ReadConfig yields with no file, env or flags.
var DefaultConfig = Config{
	Addr:         defaultAddr,
	Port:         defaultPort,
	DBStr:        defaultDBStr,
	MigratePath:  "migrations",
	Env:          "prod",
	AppKey:       "base64:change-me-in-every-environment",
	QueryTimeout: 15 * time.Second,
}

// ReadConfig layers the configuration: defaults, then a JSON file (-c or
// CONFIG), then environment variables, then explicitly set flags.
func ReadConfig(args []string) (*Config, error) {
	fs := flag.NewFlagSet("tasks", flag.ContinueOnError)
	addr := fs.String("addr", defaultAddr, "server address")
	port := fs.Int("port", defaultPort, "server port")
	dbstr := fs.String("dbstr", defaultDBStr, "database connection string")
	dbDsn := fs.String("dbdsn", "", "database DSN (takes precedence over -dbstr)")
	migratePath := fs.String("migratepath", "migrations", "migrations directory")
	env := fs.String("env", "prod", "environment: local, dev or prod")
	legacy := fs.Bool("legacy-status", false, "answer with the legacy 400/204 status codes")
	configFile := fs.String("c", "", "path to a JSON config file")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	path := *configFile
	if path == "" {
		path = os.Getenv("CONFIG")
	}

	cfg := &Config{}
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w %s: %w", errors.ErrConfigFileReadFailed, path, err)
		}
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("%w: %w", errors.ErrConfigParseFailed, err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfigParseFailed, err)
	}

	applyDBPartsFromEnv(cfg)

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "addr":
			cfg.Addr = *addr
		case "port":
			cfg.Port = *port
		case "dbstr":
			if *dbDsn == "" {
				cfg.DBStr = *dbstr
			}
		case "dbdsn":
			cfg.DBStr = *dbDsn
		case "migratepath":
			cfg.MigratePath = *migratePath
		case "env":
			cfg.Env = *env
		case "legacy-status":
			cfg.LegacyStatusCodes = *legacy
		}
	})

	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("%w: port must be between 1 and 65535, got %d", errors.ErrConfigInvalidFormat, cfg.Port)
	}
	return cfg, nil
}

// applyDBPartsFromEnv builds the DSN from DB_USER, DB_PASSWORD, DB_HOST,
// DB_PORT and DB_NAME when no explicit connection string was configured.
func applyDBPartsFromEnv(cfg *Config) {
	if cfg.DBStr != defaultDBStr {
		return
	}
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	if dbUser != "" && dbPassword != "" && dbName != "" && dbHost != "" && dbPort != "" {
		cfg.DBStr = fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPassword, dbHost, dbPort, dbName)
	}
}

func (c *Config) ListenAddr() string {
	return fmt.Sprintf("%s:%d", c.Addr, c.Port)
}

package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Addr          string        `yaml:"addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	APITimeout    time.Duration `yaml:"timeout"`
	TokenDuration time.Duration `yaml:"token_duration"`

	// Backend selects the key-value store: "sqlite" or "redis".
	Backend      string      `yaml:"backend"`
	DatabasePath string      `yaml:"database_path"`
	Redis        RedisConfig `yaml:"redis"`

	Notify NotifyConfig `yaml:"notify"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type NotifyConfig struct {
	Workers      int           `yaml:"workers"`
	ScanInterval time.Duration `yaml:"scan_interval"`
}

// LoadConfig builds the config from env vars (with a .env file if present),
// then overlays values from an optional YAML file.
func LoadConfig(path string) (*Config, error) {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := &Config{
		Addr:          getEnv("CREWDECK_ADDR", ":8080"),
		JWTSecret:     getEnv("CREWDECK_JWT_SECRET", "supersecretkey"),
		APITimeout:    15 * time.Second,
		TokenDuration: 24 * time.Hour,
		Backend:       getEnv("CREWDECK_BACKEND", "sqlite"),
		DatabasePath:  getEnv("CREWDECK_DATABASE_PATH", "crewdeck.db"),
		Redis: RedisConfig{
			Addr:     getEnv("CREWDECK_REDIS_ADDR", "localhost:6379"),
			Password: getEnv("CREWDECK_REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("CREWDECK_REDIS_DB", 0),
		},
		Notify: NotifyConfig{
			Workers:      2,
			ScanInterval: time.Hour,
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects configs that would be unsafe or unusable at startup.
func (c *Config) Validate() error {
	if c.Backend != "sqlite" && c.Backend != "redis" {
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.Backend == "sqlite" && c.DatabasePath == "" {
		return fmt.Errorf("database_path required for sqlite backend")
	}
	if os.Getenv("CREWDECK_ENV") == "production" && c.JWTSecret == "supersecretkey" {
		return fmt.Errorf("default jwt_secret is not allowed in production")
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}

	return def
}

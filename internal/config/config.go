package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	API     APIConfig     `yaml:"api"`
	Log     LogConfig     `yaml:"log"`
	Session SessionConfig `yaml:"session"`
}

type APIConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// SessionConfig selects where the session lives between runs. Backend is
// "file" or "redis"; Dir applies to the file backend and defaults to the
// user config directory when empty.
type SessionConfig struct {
	Backend string      `yaml:"backend"`
	Dir     string      `yaml:"dir"`
	Redis   RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

const (
	BackendFile  = "file"
	BackendRedis = "redis"
)

func Default() Config {
	return Config{
		API: APIConfig{
			URL:     "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Log: LogConfig{Level: "info"},
		Session: SessionConfig{
			Backend: BackendFile,
			Dir:     "",
			Redis: RedisConfig{
				Addr:      "localhost:6379",
				DB:        0,
				KeyPrefix: "crmadmin:",
			},
		},
	}
}

func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFromYAML(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	backend := strings.ToLower(strings.TrimSpace(c.Session.Backend))
	if backend != BackendFile && backend != BackendRedis {
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}
	if strings.TrimSpace(c.API.URL) == "" {
		return errors.New("api url is empty")
	}
	return nil
}

func loadFromYAML(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("unmarshal config yaml: %w", err)
	}

	return nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("CRM_API_URL"); v != "" {
		cfg.API.URL = v
	}
	if err := overrideDuration("CRM_API_TIMEOUT", &cfg.API.Timeout); err != nil {
		return err
	}

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}

	if v := os.Getenv("SESSION_BACKEND"); v != "" {
		cfg.Session.Backend = v
	}
	if v := os.Getenv("SESSION_DIR"); v != "" {
		cfg.Session.Dir = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Session.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Session.Redis.Password = v
	}
	if err := overrideInt("REDIS_DB", &cfg.Session.Redis.DB); err != nil {
		return err
	}
	if v := os.Getenv("REDIS_KEY_PREFIX"); v != "" {
		cfg.Session.Redis.KeyPrefix = v
	}

	return nil
}

func overrideDuration(key string, target *time.Duration) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fmt.Errorf("parse %s duration: %w", key, err)
	}
	*target = d
	return nil
}

func overrideInt(key string, target *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("parse %s int: %w", key, err)
	}
	*target = n
	return nil
}

// Package config loads the daemon configuration from yaml with env
// overrides.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// BackendConfig points at the city backend deployment.
type BackendConfig struct {
	BaseURL  string `yaml:"base_url"`
	Login    string `yaml:"login"`
	Password string `yaml:"password"`
}

// MonitorConfig tunes the polling loop. The interval is written as a
// Go duration string ("30s", "2m").
type MonitorConfig struct {
	Interval    time.Duration `yaml:"-"`
	IntervalRaw string        `yaml:"interval"`
}

// VisionConfig points at the image model.
type VisionConfig struct {
	Endpoint string `yaml:"endpoint"`
	APIKey   string `yaml:"api_key"`
}

// ReadingsConfig points at the local readings archive.
type ReadingsConfig struct {
	DatabaseURL string `yaml:"database_url"`
}

// ServerConfig tunes the daemon's own HTTP surface.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr"`
	JWTSecret  string `yaml:"jwt_secret"`
}

// Config is the full daemon configuration.
type Config struct {
	Backend     BackendConfig  `yaml:"backend"`
	Monitor     MonitorConfig  `yaml:"monitor"`
	Vision      VisionConfig   `yaml:"vision"`
	Readings    ReadingsConfig `yaml:"readings"`
	Server      ServerConfig   `yaml:"server"`
	SessionFile string         `yaml:"session_file"`
	ReportDir   string         `yaml:"report_dir"`
}

// Load reads CITYOPS_CONFIG if set, then applies env overrides and
// defaults.
func Load() (Config, error) {
	cfg := Config{
		Backend: BackendConfig{
			BaseURL:  getenvDefault("CITYOPS_BACKEND_URL", "http://localhost:8000/api"),
			Login:    os.Getenv("CITYOPS_LOGIN"),
			Password: os.Getenv("CITYOPS_PASSWORD"),
		},
		Monitor: MonitorConfig{
			Interval: getenvDurationDefault("CITYOPS_POLL_INTERVAL", 60*time.Second),
		},
		Vision: VisionConfig{
			Endpoint: os.Getenv("CITYOPS_VISION_ENDPOINT"),
			APIKey:   os.Getenv("CITYOPS_VISION_KEY"),
		},
		Readings: ReadingsConfig{
			DatabaseURL: os.Getenv("CITYOPS_DATABASE_URL"),
		},
		Server: ServerConfig{
			ListenAddr: getenvDefault("CITYOPS_LISTEN_ADDR", ":8087"),
			JWTSecret:  os.Getenv("CITYOPS_JWT_SECRET"),
		},
		SessionFile: getenvDefault("CITYOPS_SESSION_FILE", "var/session.json"),
		ReportDir:   getenvDefault("CITYOPS_REPORT_DIR", "var/reports"),
	}

	if path := os.Getenv("CITYOPS_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Backend.BaseURL == "" {
		return cfg, errors.New("config: backend base url required")
	}
	if cfg.Monitor.IntervalRaw != "" {
		d, err := time.ParseDuration(cfg.Monitor.IntervalRaw)
		if err != nil {
			return cfg, errors.New("config: bad monitor interval " + cfg.Monitor.IntervalRaw)
		}
		cfg.Monitor.Interval = d
	}
	if cfg.Monitor.Interval <= 0 {
		cfg.Monitor.Interval = 60 * time.Second
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil {
		return time.Duration(secs) * time.Second
	}
	return def
}

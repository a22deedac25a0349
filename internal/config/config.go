package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App        AppConfig        `yaml:"app"`
	API        APIConfig        `yaml:"api"`
	Session    SessionConfig    `yaml:"session"`
	Redis      RedisConfig      `yaml:"redis"`
	Refresh    RefreshConfig    `yaml:"refresh"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
	Logging    LoggingConfig    `yaml:"logging"`
	Exports    ExportConfig     `yaml:"exports"`
	RoomsPath  string           `yaml:"rooms_path"`
}

type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type APIConfig struct {
	BaseURL        string `yaml:"base_url"`
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout returns the per-request client timeout; zero disables it.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

type SessionConfig struct {
	StaffID    int64  `yaml:"staff_id"`
	Role       string `yaml:"role"`
	SuperAdmin bool   `yaml:"super_admin"`
}

type RedisConfig struct {
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	PoolSize int    `yaml:"pool_size"`
}

type RefreshConfig struct {
	FrontDeskSeconds    int `yaml:"front_desk_seconds"`
	HousekeepingSeconds int `yaml:"housekeeping_seconds"`
}

func (c RefreshConfig) FrontDeskInterval() time.Duration {
	if c.FrontDeskSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.FrontDeskSeconds) * time.Second
}

func (c RefreshConfig) HousekeepingInterval() time.Duration {
	if c.HousekeepingSeconds <= 0 {
		return 60 * time.Second
	}
	return time.Duration(c.HousekeepingSeconds) * time.Second
}

type MonitoringConfig struct {
	PrometheusEnabled bool `yaml:"prometheus_enabled"`
	PrometheusPort    int  `yaml:"prometheus_port"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

type ExportConfig struct {
	Path string `yaml:"path"`
}

func Load(configPath string) (*Config, error) {
	// .env is optional; variables referenced from the YAML are expanded below
	_ = godotenv.Load(".env")

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}

	expandedData := []byte(os.ExpandEnv(string(data)))

	var config Config
	if err := yaml.Unmarshal(expandedData, &config); err != nil {
		return nil, err
	}

	if token := os.Getenv("OPSDESK_API_TOKEN"); token != "" {
		config.API.Token = token
	}

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url is required")
	}

	return &config, nil
}

package main

import (
	"fmt"
	"os"
	"time"

	"veloj/internal/common/cache"
	"veloj/internal/common/db"
	"veloj/internal/common/mq"
	"veloj/internal/common/storage"
	"veloj/pkg/utils/logger"

	"gopkg.in/yaml.v3"
)

const (
	defaultHTTPAddr        = "0.0.0.0:8087"
	defaultReadTimeout     = 5 * time.Second
	defaultWriteTimeout    = 10 * time.Second
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 10 * time.Second
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout"`
	IdleTimeout  time.Duration `yaml:"idleTimeout"`
}

// AuthConfig holds token verification settings.
type AuthConfig struct {
	Secret string `yaml:"secret"`
	Issuer string `yaml:"issuer"`
}

// SolutionConfig holds dispatch and cache settings.
type SolutionConfig struct {
	Bucket           string        `yaml:"bucket"`
	TopicPrefix      string        `yaml:"topicPrefix"`
	DispatchLockTTL  time.Duration `yaml:"dispatchLockTTL"`
	SolutionCacheTTL time.Duration `yaml:"solutionCacheTTL"`
	SolutionEmptyTTL time.Duration `yaml:"solutionEmptyTTL"`
}

// AppConfig holds solution-service configuration.
type AppConfig struct {
	Server   ServerConfig        `yaml:"server"`
	Logger   logger.Config       `yaml:"logger"`
	Database db.MySQLConfig      `yaml:"database"`
	Redis    cache.RedisConfig   `yaml:"redis"`
	Kafka    mq.KafkaConfig      `yaml:"kafka"`
	MinIO    storage.MinIOConfig `yaml:"minio"`
	Auth     AuthConfig          `yaml:"auth"`
	Solution SolutionConfig      `yaml:"solution"`
}

func loadYAML(path string, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file failed: %w", err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse config file failed: %w", err)
	}
	return nil
}

func loadAppConfig(path string) (*AppConfig, error) {
	var cfg AppConfig
	if err := loadYAML(path, &cfg); err != nil {
		return nil, err
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = defaultHTTPAddr
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = defaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = defaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = defaultIdleTimeout
	}

	if cfg.Solution.Bucket == "" {
		cfg.Solution.Bucket = cfg.MinIO.Bucket
	}
	if cfg.Solution.SolutionCacheTTL == 0 {
		cfg.Solution.SolutionCacheTTL = 30 * time.Minute
	}
	if cfg.Solution.SolutionEmptyTTL == 0 {
		cfg.Solution.SolutionEmptyTTL = 5 * time.Minute
	}

	if err := validateAppConfig(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateAppConfig(cfg *AppConfig) error {
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database dsn is required")
	}
	if cfg.Redis.Addr == "" {
		return fmt.Errorf("redis addr is required")
	}
	if len(cfg.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers are required")
	}
	if cfg.MinIO.Endpoint == "" {
		return fmt.Errorf("minio endpoint is required")
	}
	if cfg.Solution.Bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if cfg.Auth.Secret == "" {
		return fmt.Errorf("auth secret is required")
	}
	return nil
}

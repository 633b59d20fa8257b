package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

var ErrWeakSecret = errors.New("auth secret must be changed from the default value")

type Config struct {
	Server     Server     `yaml:"server"`
	Logger     Logger     `yaml:"logger"`
	PostgresDB PostgresDB `yaml:"db"`
	Auth       Auth       `yaml:"auth"`
	RedisCache RedisCache `yaml:"rdb"`
	Blog       Blog       `yaml:"blog"`
}

type Server struct {
	Addr         string        `env:"SERVER_ADDR"  env-default:":8080" yaml:"addr"`
	ReadTimeout  time.Duration `env-default:"5s"   yaml:"readTimeout"`
	IdleTimeout  time.Duration `env-default:"30s"  yaml:"idleTimeout"`
	WriteTimeout time.Duration `env-default:"10s"  yaml:"writeTimeout"`
}

type Logger struct {
	Level     string   `env:"LOG_LEVEL" env-default:"info" yaml:"level"`
	Output    []string `yaml:"output"`
	ErrOutput []string `yaml:"errOutput"`
}

type PostgresDB struct {
	Addr     string `env:"POSTGRES_ADDR"     env-default:"localhost:5432" yaml:"addr"`
	Username string `env:"POSTGRES_USER"     env-required:"true"          yaml:"username"`
	Password string `env:"POSTGRES_PASSWORD" yaml:"password"`
	DB       string `env:"POSTGRES_DB"       env-required:"true"          yaml:"db"`
	SSLmode  string `env-default:"disable"   yaml:"sslmode"`
	MaxConns string `env-default:"10"        validate:"numeric"           yaml:"maxConns"`
	Reload   bool   `yaml:"reload"`
	Version  int    `yaml:"version"`
}

type Auth struct {
	TTL    time.Duration `env-default:"30m"   validate:"gt=0,max=168h"  yaml:"ttl"`
	Secret string        `env:"SECRET"        env-required:"true"       validate:"min=32" yaml:"secret"`
}

type RedisCache struct {
	Addr     string        `env:"REDIS_ADDR" env-default:"localhost:6379" yaml:"addr"`
	Password string        `env:"REDIS_PASSWORD" yaml:"password"`
	DB       int           `yaml:"db"`
	ExpTime  time.Duration `env-default:"1m" validate:"gt=0" yaml:"exp"`
}

type Blog struct {
	DefaultPageSize int  `env-default:"10"  validate:"min=1,ltefield=MaxPageSize" yaml:"defaultPageSize"`
	MaxPageSize     int  `env-default:"100" validate:"min=1"                      yaml:"maxPageSize"`
	CascadeDelete   bool `yaml:"cascadeDelete"`
}

func New(configPath string) (Config, error) {
	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return Config{}, fmt.Errorf("read config error: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validate config error: %w", err)
	}

	return cfg, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return err //nolint:wrapcheck
	}

	switch strings.ToLower(c.Auth.Secret) {
	case "changeme", "your-secret-key-here", "your-super-secret-key-min-32-chars-long":
		return ErrWeakSecret
	}

	return nil
}

// ConnString builds a pgx connection string, including pool limits.
func (p PostgresDB) ConnString() string {
	return "postgres://" + p.Username + ":" + p.Password + "@" +
		p.Addr + "/" + p.DB + "?" + "sslmode=" + p.SSLmode + "&pool_max_conns=" + p.MaxConns
}

// MigrationConnString is the pool-less variant used by goose.
func (p PostgresDB) MigrationConnString() string {
	return "postgres://" + p.Username + ":" + p.Password + "@" +
		p.Addr + "/" + p.DB + "?" + "sslmode=" + p.SSLmode
}

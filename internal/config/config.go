// Package config loads the circuitlab application configuration.
//
// The file is optional: defaults are applied first, the file (YAML, or JSON when the
// extension is .json) overrides them, and command-line flags override both.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aretw0/circuitlab/pkg/domain"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultPath is looked up in the working directory when no --config is given.
const DefaultPath = "circuitlab.yaml"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
	DriverBadger = "badger"
)

// Config is the root of circuitlab.yaml.
type Config struct {
	Log        LogConfig        `yaml:"log" json:"log"`
	Engine     EngineConfig     `yaml:"engine" json:"engine"`
	Store      StoreConfig      `yaml:"store" json:"store"`
	Challenges ChallengesConfig `yaml:"challenges" json:"challenges"`
	Server     ServerConfig     `yaml:"server" json:"server"`
}

type LogConfig struct {
	Level string `yaml:"level" json:"level" validate:"omitempty,oneof=debug info warn warning error"`
}

// EngineConfig maps onto the circuitlab.With* options.
type EngineConfig struct {
	SnapThreshold  float64 `yaml:"snap_threshold" json:"snap_threshold" validate:"gte=0"`
	StepLimit      int     `yaml:"step_limit" json:"step_limit" validate:"gte=0"`
	NominalVoltage float64 `yaml:"nominal_voltage" json:"nominal_voltage" validate:"gte=0"`
	MergeMode      string  `yaml:"merge_mode" json:"merge_mode" validate:"omitempty,oneof=single single-pass transitive"`
}

type StoreConfig struct {
	Driver string       `yaml:"driver" json:"driver" validate:"oneof=memory file redis badger"`
	Path   string       `yaml:"path" json:"path"` // file and badger drivers
	Redis  RedisConfig  `yaml:"redis" json:"redis"`
	Badger BadgerConfig `yaml:"badger" json:"badger"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr" json:"addr"`
	Password string `yaml:"password" json:"password"`
	DB       int    `yaml:"db" json:"db" validate:"gte=0"`
	Prefix   string `yaml:"prefix" json:"prefix"`
	// TTL is a Go duration ("24h"). Empty means sandboxes never expire.
	TTL string `yaml:"ttl" json:"ttl"`
}

type BadgerConfig struct {
	InMemory   bool `yaml:"in_memory" json:"in_memory"`
	SyncWrites bool `yaml:"sync_writes" json:"sync_writes"`
}

type ChallengesConfig struct {
	// Dir holds markdown challenge files. Empty means the built-in set.
	Dir string `yaml:"dir" json:"dir"`
}

type ServerConfig struct {
	Host        string   `yaml:"host" json:"host"`
	Port        int      `yaml:"port" json:"port" validate:"gte=0,lte=65535"`
	CORSOrigins []string `yaml:"cors_origins" json:"cors_origins"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Log: LogConfig{Level: "info"},
		Engine: EngineConfig{
			SnapThreshold:  domain.DefaultSnapThreshold,
			StepLimit:      domain.DefaultStepLimit,
			NominalVoltage: domain.DefaultNominalVoltage,
			MergeMode:      "single",
		},
		Store: StoreConfig{
			Driver: DriverFile,
			Path:   filepath.Join(".circuitlab", "sandboxes"),
			Redis:  RedisConfig{Addr: "localhost:6379"},
		},
		Server: ServerConfig{
			Host:        "",
			Port:        8080,
			CORSOrigins: []string{"*"},
		},
	}
}

// Load reads the configuration at path on top of Default.
// A missing file is only an error when explicit is set (the user named it).
func Load(path string, explicit bool) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	} else {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks value ranges and the driver-specific requirements.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid config: %s fails %q (got %v)", fe.Namespace(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Store.Driver == DriverRedis && c.Store.Redis.Addr == "" {
		return errors.New("invalid config: store.redis.addr is required for the redis driver")
	}
	if c.Store.Driver == DriverBadger && c.Store.Path == "" && !c.Store.Badger.InMemory {
		return errors.New("invalid config: store.path is required for the badger driver")
	}
	if _, err := c.Store.Redis.TTLDuration(); err != nil {
		return err
	}
	return nil
}

// TTLDuration parses TTL. Empty means zero (no expiry).
func (r RedisConfig) TTLDuration() (time.Duration, error) {
	if r.TTL == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(r.TTL)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid config: store.redis.ttl %q is not a valid duration", r.TTL)
	}
	return d, nil
}

// Addr is the listen address of the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

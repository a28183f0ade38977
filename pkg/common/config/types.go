package config

import (
	"time"

	"github.com/fystack/lottery-genius/pkg/common/enum"
)

type Env string

const (
	DevEnv  Env = "dev"
	ProdEnv Env = "prod"
	StgEnv  Env = "stag"
)

type Config struct {
	Environment Env             `yaml:"env"       validate:"required,oneof=dev prod stag"`
	Version     string          `yaml:"version"`
	Log         LogConfig       `yaml:"log"`
	Server      ServerConfig    `yaml:"server"    validate:"required"`
	Source      SourceConfig    `yaml:"source"    validate:"required"`
	History     HistoryConfig   `yaml:"history"`
	Generator   GeneratorConfig `yaml:"generator"`
	Cache       CacheConfig     `yaml:"cache"`
	Nats        NatsConfig      `yaml:"nats"`
}

type LogConfig struct {
	Level   string `yaml:"level"    validate:"omitempty,oneof=debug info warn error DEBUG INFO WARN ERROR"`
	NoColor bool   `yaml:"no_color"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             validate:"required,min=1,max=65535"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type SourceConfig struct {
	Type   enum.SourceType `yaml:"type"   validate:"required,oneof=caixa mirror"`
	Caixa  EndpointConfig  `yaml:"caixa"`
	Mirror EndpointConfig  `yaml:"mirror"`
	Client ClientConfig    `yaml:"client"`
}

// Active returns the endpoint config of the selected source.
func (s SourceConfig) Active() EndpointConfig {
	if s.Type == enum.SourceTypeMirror {
		return s.Mirror
	}
	return s.Caixa
}

type EndpointConfig struct {
	Nodes []Node `yaml:"nodes" validate:"dive"`
}

type ClientConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	MaxRetries   int           `yaml:"max_retries"   validate:"min=0"`
	RetryDelay   time.Duration `yaml:"retry_delay"`
	NodeCooldown time.Duration `yaml:"node_cooldown"`
	Concurrency  int           `yaml:"concurrency"   validate:"min=0"`
	Throttle     ThrottleCfg   `yaml:"throttle"`
}

type ThrottleCfg struct {
	RPS   int `yaml:"rps"   validate:"min=0"`
	Burst int `yaml:"burst" validate:"min=0"`
}

type HistoryConfig struct {
	Window int `yaml:"window" validate:"min=0,max=500"`
}

type GeneratorConfig struct {
	DefaultTickets  int    `yaml:"default_tickets"  validate:"min=0,max=50"`
	DownloadTickets int    `yaml:"download_tickets" validate:"min=0,max=50"`
	DefaultSize     int    `yaml:"default_size"     validate:"omitempty,min=15,max=20"`
	Oversample      int    `yaml:"oversample"       validate:"min=0"`
	Seed            uint64 `yaml:"seed"`
}

type CacheConfig struct {
	Backend enum.CacheBackend `yaml:"backend" validate:"omitempty,oneof=memory badger redis"`
	TTL     time.Duration     `yaml:"ttl"`
	Key     string            `yaml:"key"`
	Prefix  string            `yaml:"prefix"`
	Badger  BadgerConfig      `yaml:"badger"`
	Redis   RedisConfig       `yaml:"redis"`
}

// BadgerConfig with an empty Directory runs badger in memory.
type BadgerConfig struct {
	Directory string `yaml:"directory"`
}

type RedisConfig struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type NatsConfig struct {
	Enabled       bool   `yaml:"enabled"`
	URL           string `yaml:"url"`
	SubjectPrefix string `yaml:"subject_prefix"`
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
}

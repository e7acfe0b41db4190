package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	Remote       RemoteConfig       `mapstructure:"remote"`
	Store        StoreConfig        `mapstructure:"store"`
	Connectivity ConnectivityConfig `mapstructure:"connectivity"`
	Sync         SyncConfig         `mapstructure:"sync"`
	Scheduler    SchedulerConfig    `mapstructure:"scheduler"`
	Server       ServerConfig       `mapstructure:"server"`
	Redis        RedisConfig        `mapstructure:"redis"`
	Logging      LoggingConfig      `mapstructure:"logging"`
}

type RemoteConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	Debug          bool          `mapstructure:"debug"`
}

type StoreConfig struct {
	Driver string `mapstructure:"driver"` // sqlite, postgres or memory
	Path   string `mapstructure:"path"`   // sqlite database file
	DSN    string `mapstructure:"dsn"`    // postgres connection string
}

type ConnectivityConfig struct {
	Mode        string        `mapstructure:"mode"` // probe, online or offline
	Host        string        `mapstructure:"host"`
	Port        int           `mapstructure:"port"`
	ICMP        bool          `mapstructure:"icmp"`
	ValidateURL string        `mapstructure:"validate_url"`
	Timeout     time.Duration `mapstructure:"timeout"`
	Interval    time.Duration `mapstructure:"interval"`
}

type SyncConfig struct {
	KeepUnsyncedOnRefresh bool `mapstructure:"keep_unsynced_on_refresh"`
	HistoryLimit          int  `mapstructure:"history_limit"`
}

type SchedulerConfig struct {
	RefreshSpec string `mapstructure:"refresh_spec"`
	CleanupSpec string `mapstructure:"cleanup_spec"`
}

type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	JWTSecret string  `mapstructure:"jwt_secret"`
	UploadDir string  `mapstructure:"upload_dir"`
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // json or console
	File   string `mapstructure:"file"`
}

const envPrefix = "CATALOG"

func setDefaults(v *viper.Viper) {
	v.SetDefault("remote.base_url", "https://app.getswipe.in/api/")
	v.SetDefault("remote.connect_timeout", 30*time.Second)
	v.SetDefault("remote.read_timeout", 30*time.Second)
	v.SetDefault("remote.write_timeout", 30*time.Second)
	v.SetDefault("remote.debug", false)

	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "catalog.db")
	v.SetDefault("store.dsn", "")

	v.SetDefault("connectivity.mode", "probe")
	v.SetDefault("connectivity.host", "")
	v.SetDefault("connectivity.port", 0)
	v.SetDefault("connectivity.icmp", false)
	v.SetDefault("connectivity.validate_url", "")
	v.SetDefault("connectivity.timeout", 3*time.Second)
	v.SetDefault("connectivity.interval", 5*time.Second)

	v.SetDefault("sync.keep_unsynced_on_refresh", true)
	v.SetDefault("sync.history_limit", 100)

	v.SetDefault("scheduler.refresh_spec", "")
	v.SetDefault("scheduler.cleanup_spec", "@every 1m")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.jwt_secret", "")
	v.SetDefault("server.upload_dir", "uploads")
	v.SetDefault("server.rate_limit", 1.0)
	v.SetDefault("server.rate_burst", 3)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "catalog:sync:history")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.file", "")
}

// NewFlagSet returns the command-line flags understood by Load. Callers may
// add their own flags before parsing.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.String("config", "config.yaml", "path to the YAML config file")
	fs.String("server.addr", ":8080", "listen address of the local API")
	fs.String("remote.base_url", "https://app.getswipe.in/api/", "base URL of the remote product API")
	fs.String("store.driver", "sqlite", "local store driver: sqlite, postgres or memory")
	fs.String("store.path", "catalog.db", "sqlite database file")
	fs.String("connectivity.mode", "probe", "connectivity source: probe, online or offline")
	fs.String("logging.level", "info", "log level")
	return fs
}

// Load reads .env, the config file, CATALOG_* environment variables and the
// already parsed flags, in increasing order of precedence.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	path := "config.yaml"
	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, fmt.Errorf("failed to bind flags: %w", err)
		}
		if p, err := flags.GetString("config"); err == nil && p != "" {
			path = p
		}
	}

	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.Remote.BaseURL) == "" {
		return errors.New("remote.base_url is required")
	}
	switch c.Store.Driver {
	case "sqlite", "memory":
	case "postgres":
		if c.Store.DSN == "" {
			return errors.New("store.dsn is required for the postgres driver")
		}
	default:
		return fmt.Errorf("unknown store.driver %q", c.Store.Driver)
	}
	switch c.Connectivity.Mode {
	case "probe", "online", "offline":
	default:
		return fmt.Errorf("unknown connectivity.mode %q", c.Connectivity.Mode)
	}
	if c.Connectivity.Interval <= 0 {
		return errors.New("connectivity.interval must be positive")
	}
	return nil
}

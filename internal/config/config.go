package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Store   StoreConfig   `mapstructure:"store"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Push    PushConfig    `mapstructure:"push"`
	Catalog CatalogConfig `mapstructure:"catalog"`
	S3      S3Config      `mapstructure:"s3"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// StoreConfig selects the local key/value backend.
// Driver is one of "bolt", "sqlite", "redis", "memory" or "none".
type StoreConfig struct {
	Driver    string `mapstructure:"driver"`
	Path      string `mapstructure:"path"`
	Origin    string `mapstructure:"origin"`
	RedisAddr string `mapstructure:"redis_addr"`
}

// RemoteConfig selects the remote mirror backend.
// Driver "none" (or empty) keeps the app local-only.
type RemoteConfig struct {
	Driver     string        `mapstructure:"driver"` // none | mongo | postgres
	URI        string        `mapstructure:"uri"`      // mongo connection string
	Database   string        `mapstructure:"database"` // mongo database name
	DSN        string        `mapstructure:"dsn"`      // postgres DSN
	FetchLimit int           `mapstructure:"fetch_limit"`
	Timeout    time.Duration `mapstructure:"timeout"`
	// Token is the bearer token the CLI presents as its remote identity.
	Token string `mapstructure:"token"`
}

// Enabled reports whether a remote backend is configured at all.
func (r RemoteConfig) Enabled() bool {
	return r.Driver != "" && r.Driver != "none"
}

// AuthConfig defines how remote identities are verified.
type AuthConfig struct {
	// JWTSecret is the HS256 secret of the hosted auth provider. Empty means no
	// token can be verified, so every request is local-only.
	JWTSecret string `mapstructure:"jwt_secret"`
}

// PushConfig tunes the fire-and-forget remote push queue.
type PushConfig struct {
	QueueSize     int           `mapstructure:"queue_size"`
	RatePerSecond float64       `mapstructure:"rate_per_second"`
	Burst         int           `mapstructure:"burst"`
	Timeout       time.Duration `mapstructure:"timeout"`
}

// CatalogConfig says where the read-only plan catalog comes from.
type CatalogConfig struct {
	Source string `mapstructure:"source"` // file | s3
	Path   string `mapstructure:"path"`   // .json / .yaml file for the file source
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	CatalogKey      string `mapstructure:"catalog_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// store.driver -> STORE_DRIVER, remote.dsn -> REMOTE_DSN
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		// No file: defaults and env vars only.
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")

	v.SetDefault("store.driver", "bolt")
	v.SetDefault("store.path", "gym.db")
	v.SetDefault("store.origin", "default")
	v.SetDefault("store.redis_addr", "localhost:6379")

	v.SetDefault("remote.driver", "none")
	v.SetDefault("remote.uri", "mongodb://localhost:27017")
	v.SetDefault("remote.database", "gym_tracker")
	v.SetDefault("remote.dsn", "")
	v.SetDefault("remote.fetch_limit", 500)
	v.SetDefault("remote.timeout", "10s")
	v.SetDefault("remote.token", "")

	v.SetDefault("auth.jwt_secret", "")

	v.SetDefault("push.queue_size", 64)
	v.SetDefault("push.rate_per_second", 5.0)
	v.SetDefault("push.burst", 5)
	v.SetDefault("push.timeout", "10s")

	v.SetDefault("catalog.source", "file")
	v.SetDefault("catalog.path", "routine.json")

	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.catalog_key", "catalog/routine.json")
}

package config

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// APIConfig points at the user management backend.
type APIConfig struct {
	BaseURL string
	Timeout time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type PostgresConfig struct {
	DSN             string
	MaxOpen         int
	MaxIdle         int
	ConnMaxLifetime time.Duration
	Table           string
}

type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	Region    string
}

// StorageConfig selects where the session survives restarts.
type StorageConfig struct {
	Driver    string
	Path      string
	Namespace string
	Redis     RedisConfig
	Postgres  PostgresConfig
	S3        S3Config
}

type RevalidateConfig struct {
	Enabled  bool
	Schedule string
}

type AppConfig struct {
	Environment string
	HTTP        HTTPConfig
	API         APIConfig
	Storage     StorageConfig
	Revalidate  RevalidateConfig
}

func Load() (*AppConfig, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("../config")

	v.SetEnvPrefix("AMK")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	return decode(v)
}

func decode(v *viper.Viper) (*AppConfig, error) {
	var cfg AppConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("environment", "development")

	v.SetDefault("http.host", "127.0.0.1")
	v.SetDefault("http.port", 3000)
	v.SetDefault("http.readtimeout", "10s")
	v.SetDefault("http.writetimeout", "0s") // session event stream stays open
	v.SetDefault("http.idletimeout", "60s")

	v.SetDefault("api.baseurl", "http://localhost:5000/api/users")
	v.SetDefault("api.timeout", "15s")

	v.SetDefault("storage.driver", "file")
	v.SetDefault("storage.path", "amk-session.json")
	v.SetDefault("storage.namespace", "amk")

	v.SetDefault("storage.redis.addr", "127.0.0.1:6379")
	v.SetDefault("storage.redis.db", 0)

	v.SetDefault("storage.postgres.maxopen", 4)
	v.SetDefault("storage.postgres.maxidle", 1)
	v.SetDefault("storage.postgres.connmaxlifetime", "30m")
	v.SetDefault("storage.postgres.table", "console_storage")

	v.SetDefault("storage.s3.bucket", "amk-console")
	v.SetDefault("storage.s3.usessl", false)
	v.SetDefault("storage.s3.region", "us-east-1")

	v.SetDefault("revalidate.enabled", true)
	v.SetDefault("revalidate.schedule", "0 */5 * * * *")
}

package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"reflect"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds the configuration for the application.
// Tags used:
// - mapstructure: environment variable name
// - default: default value to set if missing
// - required: if "true", error if missing
type Config struct {
	Environment string `mapstructure:"APP_ENV" default:"development"`
	LogLevel    string `mapstructure:"LOG_LEVEL" default:"info"`
	HTTPPort    string `mapstructure:"HTTP_PORT" default:"8080" required:"true"`
	// Storage selects the asset store: "memory" or "postgres".
	Storage string `mapstructure:"STORAGE" default:"memory" required:"true"`

	DB DBConfig `mapstructure:",squash"`

	// RedisURL enables the cross-process location bus when set.
	RedisURL     string `mapstructure:"REDIS_URL"`
	RedisChannel string `mapstructure:"REDIS_CHANNEL" default:"assetsync:locations"`

	Tracking TrackingConfig `mapstructure:",squash"`
	Feed     FeedConfig     `mapstructure:",squash"`
	Jobs     JobsConfig     `mapstructure:",squash"`
	Tracing  TracingConfig  `mapstructure:",squash"`
}

type DBConfig struct {
	Host     string `mapstructure:"DB_HOST" default:"localhost"`
	Port     int    `mapstructure:"DB_PORT" default:"5432"`
	User     string `mapstructure:"DB_USER" default:"postgres"`
	Password string `mapstructure:"DB_PASSWORD"`
	Name     string `mapstructure:"DB_NAME" default:"assetsync"`
	SslMode  string `mapstructure:"DB_SSLMODE" default:"disable"`
}

type TrackingConfig struct {
	MinInterval   time.Duration `mapstructure:"LOCATION_MIN_INTERVAL" default:"1s"`
	TrailCapacity int           `mapstructure:"LOCATION_TRAIL_CAPACITY" default:"100"`
	// MaxAttempts bounds re-runs of writes that lost a version check.
	MaxAttempts uint64 `mapstructure:"WRITE_MAX_ATTEMPTS" default:"4"`
	// UnavailableAttempts bounds re-runs of writes that could not reach a store.
	UnavailableAttempts uint64 `mapstructure:"WRITE_UNAVAILABLE_ATTEMPTS" default:"3"`
}

type FeedConfig struct {
	SubscriberBuffer int           `mapstructure:"FEED_SUBSCRIBER_BUFFER" default:"256"`
	DedupeTTL        time.Duration `mapstructure:"FEED_DEDUPE_TTL" default:"5m"`
	Heartbeat        time.Duration `mapstructure:"FEED_HEARTBEAT" default:"15s"`
}

type JobsConfig struct {
	LocationFlushSchedule string `mapstructure:"JOB_LOCATION_FLUSH_SCHEDULE" default:"* * * * * *"`
	DedupePruneSchedule   string `mapstructure:"JOB_DEDUPE_PRUNE_SCHEDULE" default:"*/30 * * * * *"`
}

type TracingConfig struct {
	// Exporter is "none", "stdout" or "otlp".
	Exporter string `mapstructure:"TRACING_EXPORTER" default:"none"`
	Endpoint string `mapstructure:"TRACING_OTLP_ENDPOINT"`
	Insecure bool   `mapstructure:"TRACING_OTLP_INSECURE" default:"true"`
}

// DSN is the libpq connection string for the configured database.
func (c DBConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SslMode)
}

// LoadConfig loads path/.env into the process environment when present, then
// reads every setting from the environment.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading .env file: %w", err)
	}

	v := viper.New()
	v.AutomaticEnv()

	var config Config

	if err := processTags(v, &config); err != nil {
		return nil, err
	}

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	if err := validateRequired(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks cross-field rules the tags cannot express.
func (c *Config) Validate() error {
	switch c.Storage {
	case StorageMemory:
	case StoragePostgres:
		if c.DB.Password == "" {
			return errors.New("missing required configuration: DB_PASSWORD")
		}
	default:
		return fmt.Errorf("invalid configuration: STORAGE must be %q or %q, got %q",
			StorageMemory, StoragePostgres, c.Storage)
	}
	if c.Tracking.TrailCapacity <= 0 {
		return fmt.Errorf("invalid configuration: LOCATION_TRAIL_CAPACITY must be positive, got %d",
			c.Tracking.TrailCapacity)
	}
	return nil
}

// processTags iterates over the struct fields and sets default values in Viper.
func processTags(v *viper.Viper, config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := processTags(v, val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		key := field.Tag.Get("mapstructure")
		defaultValue := field.Tag.Get("default")

		if key != "" {
			if err := v.BindEnv(key); err != nil {
				return err
			}
		}

		if key != "" && defaultValue != "" {
			v.SetDefault(key, defaultValue)
		}
	}
	return nil
}

// validateRequired checks if fields marked as required have non-zero values.
func validateRequired(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}

	t := val.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)

		if field.Type.Kind() == reflect.Struct {
			if err := validateRequired(val.Field(i).Addr().Interface()); err != nil {
				return err
			}
			continue
		}

		if field.Tag.Get("required") == "true" && val.Field(i).IsZero() {
			return fmt.Errorf("missing required configuration: %s", field.Tag.Get("mapstructure"))
		}
	}
	return nil
}

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Aria-Ghojavand/shamsy-calendar/jalali"
)

// Config holds all configuration for the application
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Calendar CalendarConfig `mapstructure:"calendar"`
	Holidays HolidaysConfig `mapstructure:"holidays"`
	Server   ServerConfig   `mapstructure:"server"`
	Logger   LoggerConfig   `mapstructure:"logger"`
	Security SecurityConfig `mapstructure:"security"`
	Metrics  MetricsConfig  `mapstructure:"metrics"`
}

type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// CalendarConfig selects the leap rule and the zone instants are read in
type CalendarConfig struct {
	LeapRule        string `mapstructure:"leap_rule" validate:"oneof=33 2820 arithmetic-33 birashk-2820"`
	ReferenceOffset string `mapstructure:"reference_offset" validate:"required"`
}

type HolidaysConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	APIURL   string        `mapstructure:"api_url" validate:"omitempty,url"`
	CacheDir string        `mapstructure:"cache_dir"`
	Timeout  time.Duration `mapstructure:"timeout" validate:"min=0"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LoggerConfig struct {
	Level    string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format   string `mapstructure:"format" validate:"oneof=json console"`
	Output   string `mapstructure:"output" validate:"oneof=stdout stderr file"`
	Filename string `mapstructure:"filename" validate:"required_if=Output file"`
}

type SecurityConfig struct {
	RateLimitRequests int           `mapstructure:"rate_limit_requests" validate:"min=1"`
	RateLimitWindow   time.Duration `mapstructure:"rate_limit_window" validate:"gt=0"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// Load reads defaults, an optional shamsy.yaml, .env and SHAMSY_* variables
func Load() (*Config, error) {
	// Load .env file if it exists (ignore errors)
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("shamsy")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "shamsy")
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.environment", "development")

	v.SetDefault("calendar.leap_rule", "33")
	v.SetDefault("calendar.reference_offset", "+03:30")

	v.SetDefault("holidays.enabled", true)
	v.SetDefault("holidays.api_url", "https://pnldev.com/api/calender")
	v.SetDefault("holidays.cache_dir", "")
	v.SetDefault("holidays.timeout", "15s")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "10s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.output", "stderr")
	v.SetDefault("logger.filename", "")

	v.SetDefault("security.rate_limit_requests", 100)
	v.SetDefault("security.rate_limit_window", "1m")

	v.SetDefault("metrics.enabled", true)
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("app.environment", "SHAMSY_ENVIRONMENT")

	v.BindEnv("calendar.leap_rule", "SHAMSY_LEAP_RULE")
	v.BindEnv("calendar.reference_offset", "SHAMSY_REFERENCE_OFFSET")

	v.BindEnv("holidays.enabled", "SHAMSY_HOLIDAYS_ENABLED")
	v.BindEnv("holidays.api_url", "SHAMSY_HOLIDAYS_API_URL")
	v.BindEnv("holidays.cache_dir", "SHAMSY_HOLIDAYS_CACHE_DIR")
	v.BindEnv("holidays.timeout", "SHAMSY_HOLIDAYS_TIMEOUT")

	v.BindEnv("server.host", "SHAMSY_SERVER_HOST")
	v.BindEnv("server.port", "SHAMSY_SERVER_PORT")
	v.BindEnv("server.read_timeout", "SHAMSY_SERVER_READ_TIMEOUT")
	v.BindEnv("server.write_timeout", "SHAMSY_SERVER_WRITE_TIMEOUT")
	v.BindEnv("server.shutdown_timeout", "SHAMSY_SERVER_SHUTDOWN_TIMEOUT")

	v.BindEnv("logger.level", "SHAMSY_LOG_LEVEL")
	v.BindEnv("logger.format", "SHAMSY_LOG_FORMAT")
	v.BindEnv("logger.output", "SHAMSY_LOG_OUTPUT")
	v.BindEnv("logger.filename", "SHAMSY_LOG_FILE")

	v.BindEnv("security.rate_limit_requests", "SHAMSY_RATE_LIMIT_REQUESTS")
	v.BindEnv("security.rate_limit_window", "SHAMSY_RATE_LIMIT_WINDOW")

	v.BindEnv("metrics.enabled", "SHAMSY_METRICS_ENABLED")
}

// Validate checks struct tags and the values that need parsing
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return err
	}
	if cfg.Holidays.Enabled && cfg.Holidays.APIURL == "" {
		return fmt.Errorf("holidays api url is required when holidays are enabled")
	}
	if _, err := cfg.Calendar.Rule(); err != nil {
		return err
	}
	if _, err := cfg.Calendar.Reference(); err != nil {
		return err
	}
	return nil
}

// Rule resolves the configured leap rule
func (c CalendarConfig) Rule() (jalali.LeapRule, error) {
	return jalali.RuleByName(c.LeapRule)
}

// Reference turns an offset such as "+03:30" into a fixed zone
func (c CalendarConfig) Reference() (*time.Location, error) {
	t, err := time.Parse("-07:00", c.ReferenceOffset)
	if err != nil {
		return nil, fmt.Errorf("invalid reference offset %q: %w", c.ReferenceOffset, err)
	}
	_, offset := t.Zone()
	if offset == 3*3600+1800 {
		return time.FixedZone("IRST", offset), nil
	}
	return time.FixedZone("", offset), nil
}

// CachePath returns the holiday cache directory, defaulting to the user cache dir
func (c HolidaysConfig) CachePath() (string, error) {
	if c.CacheDir != "" {
		return c.CacheDir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("failed to get cache directory: %w", err)
	}
	return filepath.Join(dir, "shamsy_calendar"), nil
}

// Address returns host:port for the HTTP listener
func (c ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

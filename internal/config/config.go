package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/m04kA/SMC-ClinicService/internal/scheduler"
	"github.com/m04kA/SMC-ClinicService/pkg/types"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Server   ServerConfig   `toml:"server"`
	Database DatabaseConfig `toml:"database"`
	Logs     LogsConfig     `toml:"logs"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Schedule ScheduleConfig `toml:"schedule"`
	Auth     AuthConfig     `toml:"auth"`
	Redis    RedisConfig    `toml:"redis"`
}

type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`     // секунды
	WriteTimeout    int `toml:"write_timeout"`    // секунды
	IdleTimeout     int `toml:"idle_timeout"`     // секунды
	ShutdownTimeout int `toml:"shutdown_timeout"` // секунды
}

type DatabaseConfig struct {
	Driver          string `toml:"driver"` // postgres | sqlite
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	SQLitePath      string `toml:"sqlite_path"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для выбранного драйвера
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		// pragma через параметры modernc.org/sqlite
		return fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite", c.SQLitePath)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

type ScheduleConfig struct {
	Open          string `toml:"open"`  // HH:MM
	Close         string `toml:"close"` // HH:MM, "24:00" допустимо
	SlotMinutes   int    `toml:"slot_minutes"`
	OpeningPolicy string `toml:"opening_policy"` // lenient | enforce
}

// Window собирает окно расписания для планировщика
func (c ScheduleConfig) Window() (scheduler.Window, error) {
	open, err := types.ParseTimeOfDay(c.Open)
	if err != nil {
		return scheduler.Window{}, fmt.Errorf("%w: schedule.open: %v", ErrInvalidConfig, err)
	}

	var closeAt types.TimeOfDay
	if c.Close == "24:00" {
		closeAt = types.TimeOfDay(types.MinutesPerDay)
	} else if closeAt, err = types.ParseTimeOfDay(c.Close); err != nil {
		return scheduler.Window{}, fmt.Errorf("%w: schedule.close: %v", ErrInvalidConfig, err)
	}

	policy, err := scheduler.ParseOpeningPolicy(c.OpeningPolicy)
	if err != nil {
		return scheduler.Window{}, fmt.Errorf("%w: schedule.opening_policy: %v", ErrInvalidConfig, err)
	}

	w := scheduler.Window{
		Open:        open,
		Close:       closeAt,
		SlotMinutes: c.SlotMinutes,
		Opening:     policy,
	}
	if err := w.Validate(); err != nil {
		return scheduler.Window{}, fmt.Errorf("%w: schedule: %v", ErrInvalidConfig, err)
	}
	return w, nil
}

type AuthConfig struct {
	JWTSecret          string  `toml:"jwt_secret"`
	TokenTTLMinutes    int     `toml:"token_ttl_minutes"`
	LoginRatePerMinute float64 `toml:"login_rate_per_minute"`
	LoginBurst         int     `toml:"login_burst"`
}

func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

type RedisConfig struct {
	Enabled        bool   `toml:"enabled"`
	Addr           string `toml:"addr"`
	Username       string `toml:"username"`
	Password       string `toml:"password"`
	LockTTLSeconds int    `toml:"lock_ttl_seconds"`
}

func (c RedisConfig) LockTTL() time.Duration {
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// Load читает TOML файл, подгружает .env (если есть) и применяет переопределения из окружения
func Load(path string) (*Config, error) {
	cfg := Default()

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config file %s: %w", path, err)
	}

	// .env необязателен
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Default значения, которые используются, если поле не задано в файле
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			HTTPPort:        8080,
			ReadTimeout:     15,
			WriteTimeout:    15,
			IdleTimeout:     60,
			ShutdownTimeout: 10,
		},
		Database: DatabaseConfig{
			Driver:          DriverPostgres,
			Host:            "localhost",
			Port:            5432,
			SSLMode:         "disable",
			SQLitePath:      "clinic.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 300,
		},
		Logs: LogsConfig{
			Level: "info",
		},
		Metrics: MetricsConfig{
			Path:        "/metrics",
			ServiceName: "clinic_service",
		},
		Schedule: ScheduleConfig{
			Open:          "08:00",
			Close:         "18:00",
			SlotMinutes:   30,
			OpeningPolicy: "lenient",
		},
		Auth: AuthConfig{
			TokenTTLMinutes:    8 * 60,
			LoginRatePerMinute: 10,
			LoginBurst:         5,
		},
		Redis: RedisConfig{
			Addr:           "127.0.0.1:6379",
			LockTTLSeconds: 5,
		},
	}
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("CLINIC_DB_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("CLINIC_JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("CLINIC_REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("CLINIC_HTTP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CLINIC_HTTP_PORT=%q is not a number", ErrInvalidConfig, v)
		}
		c.Server.HTTPPort = port
	}
	return nil
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return fmt.Errorf("%w: server.http_port %d out of range", ErrInvalidConfig, c.Server.HTTPPort)
	}

	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Host == "" || c.Database.DBName == "" {
			return fmt.Errorf("%w: database.host and database.dbname are required for postgres", ErrInvalidConfig)
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("%w: database.sqlite_path is required for sqlite", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown database.driver %q", ErrInvalidConfig, c.Database.Driver)
	}

	if _, err := c.Schedule.Window(); err != nil {
		return err
	}

	if len(c.Auth.JWTSecret) < 16 {
		return fmt.Errorf("%w: auth.jwt_secret must be at least 16 characters", ErrInvalidConfig)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("%w: auth.token_ttl_minutes must be positive", ErrInvalidConfig)
	}
	if c.Auth.LoginRatePerMinute <= 0 || c.Auth.LoginBurst <= 0 {
		return fmt.Errorf("%w: auth.login_rate_per_minute and auth.login_burst must be positive", ErrInvalidConfig)
	}

	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			return fmt.Errorf("%w: redis.addr is required when redis is enabled", ErrInvalidConfig)
		}
		if c.Redis.LockTTLSeconds <= 0 {
			return fmt.Errorf("%w: redis.lock_ttl_seconds must be positive", ErrInvalidConfig)
		}
	}

	if c.Metrics.Enabled && c.Metrics.Path == "" {
		return fmt.Errorf("%w: metrics.path is required when metrics are enabled", ErrInvalidConfig)
	}

	return nil
}

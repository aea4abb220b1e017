package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/robfig/cron/v3"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

var (
	// ErrReadConfig возвращается, если файл конфигурации не прочитан
	ErrReadConfig = errors.New("config: failed to read config file")

	// ErrInvalidConfig возвращается при недопустимых значениях
	ErrInvalidConfig = errors.New("config: invalid configuration")
)

// Config конфигурация сервиса
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Storage    StorageConfig    `toml:"storage"`
	Database   DatabaseConfig   `toml:"database"`
	Logs       LogsConfig       `toml:"logs"`
	Metrics    MetricsConfig    `toml:"metrics"`
	Cache      CacheConfig      `toml:"cache"`
	Redis      RedisConfig      `toml:"redis"`
	Kafka      KafkaConfig      `toml:"kafka"`
	Reminders  RemindersConfig  `toml:"reminders"`
	Scheduling SchedulingConfig `toml:"scheduling"`
}

// ServerConfig ops HTTP сервер (метрики, health-check); таймауты в секундах
type ServerConfig struct {
	HTTPPort        int `toml:"http_port"`
	ReadTimeout     int `toml:"read_timeout"`
	WriteTimeout    int `toml:"write_timeout"`
	IdleTimeout     int `toml:"idle_timeout"`
	ShutdownTimeout int `toml:"shutdown_timeout"`
}

// StorageConfig выбор хранилища
type StorageConfig struct {
	Driver string `toml:"driver"` // postgres | memory
}

// DatabaseConfig подключение к PostgreSQL
type DatabaseConfig struct {
	Host            string `toml:"host"`
	Port            int    `toml:"port"`
	User            string `toml:"user"`
	Password        string `toml:"password"`
	DBName          string `toml:"dbname"`
	SSLMode         string `toml:"sslmode"`
	MaxOpenConns    int    `toml:"max_open_conns"`
	MaxIdleConns    int    `toml:"max_idle_conns"`
	ConnMaxLifetime int    `toml:"conn_max_lifetime"` // секунды
}

// DSN строка подключения для lib/pq
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode)
}

// LogsConfig логирование; пустой файл - только stdout
type LogsConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// MetricsConfig Prometheus
type MetricsConfig struct {
	Enabled     bool   `toml:"enabled"`
	Path        string `toml:"path"`
	ServiceName string `toml:"service_name"`
}

// CacheConfig кэш результатов чтения
type CacheConfig struct {
	TTLSeconds int `toml:"ttl_seconds"`
	MaxEntries int `toml:"max_entries"`
}

// TTL время жизни записи
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLSeconds) * time.Second
}

// RedisConfig шина инвалидаций кэша между экземплярами
type RedisConfig struct {
	Enabled  bool   `toml:"enabled"`
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
	Channel  string `toml:"channel"`
}

// KafkaConfig события для сервиса уведомлений; выключено - события пишутся в лог
type KafkaConfig struct {
	Enabled bool   `toml:"enabled"`
	Brokers string `toml:"brokers"` // через запятую
	Topic   string `toml:"topic"`
}

// RemindersConfig ежедневная рассылка напоминаний
type RemindersConfig struct {
	Enabled           bool   `toml:"enabled"`
	Spec              string `toml:"spec"`
	RunTimeoutSeconds int    `toml:"run_timeout_seconds"`
}

// SchedulingConfig параметры записи на приём
type SchedulingConfig struct {
	DefaultPageLimit        int `toml:"default_page_limit"`
	MaxPageLimit            int `toml:"max_page_limit"`
	SlotStepMinutes         int `toml:"slot_step_minutes"`
	MinBookingNoticeMinutes int `toml:"min_booking_notice_minutes"`
	AdvanceBookingDays      int `toml:"advance_booking_days"`
}

// Load читает конфигурацию из TOML файла
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrReadConfig, path, err)
	}
	return Parse(string(data))
}

// Parse разбирает TOML, применяет значения по умолчанию и проверяет результат
func Parse(data string) (*Config, error) {
	cfg := &Config{}
	meta, err := toml.Decode(data, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReadConfig, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %v", ErrInvalidConfig, undecoded)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	setDefault(&c.Server.HTTPPort, 8080)
	setDefault(&c.Server.ReadTimeout, 10)
	setDefault(&c.Server.WriteTimeout, 10)
	setDefault(&c.Server.IdleTimeout, 60)
	setDefault(&c.Server.ShutdownTimeout, 15)

	setDefault(&c.Storage.Driver, StorageDriverPostgres)

	setDefault(&c.Database.Host, "localhost")
	setDefault(&c.Database.Port, 5432)
	setDefault(&c.Database.SSLMode, "disable")
	setDefault(&c.Database.MaxOpenConns, 25)
	setDefault(&c.Database.MaxIdleConns, 5)
	setDefault(&c.Database.ConnMaxLifetime, 300)

	setDefault(&c.Logs.Level, "info")

	setDefault(&c.Metrics.Path, "/metrics")
	setDefault(&c.Metrics.ServiceName, "dental_scheduling")

	setDefault(&c.Cache.TTLSeconds, 300)
	setDefault(&c.Cache.MaxEntries, 10000)

	setDefault(&c.Redis.Addr, "localhost:6379")
	setDefault(&c.Redis.Channel, "dental:cache:invalidations")

	setDefault(&c.Kafka.Topic, "dental.appointments")

	setDefault(&c.Reminders.Spec, "0 8 * * *")
	setDefault(&c.Reminders.RunTimeoutSeconds, 300)

	setDefault(&c.Scheduling.DefaultPageLimit, 20)
	setDefault(&c.Scheduling.MaxPageLimit, 100)
	setDefault(&c.Scheduling.SlotStepMinutes, 15)
	setDefault(&c.Scheduling.AdvanceBookingDays, 90)
}

// Validate проверяет значения конфигурации
func (c *Config) Validate() error {
	var problems []string
	check := func(ok bool, format string, v ...interface{}) {
		if !ok {
			problems = append(problems, fmt.Sprintf(format, v...))
		}
	}

	check(c.Server.HTTPPort > 0 && c.Server.HTTPPort < 65536, "server.http_port %d out of range", c.Server.HTTPPort)

	check(c.Storage.Driver == StorageDriverPostgres || c.Storage.Driver == StorageDriverMemory,
		"storage.driver must be %q or %q, got %q", StorageDriverPostgres, StorageDriverMemory, c.Storage.Driver)
	if c.Storage.Driver == StorageDriverPostgres {
		check(c.Database.DBName != "", "database.dbname is required")
		check(c.Database.User != "", "database.user is required")
	}
	check(c.Database.MaxIdleConns <= c.Database.MaxOpenConns,
		"database.max_idle_conns %d exceeds max_open_conns %d", c.Database.MaxIdleConns, c.Database.MaxOpenConns)

	check(strings.HasPrefix(c.Metrics.Path, "/"), "metrics.path must start with /")

	check(c.Cache.TTLSeconds > 0, "cache.ttl_seconds must be positive")
	check(c.Cache.MaxEntries > 0, "cache.max_entries must be positive")

	if c.Kafka.Enabled {
		check(strings.Trim(c.Kafka.Brokers, ", ") != "", "kafka.brokers is required when kafka is enabled")
	}

	if c.Reminders.Enabled {
		_, err := cron.ParseStandard(c.Reminders.Spec)
		check(err == nil, "reminders.spec %q: %v", c.Reminders.Spec, err)
	}

	s := c.Scheduling
	check(s.MaxPageLimit > 0, "scheduling.max_page_limit must be positive")
	check(s.DefaultPageLimit > 0 && s.DefaultPageLimit <= s.MaxPageLimit,
		"scheduling.default_page_limit %d must be in 1..%d", s.DefaultPageLimit, s.MaxPageLimit)
	check(s.SlotStepMinutes > 0 && s.SlotStepMinutes <= 60, "scheduling.slot_step_minutes %d must be in 1..60", s.SlotStepMinutes)
	check(s.MinBookingNoticeMinutes >= 0, "scheduling.min_booking_notice_minutes must not be negative")
	check(s.AdvanceBookingDays > 0, "scheduling.advance_booking_days must be positive")

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

func setDefault[T comparable](field *T, value T) {
	var zero T
	if *field == zero {
		*field = value
	}
}

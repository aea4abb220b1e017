package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-DentalService/internal/app"
	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/config"
	"github.com/m04kA/SMC-DentalService/internal/infra/cachebus"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-DentalService/internal/integrations/notifier"
	"github.com/m04kA/SMC-DentalService/internal/jobs"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
	"github.com/m04kA/SMC-DentalService/pkg/logger"
	"github.com/m04kA/SMC-DentalService/pkg/metrics"
)

// readinessCheck проверка зависимости для /readyz
type readinessCheck func(ctx context.Context) error

// eventNotifier notifier событий с освобождением ресурсов
type eventNotifier interface {
	app.Notifier
	Close() error
}

func main() {
	configPath := "config.toml"
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		configPath = p
	}

	// Загружаем конфигурацию
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Инициализируем логгер
	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Close()

	log.Info("Starting SMC-DentalService...")
	log.Info("Configuration loaded from %s", configPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Инициализируем метрики (если включены)
	var metricsCollector *metrics.Metrics
	stopMetricsCh := make(chan struct{})

	if cfg.Metrics.Enabled {
		metricsCollector = metrics.New(cfg.Metrics.ServiceName)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	}

	checks := map[string]readinessCheck{}

	// Хранилище
	var storage app.Storage
	switch cfg.Storage.Driver {
	case config.StorageDriverMemory:
		storage = app.MemoryStorage(memory.NewStore())
		log.Warn("Using in-memory storage, data is lost on restart")

	default:
		db, err := sql.Open("postgres", cfg.Database.DSN())
		if err != nil {
			log.Fatal("Failed to connect to database: %v", err)
		}
		defer db.Close()

		// Настраиваем connection pool
		db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		db.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

		// Проверяем соединение
		if err := db.PingContext(ctx); err != nil {
			log.Fatal("Failed to ping database: %v", err)
		}
		log.Info("Successfully connected to database (host=%s, port=%d, db=%s)",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.DBName)

		// Без коллектора обёртка только прокидывает запросы
		wrappedDB := dbmetrics.WrapWithDefault(db, metricsCollector, stopMetricsCh)
		storage = app.PostgresStorage(wrappedDB)
		checks["postgres"] = wrappedDB.PingContext
	}

	// Кэш и шина инвалидаций между экземплярами
	cacheOpts := []cache.Option{cache.WithLogger(log)}
	if metricsCollector != nil {
		cacheOpts = append(cacheOpts, cache.WithMetrics(metricsCollector))
	}

	var bus *cachebus.Bus
	if cfg.Redis.Enabled {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		bus = cachebus.New(redisClient, cfg.Redis.Channel, log)
		cacheOpts = append(cacheOpts, cache.WithPublisher(bus))
		checks["redis"] = bus.Ping
		log.Info("Cache invalidation bus enabled (addr=%s, channel=%s, instance=%s)",
			cfg.Redis.Addr, cfg.Redis.Channel, bus.InstanceID())
	}

	coordinator := cache.New(cache.Config{
		TTL:        cfg.Cache.TTL(),
		MaxEntries: cfg.Cache.MaxEntries,
	}, cacheOpts...)

	if bus != nil {
		go func() {
			if err := bus.Run(ctx, coordinator); err != nil {
				// Без шины кэш других экземпляров устаревает до TTL; сбрасываем свой
				log.Error("Cache bus stopped: %v", err)
				coordinator.Clear()
			}
		}()
	}

	// Уведомления: Kafka или лог
	var events eventNotifier
	if cfg.Kafka.Enabled {
		brokers := notifier.SplitBrokers(cfg.Kafka.Brokers)
		events = notifier.New(notifier.NewKafkaWriter(brokers, cfg.Kafka.Topic), log)
		log.Info("Kafka notifier enabled (brokers=%v, topic=%s)", brokers, cfg.Kafka.Topic)
	} else {
		events = notifier.NewLogging(log)
		log.Info("Kafka disabled, appointment events are logged")
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Error("Failed to close notifier: %v", err)
		}
	}()

	// Движок записи на приём
	engine := app.NewEngine(storage, coordinator, events, metricsCollector, cfg.Scheduling, log)

	// Ежедневные напоминания
	var reminders *jobs.ReminderScheduler
	if cfg.Reminders.Enabled {
		reminders, err = jobs.NewReminderScheduler(jobs.Config{
			Spec:       cfg.Reminders.Spec,
			RunTimeout: time.Duration(cfg.Reminders.RunTimeoutSeconds) * time.Second,
		}, engine.Reminders, log)
		if err != nil {
			log.Fatal("Failed to create reminder scheduler: %v", err)
		}
		reminders.Start()
	}

	// Служебный роутер
	r := mux.NewRouter()

	if cfg.Metrics.Enabled {
		r.Handle(cfg.Metrics.Path, promhttp.Handler()).Methods(http.MethodGet)
		log.Info("Prometheus metrics endpoint exposed at %s", cfg.Metrics.Path)
	}

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)

	r.HandleFunc("/readyz", func(w http.ResponseWriter, req *http.Request) {
		checkCtx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		result := make(map[string]string, len(checks))
		for name, check := range checks {
			if err := check(checkCtx); err != nil {
				log.Warn("Readiness: %s check failed: %v", name, err)
				result[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			result[name] = "ok"
		}
		result["cache_entries"] = fmt.Sprintf("%d", engine.Cache.Len())
		writeJSON(w, status, result)
	}).Methods(http.MethodGet)

	// Создаем HTTP сервер
	addr := fmt.Sprintf(":%d", cfg.Server.HTTPPort)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info("Starting ops server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Server failed to start: %v", err)
		}
	}()

	// Ожидаем сигнал завершения
	<-ctx.Done()

	log.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer cancel()

	if reminders != nil {
		select {
		case <-reminders.Stop().Done():
		case <-shutdownCtx.Done():
			log.Warn("Reminder sweep did not finish before shutdown timeout")
		}
	}

	// Останавливаем сбор метрик connection pool
	close(stopMetricsCh)

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown: %v", err)
	}

	// Досылаем инвалидации до закрытия Redis
	coordinator.Flush()

	log.Info("Server stopped gracefully")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

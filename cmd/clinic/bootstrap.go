package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/m04kA/SMC-ClinicService/internal/app"
	"github.com/m04kA/SMC-ClinicService/internal/config"
	"github.com/m04kA/SMC-ClinicService/internal/infra/lock"
	"github.com/m04kA/SMC-ClinicService/internal/infra/storage"
	"github.com/m04kA/SMC-ClinicService/pkg/dbmetrics"
	"github.com/m04kA/SMC-ClinicService/pkg/logger"
	"github.com/m04kA/SMC-ClinicService/pkg/metrics"
)

// runtime все, что нужно командам: конфиг, логгер, БД и собранное приложение
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	db      *dbmetrics.DB
	dialect storage.Dialect
	metrics *metrics.Metrics
	app     *app.App

	stopMetricsCh chan struct{}
	closers       []func() error
}

func bootstrap(ctx context.Context) (*runtime, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	rt := &runtime{
		cfg:           cfg,
		log:           log,
		stopMetricsCh: make(chan struct{}),
	}
	rt.closers = append(rt.closers, log.Close)

	log.Info("Configuration loaded from %s", configPath)

	dialect, err := storage.ParseDialect(cfg.Database.Driver)
	if err != nil {
		rt.Close()
		return nil, err
	}
	rt.dialect = dialect

	sqlDB, err := sql.Open(cfg.Database.Driver, cfg.Database.DSN())
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	rt.closers = append(rt.closers, sqlDB.Close)

	// Настраиваем connection pool
	if dialect == storage.SQLite {
		// у sqlite один писатель
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.Database.ConnMaxLifetime) * time.Second)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		rt.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info("Successfully connected to database (driver=%s)", cfg.Database.Driver)

	// Инициализируем метрики (если включены)
	if cfg.Metrics.Enabled {
		rt.metrics = metrics.New(cfg.Metrics.ServiceName)
		rt.db = dbmetrics.WrapWithDefault(sqlDB, rt.metrics, rt.stopMetricsCh)
		log.Info("Metrics enabled at %s", cfg.Metrics.Path)
	} else {
		rt.db = dbmetrics.Wrap(sqlDB, nil)
	}

	window, err := cfg.Schedule.Window()
	if err != nil {
		rt.Close()
		return nil, err
	}

	locker, err := rt.newLocker(ctx)
	if err != nil {
		rt.Close()
		return nil, err
	}

	rt.app = app.New(app.Deps{
		DB:          rt.db,
		Dialect:     dialect,
		Locker:      locker,
		Window:      window,
		Auth:        cfg.Auth,
		Metrics:     rt.metrics,
		MetricsPath: cfg.Metrics.Path,
		Logger:      log,
	})

	log.Info("Schedule window %s-%s, slot=%dm, opening=%s",
		window.Open, cfg.Schedule.Close, window.SlotMinutes, window.Opening)

	return rt, nil
}

// newLocker Redis-блокировка при нескольких репликах, иначе блокировка в памяти процесса
func (rt *runtime) newLocker(ctx context.Context) (lock.DayLocker, error) {
	if !rt.cfg.Redis.Enabled {
		rt.log.Info("Using in-process day locks")
		return lock.NewLocal(rt.cfg.Redis.LockTTL()), nil
	}

	client, err := lock.NewRedisClient(ctx, rt.cfg.Redis.Addr, rt.cfg.Redis.Username, rt.cfg.Redis.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	rt.closers = append(rt.closers, client.Close)

	rt.log.Info("Using redis day locks (addr=%s, ttl=%s)", rt.cfg.Redis.Addr, rt.cfg.Redis.LockTTL())
	return lock.NewRedis(client, rt.cfg.Redis.LockTTL()), nil
}

// Close освобождает ресурсы в обратном порядке
func (rt *runtime) Close() {
	select {
	case <-rt.stopMetricsCh:
	default:
		close(rt.stopMetricsCh)
	}

	for i := len(rt.closers) - 1; i >= 0; i-- {
		_ = rt.closers[i]()
	}
}

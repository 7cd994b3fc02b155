package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/colmena-layout/internal/capacity"
	"github.com/iliyamo/colmena-layout/internal/config"
	"github.com/iliyamo/colmena-layout/internal/database"
	"github.com/iliyamo/colmena-layout/internal/handler"
	"github.com/iliyamo/colmena-layout/internal/layout"
	"github.com/iliyamo/colmena-layout/internal/metrics"
	"github.com/iliyamo/colmena-layout/internal/middleware"
	"github.com/iliyamo/colmena-layout/internal/queue"
	"github.com/iliyamo/colmena-layout/internal/repository"
	"github.com/iliyamo/colmena-layout/internal/router"
	"github.com/iliyamo/colmena-layout/internal/service"
	"github.com/iliyamo/colmena-layout/internal/storage"
)

func main() {
	cfg := config.Load()
	rc := config.LoadRedisConfig()

	presets, err := config.LoadPresets(cfg.PresetsFile)
	if err != nil {
		log.Fatalf("presets: %v", err)
	}

	// Redis backs the response cache and the rate limiter; both are skipped
	// when it is unreachable.
	rdb := config.NewRedisClient(rc)
	if rdb == nil {
		log.Printf("redis: unavailable at %s, cache and rate limit disabled", rc.Addr)
	} else {
		defer rdb.Close()
	}

	slot, closeSlot, err := openSlot(cfg, rc, rdb)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer closeSlot()

	m := metrics.New()
	opts := service.Options{
		Store:    storage.NewStore(slot, cfg.StorageKey),
		Backend:  cfg.StorageBackend,
		Metrics:  m,
		Capacity: capacity.Config{PersonsPerSeat: capacity.Persons(cfg.PersonsPerSeat), PersonsPerTable: capacity.Persons(cfg.PersonsPerTable)},
		Presets:  presets,
		Initial:  layout.Overrides{HistoryLimit: &cfg.HistoryLimit},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.QueueEnabled {
		opts.Publisher = queue.NewAMQPPublisher(cfg.RabbitURL, cfg.QueueName)
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.QueueName)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("layout-consumer: stopped: %v", err)
			}
		}()
	}

	editor := service.NewEditor(opts)

	e := echo.New()
	e.HideBanner = true
	e.Validator = handler.NewRequestValidator()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())

	router.RegisterRoutes(e, m.Handler())
	router.RegisterLayout(e, handler.NewLayoutHandler(editor), router.Middlewares{
		Cache: middleware.NewRedisCache(config.LoadCacheConfig(), rdb, editor.Revision),
		Limit: middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb),
	})

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, storage=%s)", addr, cfg.Env, cfg.StorageBackend)
	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// openSlot builds the storage slot for the configured backend.  The returned
// func releases whatever the slot holds open.
func openSlot(cfg config.Config, rc config.RedisConfig, rdb *redis.Client) (storage.Slot, func(), error) {
	noop := func() {}
	switch cfg.StorageBackend {
	case config.BackendMySQL, config.BackendPostgres:
		db, err := openDB(cfg)
		if err != nil {
			return nil, noop, err
		}
		dialect := repository.DialectMySQL
		if cfg.StorageBackend == config.BackendPostgres {
			dialect = repository.DialectPostgres
		}
		slot, err := repository.NewSQLSlot(db, dialect)
		if err != nil {
			db.Close()
			return nil, noop, err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := slot.EnsureTable(ctx); err != nil {
			db.Close()
			return nil, noop, err
		}
		return slot, func() { db.Close() }, nil
	case config.BackendRedis:
		if rdb == nil {
			return nil, noop, errors.New("redis backend selected but redis is unreachable")
		}
		return repository.NewRedisSlot(rdb, rc.SlotPrefix, rc.SlotTTL), noop, nil
	case config.BackendBadger:
		db, err := repository.OpenBadger(cfg.BadgerDir)
		if err != nil {
			return nil, noop, err
		}
		return repository.NewBadgerSlot(db), func() { db.Close() }, nil
	}
	return repository.NewMemorySlot(), noop, nil
}

func openDB(cfg config.Config) (*sql.DB, error) {
	if cfg.StorageBackend == config.BackendPostgres {
		return database.OpenPostgres(cfg.PGUser, cfg.PGPass, cfg.PGHost, cfg.PGPort, cfg.PGName, cfg.PGSSLMode)
	}
	return database.OpenMySQL(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
}

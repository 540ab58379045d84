package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"
	gomongo "go.mongodb.org/mongo-driver/mongo"

	"github.com/jobox/jobox-api/internal/api"
	"github.com/jobox/jobox-api/internal/api/metrics"
	"github.com/jobox/jobox-api/internal/core/ports"
	"github.com/jobox/jobox-api/internal/core/service"
	"github.com/jobox/jobox-api/internal/infrastructure/config"
	"github.com/jobox/jobox-api/internal/infrastructure/db/mongo"
	"github.com/jobox/jobox-api/internal/infrastructure/db/redis"
	"github.com/jobox/jobox-api/internal/infrastructure/memory"
	"github.com/jobox/jobox-api/internal/infrastructure/notify"
	"github.com/jobox/jobox-api/internal/routes"
	"github.com/jobox/jobox-api/pkg/logger"
)

func main() {
	cfg := config.Load()

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := routes.MustNewRegistry()

	var (
		repo    ports.IdentityRepository
		records ports.SessionRecordSource
		mongoDB *gomongo.Database
		rdb     *goredis.Client
	)

	switch cfg.Storage {
	case config.StorageMongo:
		client, db, err := mongo.Connect(ctx, mongo.Config{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to MongoDB")
		}
		defer func() { _ = client.Disconnect(context.Background()) }()

		identityRepo := mongo.NewIdentityRepository(db)
		if err := identityRepo.EnsureIndexes(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure MongoDB indexes")
		}

		rdb, err = redis.Connect(ctx, redis.Config{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer func() { _ = rdb.Close() }()

		repo = identityRepo
		records = redis.NewSessionRecordSource(rdb, cfg.SessionTTL)
		mongoDB = db

	case config.StorageMemory:
		repo = memory.NewSeededIdentityRepository(memory.WithLatency(150 * time.Millisecond))
		records = memory.NewSessionRecordSource()
		log.Info().Msg("running with seeded in-memory storage")
	}

	recorder := metrics.NewSessionEventRecorder(log)
	dispatcher := notify.NewDispatcher(0, recorder, log)
	dispatcher.Start(ctx)

	hub := service.NewSessionHub(repo, records, dispatcher, log)

	e := api.NewRouter(api.Deps{
		Sessions:  hub,
		Registry:  registry,
		Log:       log,
		JWTSecret: cfg.JWTSecret,
		TokenTTL:  cfg.TokenTTL,
		MongoDB:   mongoDB,
		Redis:     rdb,
	})

	go func() {
		addr := ":" + cfg.Port
		log.Info().Str("addr", addr).Str("storage", cfg.Storage).Msg("starting server")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped unexpectedly")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}

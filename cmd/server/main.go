package main

import (
	"context"
	"log"
	"os/signal"
	"strings"
	"syscall"

	"anoa.com/collegeattendance/internal/bootstrap"
	"anoa.com/collegeattendance/internal/config"
	"anoa.com/collegeattendance/internal/server"
	"anoa.com/collegeattendance/pkg/database"
	"anoa.com/collegeattendance/pkg/logger"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	zl, err := logger.New(cfg.AppEnv)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	db, err := database.Connect(database.Options{
		URL:      cfg.DatabaseURL,
		Host:     cfg.DBHost,
		User:     cfg.DBUser,
		Password: cfg.DBPassword,
		Name:     cfg.DBName,
		Port:     cfg.DBPort,
		SSLMode:  cfg.DBSSLMode,
		Debug:    cfg.DBDebug,
	}, zl)
	if err != nil {
		zl.Fatal("database connection failed", zap.Error(err))
	}
	defer func() { _ = database.Close(db) }()

	if err := bootstrap.Migrate(db); err != nil {
		zl.Fatal("migration failed", zap.Error(err))
	}
	if cfg.SeedDemo && !cfg.IsProduction() {
		if err := bootstrap.SeedDemo(db, zl); err != nil {
			zl.Fatal("failed to seed demo data", zap.Error(err))
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zl.Fatal("invalid REDIS_URL", zap.Error(err))
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			zl.Warn("redis unreachable, login throttling and logout are degraded", zap.Error(err))
		}
		defer func() { _ = redisClient.Close() }()
	} else {
		zl.Warn("REDIS_URL not set, login throttling and token revocation disabled")
	}

	var meiliClient meilisearch.ServiceManager
	if host := cfg.MeiliSearchHost; host != "" {
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	} else {
		zl.Info("MEILISEARCH_HOST not set, student search uses the database")
	}

	srv := server.NewServer(cfg, server.Deps{
		DB:    db,
		Redis: redisClient,
		Meili: meiliClient,
		Log:   zl,
	})

	if err := srv.Run(ctx, ":"+cfg.Port); err != nil {
		zl.Fatal("server exited with error", zap.Error(err))
	}
}

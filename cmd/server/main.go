package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/rlawlghkd12/tutomate-sub000/internal/di"
	"github.com/rlawlghkd12/tutomate-sub000/internal/router"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/config"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/database"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/logger"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/middleware"
	"github.com/rlawlghkd12/tutomate-sub000/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if err := logger.Init(&logger.Config{
		Level:       cfg.Log.Level,
		ServiceName: cfg.App.Name,
		Development: cfg.IsDevelopment(),
		OutputPath:  cfg.Log.OutputPath,
	}); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	log := logger.Get()
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tel, err := telemetry.Init(ctx, &telemetry.Config{
		Enabled:       cfg.OTel.Enabled,
		ServiceName:   cfg.OTel.ServiceName,
		CollectorAddr: cfg.OTel.CollectorAddr,
		Environment:   cfg.App.Environment,
	})
	if err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Warn("telemetry shutdown failed", zap.Error(err))
		}
	}()

	var metrics *telemetry.ActivationMetrics
	if cfg.OTel.Enabled {
		metrics, err = telemetry.NewActivationMetrics(tel.Meter())
		if err != nil {
			return fmt.Errorf("init metrics: %w", err)
		}
	}

	db, err := database.NewPostgres(ctx, &database.PostgresConfig{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		Database:        cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		MaxRetries:      3,
		RetryInterval:   2 * time.Second,
		ConnectTimeout:  5 * time.Second,
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()

	rlConfig := middleware.RateLimitConfig{
		RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
		BurstSize:         cfg.RateLimit.BurstSize,
		KeyPrefix:         cfg.RateLimit.KeyPrefix,
	}
	if cfg.RateLimit.UseRedis {
		redisClient, err := database.NewRedis(ctx, &database.RedisConfig{
			Addr:         cfg.Redis.Addr(),
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			PoolSize:     cfg.Redis.PoolSize,
			MinIdleConns: cfg.Redis.MinIdleConns,
		})
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		defer redisClient.Close()
		rlConfig.UseRedis = true
		rlConfig.RedisClient = redisClient
	}

	container := di.NewContainer(&di.ContainerConfig{
		Config:  cfg,
		Log:     log,
		Metrics: metrics,
		DB:      db,
	})

	var rl gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		rl = middleware.RateLimiter(rlConfig)
	}

	engine := router.Setup(cfg, container, rl)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		log.InfoContext(ctx, "server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	log.InfoContext(context.Background(), "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}

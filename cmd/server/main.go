package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cad-pipeline-service/internal/adapters/primary/http/handlers"
	"cad-pipeline-service/internal/adapters/primary/http/middleware"
	"cad-pipeline-service/internal/adapters/secondary/memcache"
	"cad-pipeline-service/internal/adapters/secondary/occtd"
	"cad-pipeline-service/internal/adapters/secondary/postgres"
	"cad-pipeline-service/internal/adapters/secondary/rediscache"
	"cad-pipeline-service/internal/config"
	ports "cad-pipeline-service/internal/core/ports/output"
	"cad-pipeline-service/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	initLogger(cfg)

	// Create database pool
	poolCfg, err := pgxpool.ParseConfig(cfg.Database.DSN())
	if err != nil {
		log.Fatalf("parse db config: %v", err)
	}
	poolCfg.MaxConns = int32(cfg.Database.MaxOpenConns)
	poolCfg.MinConns = int32(cfg.Database.MaxIdleConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		log.Fatalf("create db pool: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(context.Background()); err != nil {
		log.Fatalf("ping db: %v", err)
	}
	log.Info("database connection established")

	// Cache adapter: Redis when enabled, in-process otherwise. Either way the
	// cache is a disposable layer over the database.
	var cache ports.Cache
	if cfg.Redis.Enabled {
		redisCache, err := rediscache.New(&cfg.Redis)
		if err != nil {
			log.Fatalf("connect redis: %v", err)
		}
		defer redisCache.Close()
		cache = redisCache
		log.Info("redis cache initialized")
	} else {
		cache = memcache.New()
		log.Info("redis disabled, using in-process cache")
	}

	// Geometry kernel daemon client
	kernel := occtd.NewClient(&cfg.Kernel)
	log.Infof("geometry kernel client targeting %s", cfg.Kernel.URL)

	// Secondary Adapters (Output Ports - Repositories)
	assemblyRepo := postgres.NewAssemblyRepository(pool)
	artifactRepo := postgres.NewArtifactRepository(pool)

	// Core Services
	assemblySvc := services.NewAssemblyService(assemblyRepo, cache, cfg.Cache.AssemblyTTL)
	exportSvc := services.NewExportService(assemblyRepo, artifactRepo, cache, kernel, cfg.Cache.ExportTTL)

	// Primary Adapter (HTTP Handlers)
	h := handlers.New(assemblySvc, exportSvc)

	// Setup router
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery())

	api := router.Group("/api/v1/cad-pipeline")
	h.RegisterRoutes(api)

	// Health check with DB ping
	router.GET("/healthz", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		log.Infof("starting server on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced shutdown: %v", err)
	}

	log.Info("server stopped")
}

func initLogger(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logger.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if cfg.Logger.Format == "json" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

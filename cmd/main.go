package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/oksasatya/event-registration/config"
	"github.com/oksasatya/event-registration/internal/container"
	"github.com/oksasatya/event-registration/internal/infrastructure"
	"github.com/oksasatya/event-registration/internal/interface/middleware"
	"github.com/oksasatya/event-registration/internal/router"
	"github.com/oksasatya/event-registration/pkg/helpers"
	"github.com/oksasatya/event-registration/pkg/validation"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env, cfg.LogLevel)
	gin.SetMode(cfg.GinMode)
	validation.Init()

	ctx := context.Background()

	shutdownTracing, err := helpers.SetupTracing(ctx, cfg.AppName, cfg.OTelEndpoint)
	if err != nil {
		logger.WithError(err).Warn("tracing disabled")
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	// Storage gateway (migrations run inside)
	gw, err := infrastructure.OpenGateway(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("failed to open %s gateway: %v", cfg.DBDriver, err)
	}
	defer gw.Close()

	// Redis: event cache and rate limiting
	rdb, err := helpers.ConnectRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		logger.WithError(err).Warn("redis unreachable; running without cache and rate limits")
	} else {
		defer func() { _ = rdb.Close() }()
	}

	// RabbitMQ activity feed
	if cfg.ActivityPublishEnabled {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQActivityQueue)
		if err != nil {
			logger.Fatalf("failed to connect rabbitmq: %v", err)
		}
		defer pub.Close()
		container.SetRabbitPub(pub)
	}

	// Elasticsearch event search
	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.Fatalf("failed to init elasticsearch: %v", err)
		}
		container.SetES(es)
	}

	// GCS for registrant exports
	if cfg.GCSBucket != "" {
		gcsClient, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.Fatalf("failed to init GCS client: %v", err)
		}
		defer func() { _ = gcsClient.Close() }()
		container.SetGCS(gcsClient)
	}

	// Provide infra singletons to container for registry auto-wiring
	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetGateway(gw)
	container.SetRedis(rdb)

	// Gin engine and global middleware
	r := gin.New()
	if err := middleware.TrustProxies(r, cfg.TrustedProxyList()); err != nil {
		logger.Fatalf("invalid TRUSTED_PROXIES: %v", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestIDMiddleware())
	r.Use(middleware.RealIP())
	corsCfg := cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(corsCfg.AllowOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
		corsCfg.AllowCredentials = false
	}
	r.Use(cors.New(corsCfg))
	if cfg.Env == "development" || cfg.HTTPLogEnabled {
		r.Use(gin.Logger())
	}

	// Registry: auto-register modules using container
	reg := router.NewRegistry(r)
	router.InitModules(reg)
	reg.RegisterAll()

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		logger.Infof("server starting on :%s (db=%s)", cfg.Port, cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.Errorf("server forced to shutdown: %v", err)
	}
	logger.Info("server exited properly")
}

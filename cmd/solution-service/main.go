package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"veloj/internal/auth"
	"veloj/internal/common/cache"
	"veloj/internal/common/db"
	commonmw "veloj/internal/common/http/middleware"
	"veloj/internal/common/mq"
	"veloj/internal/common/storage"
	problemrepo "veloj/internal/problem/repository"
	"veloj/internal/solution/controller"
	"veloj/internal/solution/repository"
	"veloj/internal/solution/service"
	"veloj/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const defaultConfigPath = "configs/solution_service.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	flag.Parse()

	appCfg, err := loadAppConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load app config failed: %v\n", err)
		return
	}

	if err := logger.Init(appCfg.Logger); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer func() {
		_ = logger.Sync()
	}()

	mysqlDB, err := db.NewMySQLWithConfig(&appCfg.Database)
	if err != nil {
		logger.Error(context.Background(), "init database failed", zap.Error(err))
		return
	}
	defer func() {
		_ = mysqlDB.Close()
	}()
	dbProvider := db.NewManager(mysqlDB)

	redisCache, err := cache.NewRedisCacheWithConfig(&appCfg.Redis)
	if err != nil {
		logger.Error(context.Background(), "init redis failed", zap.Error(err))
		return
	}
	defer func() {
		_ = redisCache.Close()
	}()

	mqClient, err := mq.NewKafkaQueue(appCfg.Kafka)
	if err != nil {
		logger.Error(context.Background(), "init kafka failed", zap.Error(err))
		return
	}
	defer func() {
		_ = mqClient.Close()
	}()

	objStorage, err := storage.NewMinIOStorage(appCfg.MinIO)
	if err != nil {
		logger.Error(context.Background(), "init minio failed", zap.Error(err))
		return
	}

	solutionRepo := repository.NewSolutionRepositoryWithTTL(
		dbProvider, redisCache,
		appCfg.Solution.SolutionCacheTTL, appCfg.Solution.SolutionEmptyTTL,
	)
	taskRepo := repository.NewTaskRepository(dbProvider)
	problemRepo := problemrepo.NewProblemRepository(dbProvider, redisCache)

	solutionService := service.NewService(
		solutionRepo, problemRepo, taskRepo,
		mqClient, objStorage, redisCache,
		service.Config{
			Bucket:          appCfg.Solution.Bucket,
			TopicPrefix:     appCfg.Solution.TopicPrefix,
			DispatchLockTTL: appCfg.Solution.DispatchLockTTL,
		},
	)

	verifier := auth.NewTokenVerifier(appCfg.Auth.Secret, appCfg.Auth.Issuer)
	httpServer := buildHTTPServer(appCfg.Server, solutionService, verifier, mysqlDB, redisCache)

	listener, err := net.Listen("tcp", appCfg.Server.Addr)
	if err != nil {
		logger.Error(context.Background(), "init http listener failed", zap.Error(err))
		return
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info(context.Background(), "solution http server started", zap.String("addr", appCfg.Server.Addr))
		errCh <- httpServer.Serve(listener)
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "http server stopped", zap.Error(err))
		}
	case <-shutdownCtx.Done():
		logger.Info(context.Background(), "shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error(context.Background(), "http server shutdown failed", zap.Error(err))
	}
}

func buildHTTPServer(cfg ServerConfig, svc *service.Service, verifier *auth.TokenVerifier, database db.Database, redisCache cache.Cache) *http.Server {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.TraceContextMiddleware())
	router.Use(requestLogger())

	router.GET("/healthz", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := database.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "component": "database"})
			return
		}
		if err := redisCache.Ping(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "down", "component": "redis"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	solutionController := controller.NewController(svc)
	solutionController.RegisterRoutes(router, auth.EntryAccessMiddleware(verifier))

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		logger.Info(
			c.Request.Context(),
			"request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

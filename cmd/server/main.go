package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"dealerops/internal/config"
	cronrunner "dealerops/internal/cron"
	"dealerops/internal/db"
	"dealerops/internal/engine"
	"dealerops/internal/handler"
	"dealerops/internal/logger"
	gormrepository "dealerops/internal/repository/gorm"
	"dealerops/internal/service"

	_ "dealerops/docs"
)

func main() {
	cfgPath := os.Getenv("DO_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("DO_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	logger, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	dbConn, err := db.Open(cfg.DB)
	if err != nil {
		logger.Fatal("db open failed", zap.Error(err))
	}
	defer db.Close(dbConn)

	if err := db.SetTimezone(dbConn, cfg.DB.Timezone); err != nil {
		logger.Warn("failed to set timezone", zap.Error(err))
	}
	if err := db.AutoMigrate(dbConn); err != nil {
		logger.Fatal("auto-migrate failed", zap.Error(err))
	}

	store := gormrepository.New(dbConn.Gorm)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Writeback workers run on the service base context, not per-request
	// contexts: a caller disconnect must not cancel in-flight score updates.
	var sink engine.ScoreSink
	writeback := engine.NewWriteback(store, logger, cfg.Writeback.QueueSize)
	if cfg.Writeback.Enabled {
		sink = writeback
		go func() {
			if err := writeback.Run(ctx, cfg.Writeback.Workers); err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("score writeback stopped", zap.Error(err))
			}
		}()
	}

	ranker := engine.NewRanker(store, cfg.Engine, logger, sink)

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{DB: dbConn.Gorm}
	healthHandler.Register(router)
	priorityHandler := &handler.PriorityHandler{
		Ranker:       ranker,
		DefaultLimit: cfg.Engine.DefaultLimit,
		MaxLimit:     cfg.Engine.MaxLimit,
	}
	priorityHandler.Register(router)
	orderHandler := &handler.OrderHandler{Repo: store, Logger: logger}
	orderHandler.Register(router)
	salespersonHandler := &handler.SalespersonHandler{Repo: store}
	salespersonHandler.Register(router)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusFound, "/swagger/index.html")
	})

	if cfg.Cron.Enabled {
		refresh := &service.ScoreRefreshService{Ranker: ranker, Logger: logger}
		cronRunner := cronrunner.New(logger, ctx)
		_, err := cronRunner.Add(cfg.Cron.ScoreRefresh, func(ctx context.Context) {
			if err := refresh.RunOnce(ctx); err != nil {
				logger.Warn("cron score refresh failed", zap.Error(err))
			}
		})
		if err != nil {
			logger.Warn("cron register score refresh failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutdown requested")
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

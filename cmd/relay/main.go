package main

import (
	"context"
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

	polymarketgamma "github.com/GeneralMillz/polymarket-relay/internal/client/polymarket/gamma"
	"github.com/GeneralMillz/polymarket-relay/internal/config"
	cronrunner "github.com/GeneralMillz/polymarket-relay/internal/cron"
	"github.com/GeneralMillz/polymarket-relay/internal/dashboard"
	"github.com/GeneralMillz/polymarket-relay/internal/db"
	"github.com/GeneralMillz/polymarket-relay/internal/handler"
	"github.com/GeneralMillz/polymarket-relay/internal/logger"
	"github.com/GeneralMillz/polymarket-relay/internal/opslog"
	gormrepository "github.com/GeneralMillz/polymarket-relay/internal/repository/gorm"
	"github.com/GeneralMillz/polymarket-relay/internal/service"

	_ "github.com/GeneralMillz/polymarket-relay/docs"
)

func main() {
	cfgPath := os.Getenv("RELAY_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("RELAY_ENV_ONLY"); envOnlyRaw != "" {
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

	ops := opslog.New(cfg.OpsLog)
	var reporter service.OpsReporter
	if ops != nil {
		reporter = ops
		logger.Info("ops log enabled", zap.String("base_url", ops.BaseURL))
	}

	gammaHTTP := &http.Client{Timeout: cfg.Gamma.Timeout}
	gammaClient := polymarketgamma.NewFeedClient(gammaHTTP, cfg.Gamma.BaseURL, cfg.Gamma.MarketsPath, logger.Named("gamma"))
	feedService := &service.FeedService{Client: gammaClient, Logger: logger}

	store := gormrepository.New(dbConn.Gorm)
	queryService := &service.WarehouseQueryService{Repo: store, Logger: logger}
	builder := &dashboard.Builder{
		Query:         queryService,
		Logger:        logger,
		RowLimit:      cfg.Dashboard.RowLimit,
		SelectorLimit: cfg.Dashboard.SelectorLimit,
		Notes:         cfg.Dashboard.Notes,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(handler.RequestID())
	engine.Use(handler.AccessLog(logger.Named("http")))
	engine.Use(opslog.ServerErrorMiddleware(ops, logger))
	engine.Use(gin.Recovery())
	engine.Use(handler.CORS())
	engine.SetHTMLTemplate(dashboard.Templates())

	healthHandler := &handler.HealthHandler{DB: handler.PingFunc(func(ctx context.Context) error {
		return db.Ping(ctx, dbConn)
	})}
	healthHandler.Register(engine)
	handler.RegisterDocs(engine)

	feedHandler := &handler.FeedHandler{Service: feedService, Reporter: reporter, Logger: logger}
	feedHandler.Register(engine)

	dashboardHandler := &handler.DashboardHandler{Builder: builder}
	dashboardHandler.Register(engine)

	engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	srv := &http.Server{
		Addr:              cfg.Server.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watch := &service.FreshnessWatch{Query: queryService, Logger: logger.Named("schema_watch"), Reporter: reporter}
	cronRunner := cronrunner.New(logger, ctx)
	if _, err := cronRunner.Add("schema_watch", cfg.Cron.SchemaWatch, func(ctx context.Context) {
		watch.Check(ctx)
	}); err != nil {
		logger.Warn("cron register schema watch failed", zap.Error(err))
	}
	cronRunner.Start()
	defer cronRunner.Stop()

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

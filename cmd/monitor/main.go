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
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"ramarb/internal/advisor"
	"ramarb/internal/cache"
	"ramarb/internal/config"
	cronrunner "ramarb/internal/cron"
	"ramarb/internal/decision"
	"ramarb/internal/detector"
	"ramarb/internal/handler"
	"ramarb/internal/inventory"
	"ramarb/internal/logger"
	"ramarb/internal/marketplace"
	"ramarb/internal/planner"
	"ramarb/internal/pricestore"
	"ramarb/internal/recorder"
	"ramarb/internal/risk"
	"ramarb/internal/scanner"
)

const version = "0.3.0"

func main() {
	cfgPath := os.Getenv("RAM_CONFIG")
	if cfgPath == "" {
		cfgPath = "config/config.yaml"
	}

	envOnly := false
	if envOnlyRaw := os.Getenv("RAM_ENV_ONLY"); envOnlyRaw != "" {
		envOnly = strings.EqualFold(envOnlyRaw, "true") || envOnlyRaw == "1"
	}

	cfg, err := config.Load(cfgPath, envOnly)
	if err != nil {
		panic(err)
	}

	log, err := logger.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Observation cache: redis when configured, process memory otherwise.
	var obsCache cache.Store
	var memCache *cache.MemoryStore
	if cfg.Cache.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis ping failed", zap.Error(err))
		}
		obsCache = &cache.RedisStore{Client: rdb}
		log.Info("using redis observation cache", zap.String("addr", cfg.Cache.RedisAddr))
	} else {
		memCache = cache.NewMemoryStore()
		obsCache = memCache
		log.Info("using in-memory observation cache")
	}

	store := &pricestore.Store{
		Cache:  obsCache,
		TTL:    cfg.Scan.ObservationTTL,
		Logger: log,
	}

	specs := make([]marketplace.Spec, 0, len(cfg.Scan.Marketplaces))
	for name, mc := range cfg.Scan.Marketplaces {
		apiKey := ""
		if mc.APIKeyEnv != "" {
			apiKey = os.Getenv(mc.APIKeyEnv)
		}
		specs = append(specs, marketplace.Spec{
			Name:     name,
			Kind:     mc.Kind,
			BaseURL:  mc.BaseURL,
			APIKey:   apiKey,
			ShiftPct: mc.ShiftPct,
		})
	}
	if len(specs) == 0 {
		// Two disagreeing mock venues so the pipeline is exercisable out of the box.
		specs = []marketplace.Spec{
			{Name: "memorymart", Kind: "mock", ShiftPct: 0},
			{Name: "chipdepot", Kind: "mock", ShiftPct: 45},
		}
		log.Info("no marketplaces configured, using builtin mocks")
	}
	registry, err := marketplace.NewRegistry(specs)
	if err != nil {
		log.Fatal("marketplace registry init failed", zap.Error(err))
	}

	det := &detector.Detector{
		FeeRate:   decimal.NewFromFloat(cfg.Detector.FeeRate),
		MinProfit: decimal.NewFromFloat(cfg.Detector.MinProfitUSD),
		MinMargin: decimal.NewFromFloat(cfg.Detector.MinMarginPct),
		Logger:    log,
	}

	scorer := &risk.Scorer{
		HighRiskMarketplaces: cfg.Risk.HighRiskMarketplaces,
		ConcentrationLimit:   cfg.Risk.ConcentrationLimit,
	}

	var adv advisor.Advisor
	if cfg.Advisor.Enabled {
		apiKey := os.Getenv(cfg.Advisor.APIKeyEnv)
		if apiKey == "" {
			log.Warn("advisor enabled but API key env is empty, running rule-based only",
				zap.String("env", cfg.Advisor.APIKeyEnv))
		} else {
			adv = advisor.NewClaude(advisor.ClaudeConfig{
				APIKey:    apiKey,
				Model:     cfg.Advisor.Model,
				MaxTokens: cfg.Advisor.MaxTokens,
				Timeout:   cfg.Advisor.Timeout,
				Logger:    log,
			})
			log.Info("advisor enabled", zap.String("model", cfg.Advisor.Model))
		}
	}

	engine := &decision.Engine{
		Scorer:         scorer,
		Advisor:        adv,
		MinProfit:      decimal.NewFromFloat(cfg.Decision.MinProfitUSD),
		MinConfidence:  cfg.Decision.MinConfidence,
		MaxTradeAmount: decimal.NewFromFloat(cfg.Decision.MaxTradeUSD),
		Logger:         log,
	}

	builder := &planner.Builder{
		CostMultiplier: cfg.Planner.CostMultiplier,
		Logger:         log,
	}

	book := inventory.NewBook(decimal.NewFromFloat(cfg.Treasury.BalanceUSD))

	var rec scanner.Recorder
	if cfg.DB.DSN != "" {
		db, err := recorder.Open(cfg.DB.DSN)
		if err != nil {
			log.Fatal("db open failed", zap.Error(err))
		}
		rec = &recorder.Recorder{DB: db, Logger: log}
		log.Info("recommendation persistence enabled")
	}

	scan := &scanner.Scanner{Registry: registry, Store: store, Logger: log}
	monitor := &scanner.Monitor{
		Scanner:      scan,
		Detector:     det,
		Engine:       engine,
		Planner:      builder,
		Book:         book,
		Recorder:     rec,
		Logger:       log,
		Interval:     cfg.Scan.Interval,
		ErrorBackoff: cfg.Scan.ErrorBackoff,
	}

	if strings.EqualFold(cfg.App.Env, "dev") {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(corsMiddleware())

	healthHandler := &handler.HealthHandler{Env: cfg.App.Env, Version: version}
	healthHandler.Register(router)
	arbHandler := &handler.ArbitrageHandler{
		Store:    store,
		Detector: det,
		Engine:   engine,
		Planner:  builder,
		Book:     book,
		Monitor:  monitor,
	}
	arbHandler.Register(router)

	if cfg.Cron.Enabled && memCache != nil {
		cronRunner := cronrunner.New(log, ctx)
		_, err := cronRunner.Add(cfg.Cron.Sweep, "cache_sweep", func(ctx context.Context) {
			if n := memCache.Sweep(); n > 0 {
				log.Info("swept expired observations", zap.Int("count", n))
			}
		})
		if err != nil {
			log.Warn("cron register cache sweep failed", zap.Error(err))
		}
		cronRunner.Start()
		defer cronRunner.Stop()
	}

	go monitor.Run(ctx)

	srv := &http.Server{
		Addr:    cfg.Server.HTTPAddr,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("http server starting", zap.String("addr", cfg.Server.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown requested")
	case err := <-errCh:
		log.Error("server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type,Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}

package main

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"portfolio_engine/internal/catalog"
	"portfolio_engine/internal/logger"
	"portfolio_engine/internal/recommend"
	"portfolio_engine/internal/server"
	"portfolio_engine/internal/user"
	"portfolio_engine/internal/workflow"

	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	defer logger.Sync()

	cfg, err := InitServerConfig(os.Args[1:])
	if err != nil {
		logger.Fatal("Failed to parse flags: %v", err)
	}
	logger.SetDebug(cfg.Server.Debug)
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. 初始化 User Provider
	userProvider, err := user.NewStaticProvider(cfg.Paths.Users)
	if err != nil {
		logger.Fatal("Failed to init user provider: %v", err)
	}

	// 2. 初始化 Catalog
	if dir := filepath.Dir(cfg.Paths.Catalog); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			logger.Fatal("Failed to create catalog dir: %v", err)
		}
	}
	store, err := catalog.NewSQLiteStore(cfg.Paths.Catalog)
	if err != nil {
		logger.Fatal("Failed to open catalog: %v", err)
	}
	defer store.Close()

	// 3. 首次启动写入演示数据
	seedCatalog(store, cfg.Paths.Seed)

	// 4. 初始化 Node Registry 与 Pipeline Engine
	registry := RegisterNodes(store)
	engine, err := workflow.NewEngine(cfg.Paths.Pipelines, registry)
	if err != nil {
		logger.Fatal("Failed to init engine: %v", err)
	}
	if !engine.HasScene(cfg.Ranking.Scene) {
		logger.Warn("scene %q not configured, every request will use fallback ranking", cfg.Ranking.Scene)
	}

	svc := recommend.NewService(store, engine,
		recommend.WithScene(cfg.Ranking.Scene),
		recommend.WithDefaultLimit(cfg.Ranking.Limit),
	)

	// 5. 启动 HTTP Server
	timeout := time.Duration(cfg.Server.RequestTimeoutMs) * time.Millisecond
	srv := server.NewServer(userProvider, store, svc, timeout)
	logger.Info("Starting HTTP server on port %s...", cfg.Server.Port)
	if err := srv.Run(":" + cfg.Server.Port); err != nil {
		logger.Fatal("Server failed: %v", err)
	}
}

func seedCatalog(store catalog.Store, path string) {
	if path == "" {
		return
	}
	data, err := catalog.LoadSeed(path)
	if err != nil {
		logger.Warn("skip seeding: %v", err)
		return
	}
	seeded, err := catalog.Seed(context.Background(), store, data)
	if err != nil {
		logger.Error("seed catalog: %v", err)
		return
	}
	if seeded {
		logger.Info("catalog seeded with %d projects and %d skills", len(data.Projects), len(data.Skills))
	}
}

package main

import (
	"fmt"
	"log"
	"time"

	"restaurant-layout/internal/common/config"
	"restaurant-layout/internal/common/health"
	"restaurant-layout/internal/common/logger"
	"restaurant-layout/internal/common/middleware"
	"restaurant-layout/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	zlog, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "gateway")
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zlog.Sync()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	health.Register(app, nil)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Restaurant Layout API v1",
			"status":  "ok",
		})
	})

	layout := proxy.New(cfg.LayoutURL, time.Duration(cfg.ProxyTimeout)*time.Second, zlog.Named("proxy"))
	layout.Mount(api, "/workspaces")

	api.Get("/docs/openapi.yaml", func(c fiber.Ctx) error {
		return layout.Forward(c, cfg.LayoutURL+"/docs/openapi.yaml")
	})

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("starting API gateway",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.String("layout_url", cfg.LayoutURL))

	if err := app.Listen(addr); err != nil {
		zlog.Fatal("server stopped", zap.Error(err))
	}
}

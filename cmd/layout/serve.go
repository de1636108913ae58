package main

import (
	"fmt"
	"os"
	"time"

	"restaurant-layout/internal/common/config"
	"restaurant-layout/internal/common/health"
	"restaurant-layout/internal/common/logger"
	"restaurant-layout/internal/common/middleware"
	"restaurant-layout/internal/layout/handlers"
	"restaurant-layout/internal/layout/service"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the layout HTTP service",
	RunE:  runServe,
}

var servePort string

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "Port to listen on (overrides PORT, default 3001)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg := config.Load()
	switch {
	case servePort != "":
		cfg.Port = servePort
	case os.Getenv("PORT") == "":
		cfg.Port = "3001"
	}

	zlog, err := logger.NewLogger(cfg.LogLevel, cfg.LogFormat, "layout")
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer zlog.Sync()

	app := newApp(cfg, zlog)

	addr := fmt.Sprintf(":%s", cfg.Port)
	zlog.Info("starting layout service",
		zap.String("addr", addr),
		zap.String("env", cfg.Environment),
		zap.String("snapshot_dir", cfg.SnapshotDir))

	return app.Listen(addr)
}

func newApp(cfg *config.Config, zlog *zap.Logger) *fiber.App {
	workspaces := service.NewManager(zlog.Named("workspace"))
	storage := service.NewSnapshotStorage(cfg.SnapshotDir)
	layoutHandler := handlers.NewLayoutHandler(workspaces, storage, zlog.Named("http"))

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimitMB * 1024 * 1024,
		AppName:      "Layout Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Routes
	// ============================================================

	health.Register(app, map[string]health.Check{
		"snapshot_dir": func() error {
			return os.MkdirAll(cfg.SnapshotDir, 0o755)
		},
	})
	handlers.Register(app, layoutHandler, cfg.DocsPath)

	return app
}

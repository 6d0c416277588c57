// Package main - Entry point for the bike-config HTTP server
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"bike-config/internal/app"
	"bike-config/internal/config"
	"bike-config/internal/logging"
)

func main() {
	cfgFile := flag.String("config", "", "config file")
	addr := flag.String("addr", "", "server address (default server.addr)")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
	}

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if err := logging.Initialize(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logging: %v\n", err)
	}
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}

	a, err := app.New(cfg)
	if err != nil {
		logging.Error("startup failed", zap.Error(err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("bike-config server v%s\n", app.Version)
	fmt.Printf("   API: http://localhost%s\n", cfg.Server.Addr)
	logging.Info("server configured",
		zap.String("version", app.Version),
		zap.String("addr", cfg.Server.Addr),
		zap.String("catalog", cfg.Catalog.Backend+":"+cfg.Catalog.Path),
	)

	runErr := a.Server().Run(ctx, cfg.Server.Addr)
	if err := a.Close(); err != nil {
		logging.Error("close failed", zap.Error(err))
	}
	if runErr != nil {
		logging.Error("server stopped", zap.Error(runErr))
		os.Exit(1)
	}
}

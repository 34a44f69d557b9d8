package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"token_pulse/internal/app"

	"github.com/joho/godotenv"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the YAML config")
	interactive := flag.Bool("console", true, "read commands from stdin")
	flag.Parse()

	// 1. .env (optional)
	if err := godotenv.Load(); err != nil {
		slog.Debug(".env file not found, using environment variables")
	}

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(*configPath); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Seed + feed + scheduler + debug server
	if err := bootstrap.Run(); err != nil {
		slog.Error("❌ Startup failed", slog.Any("error", err))
		shutdown(bootstrap)
		os.Exit(1)
	}

	slog.InfoContext(ctx, "✨ Token Pulse running. Type help for commands, Ctrl+C to exit.",
		slog.String("session", bootstrap.Service.SessionID()),
	)

	// 5. Console (blocks until quit or signal)
	if *interactive {
		app.NewConsole(bootstrap.Service, os.Stdout).Run(ctx, os.Stdin)
		stop()
	}
	<-ctx.Done()

	slog.Info("👋 Shutting down gracefully...")
	shutdown(bootstrap)
}

func shutdown(b *app.Bootstrap) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := b.Shutdown(ctx); err != nil {
		slog.Error("Shutdown incomplete", slog.Any("error", err))
	}
}

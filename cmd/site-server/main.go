package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagesmith/internal/config"
	"pagesmith/internal/handler"
	"pagesmith/internal/observability"
	"pagesmith/internal/repository/jsonfile"
	"pagesmith/internal/security"
	"pagesmith/internal/server"
	"pagesmith/internal/service"
)

func main() {
	cfg := config.Load()

	observability.InitLogger(cfg.LogLevel, cfg.LogFormat)

	slog.Info("starting site server",
		slog.String("static_dir", cfg.StaticDir),
		slog.String("edits_file", cfg.EditsFile))

	if _, err := os.Stat(cfg.StaticDir); err != nil {
		slog.Error("static directory not accessible",
			slog.String("dir", cfg.StaticDir),
			slog.String("error", err.Error()))
		os.Exit(1)
	}

	repo := jsonfile.NewStore(cfg.EditsFile)
	codec := security.NewTokenCodec(cfg.SessionSecret)

	editorService := service.NewEditorService(service.Credentials{
		Username:     cfg.EditorUsername,
		Password:     cfg.EditorPassword,
		PasswordHash: cfg.EditorPasswordHash,
	}, codec, repo, cfg.StaticDir)

	editorHandler := handler.NewEditorHandler(editorService, cfg.IsProduction())

	srv := server.New(cfg, editorHandler, repo, codec)

	go func() {
		slog.Info("site server listening", slog.String("port", cfg.Port))
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", slog.String("error", err.Error()))
	}

	slog.Info("server stopped gracefully")
}

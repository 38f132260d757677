package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/dfryer1193/localblog/blog/application"
	"github.com/dfryer1193/localblog/blog/persistence"
	"github.com/dfryer1193/localblog/internal/config"
	"github.com/dfryer1193/localblog/internal/logging"
	"github.com/dfryer1193/localblog/internal/rest"
	"github.com/dfryer1193/localblog/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		config.Exitf("goblog-server: %v", err)
	}
	if err := logging.Setup(cfg.LogLevel, cfg.LogFormat, os.Stderr); err != nil {
		config.Exitf("goblog-server: %v", err)
	}
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Str("store", cfg.Store).Msg("Failed to open store")
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close store")
		}
	}()

	postStorage := persistence.NewPostStorage(store)
	posts := application.NewPostRepository(ctx, postStorage, time.Now)
	themes := application.NewThemeService(postStorage)

	var content application.ContentRenderer = application.PlainRenderer{}
	if cfg.Markdown {
		content = application.NewMarkdownRenderer()
	}

	handler := rest.NewHandler(rest.HandlerConfig{
		Posts:          posts,
		Themes:         themes,
		List:           application.NewListRenderer(content),
		Store:          store,
		RedirectDelay:  cfg.RedirectDelay,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           rest.NewRouter(handler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Addr).Str("store", cfg.Store).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("Server failed")
			stop()
		}
	}()

	<-ctx.Done()

	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shutdown server")
	}

	log.Info().Msg("Server stopped")
}

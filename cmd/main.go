package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sangnt1552314/ytbeat/internal/config"
	"github.com/sangnt1552314/ytbeat/internal/player"
	"github.com/sangnt1552314/ytbeat/internal/services"
	"github.com/sangnt1552314/ytbeat/internal/session"
	"github.com/sangnt1552314/ytbeat/internal/ui"
	"google.golang.org/api/option"
)

func main() {
	cfg := config.Load()

	// The terminal belongs to the UI, so logs go to a file.
	if err := os.MkdirAll(filepath.Dir(cfg.LogPath), 0755); err != nil {
		panic(fmt.Errorf("failed to create logs directory: %w", err))
	}
	logFile, err := os.OpenFile(cfg.LogPath, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		panic(err)
	}
	defer logFile.Close()
	slog.SetDefault(slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: cfg.LogLevel})))

	if err := run(cfg); err != nil {
		slog.Error("ytbeat failed", slog.Any("error", err))
		fmt.Fprintln(os.Stderr, "ytbeat:", err)
		os.Exit(1)
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()

	searcher, err := newSearcher(ctx, cfg)
	if err != nil {
		return err
	}

	if cfg.RedisURL != "" {
		cache, err := services.OpenRedisCache(ctx, cfg.RedisURL, cfg.SearchCacheTTL)
		if err != nil {
			slog.Warn("search cache disabled", slog.Any("error", err))
		} else {
			defer cache.Close()
			searcher = services.NewCachedSearcher(searcher, cache)
			slog.Info("search cache enabled", slog.Duration("ttl", cfg.SearchCacheTTL))
		}
	}

	var library session.Library
	if lib, err := services.OpenLibrary(cfg.LibraryPath); err != nil {
		slog.Warn("library disabled", slog.Any("error", err))
	} else {
		defer lib.Close()
		library = lib
	}

	widget, err := player.StartMPV(ctx, player.MPVConfig{
		Binary:     cfg.MPVPath,
		SocketPath: cfg.PlayerSocket,
		Volume:     cfg.InitialVolume,
		Resolver:   services.NewResolver(cfg.Resolvers, cfg.YtDlpPath),
	})
	if err != nil {
		return fmt.Errorf("start player: %w", err)
	}
	defer widget.Close()

	app := ui.NewApp()
	sess := session.New(session.Config{
		Searcher:   searcher,
		Widget:     widget,
		Notifier:   app.Notifier(),
		Library:    library,
		MaxResults: cfg.MaxResults,
		Volume:     cfg.InitialVolume,
	})
	app.Attach(ctx, sess)

	go func() {
		if err := sess.Run(ctx); err != nil && ctx.Err() == nil {
			slog.Error("session loop stopped", slog.Any("error", err))
		}
	}()
	go func() {
		<-ctx.Done()
		slog.Info("shutting down")
		app.Stop()
	}()

	slog.Info("ytbeat started", slog.Int("max_results", cfg.MaxResults))
	err = app.Run()
	stop()
	return err
}

// newSearcher prefers the Data API and falls back to yt-dlp without a key.
func newSearcher(ctx context.Context, cfg config.Config) (services.TrackSearcher, error) {
	if cfg.YouTubeAPIKey == "" {
		slog.Warn("YOUTUBE_API_KEY not set, searching with yt-dlp", slog.String("path", cfg.YtDlpPath))
		return services.NewYtDlpSearcher(cfg.YtDlpPath), nil
	}

	var opts []option.ClientOption
	if cfg.YouTubeEndpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.YouTubeEndpoint))
	}
	s, err := services.NewYouTubeSearcher(ctx, cfg.YouTubeAPIKey, cfg.RequestsPerSec, opts...)
	if err != nil {
		return nil, err
	}
	return s, nil
}

package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/velvetradio/backstage/backstage"
	"github.com/velvetradio/backstage/backstage/audio"
	"github.com/velvetradio/backstage/backstage/logger"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	customHandler := logger.NewHandler()
	slog.SetDefault(slog.New(customHandler))

	slog.Info("Starting Backstage engine",
		slog.String("version", version),
		slog.String("commit", commit))

	shouldRecomputeCharts := flag.Bool("recompute-charts", false, "Whether to recompute charts on startup")
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := backstage.LoadConfig(*path)
	if err != nil {
		logger.LogError("Failed to load configuration", err)
		os.Exit(-1)
	}
	logger.LogSystem("Configuration loaded successfully")

	setupCtx, setupCancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer setupCancel()

	setupStart := time.Now()
	app := backstage.New(*cfg, version, commit)
	if err := app.Setup(setupCtx, audio.NewHashAnalyzer()); err != nil {
		slog.Error("Engine setup failed",
			slog.String("type", "sys"),
			slog.Any("error", err),
			slog.Duration("attempted_for", time.Since(setupStart)))
		os.Exit(-1)
	}
	slog.Info("Engine components wired",
		slog.String("type", "sys"),
		slog.Duration("took", time.Since(setupStart)))

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()

	if *shouldRecomputeCharts {
		slog.Info("Performing initial chart recompute...",
			slog.String("type", "eng"))
		if err := app.ChartScheduler.RecomputeAll(setupCtx); err != nil {
			slog.Error("Initial chart recompute failed",
				slog.String("type", "eng"),
				slog.Any("error", err))
			os.Exit(-1)
		}
	}

	app.Start(runCtx)

	logger.LogSystem("Engine is running. Press CTRL-C to exit.")
	s := make(chan os.Signal, 1)
	signal.Notify(s, syscall.SIGINT, syscall.SIGTERM)
	<-s
	logger.LogSystem("Shutting down engine...")

	runCancel()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	app.Close(shutdownCtx)
}

package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	githubadapter "github.com/ericfisherdev/mscbot/internal/adapter/driven/github"
	"github.com/ericfisherdev/mscbot/internal/adapter/driven/jsonfile"
	matrixadapter "github.com/ericfisherdev/mscbot/internal/adapter/driven/matrix"
	"github.com/ericfisherdev/mscbot/internal/adapter/driven/mscfeed"
	"github.com/ericfisherdev/mscbot/internal/adapter/driven/rss"
	"github.com/ericfisherdev/mscbot/internal/adapter/driving/bot"
	"github.com/ericfisherdev/mscbot/internal/application"
	"github.com/ericfisherdev/mscbot/internal/config"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on a missing or malformed file).
	configPath := flag.String("config", defaultConfigPath(), "path to the YAML configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return err
	}

	// 2. Configure logging before anything else logs.
	closeLog, err := setupLogging(cfg.Logging)
	if err != nil {
		return err
	}
	defer closeLog()

	slog.Info("config loaded",
		"homeserver", cfg.Matrix.HomeserverURL,
		"user_id", cfg.Matrix.UserID,
		"repo", cfg.GitHub.Repo,
		"data_filepath", cfg.Bot.DataFilepath,
	)

	// 3. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Load the room-settings snapshot.
	settings, err := jsonfile.NewSettingsRepo(cfg.Bot.DataFilepath)
	if err != nil {
		return err
	}

	// 5. Wire driven adapters.
	tracker, err := githubadapter.NewClient(cfg.GitHub.Token, cfg.GitHub.Repo)
	if err != nil {
		return err
	}
	reviewFeed := mscfeed.NewClient(cfg.MSC.ReviewFeedURL)
	announceFeed := rss.NewFeed(cfg.News.AnnouncementFeedURL)
	transport, err := matrixadapter.NewTransport(
		cfg.Matrix.HomeserverURL,
		cfg.Matrix.UserID,
		cfg.Matrix.Token,
		cfg.Matrix.MessageType,
		cfg.Matrix.SyncInterval,
	)
	if err != nil {
		return err
	}

	// 6. Wire application services.
	status := application.NewStatusService(tracker, reviewFeed, settings)
	reporter := application.NewReporter(tracker, cfg.MSC.FCPLengthDays, cfg.MSC.FCPBotUser, cfg.MatrixID)
	news := application.NewNewsService(tracker, announceFeed)
	scheduler := application.NewScheduler()
	commands := application.NewCommands(settings, status, reporter, news, scheduler, cfg.GitHub.Repo, cfg.Bot.DailySummaryTime)

	// 7. Arm startup summary triggers from the persisted settings.
	scheduler.ArmFromSettings(settings.All(), cfg.Bot.DailySummaryTime)
	slog.Info("summary triggers armed", "rooms", len(scheduler.Rooms()))

	// 8. Start the transport sync loop and the bot control loop.
	b := bot.New(transport, commands, scheduler, cfg.Bot.CommandName, cfg.Bot.TickInterval)

	go func() {
		if err := transport.Run(ctx, b); err != nil && ctx.Err() == nil {
			slog.Error("transport sync loop exited", "error", err)
			stop()
		}
	}()

	slog.Info("mscbot started", "command", cfg.Bot.CommandName, "summary_time", cfg.Bot.DailySummaryTime)
	b.Run(ctx)

	slog.Info("shutdown complete")
	return nil
}

// defaultConfigPath prefers the MSCBOT_CONFIG environment variable, falling
// back to config.yaml in the working directory.
func defaultConfigPath() string {
	if path := os.Getenv("MSCBOT_CONFIG"); path != "" {
		return path
	}
	return "config.yaml"
}

// setupLogging installs the default slog handler per the logging config and
// returns a cleanup for the logfile, if one was opened.
func setupLogging(cfg config.LoggingConfig) (func(), error) {
	level := slog.LevelInfo
	if strings.EqualFold(cfg.Level, "debug") {
		level = slog.LevelDebug
	}

	var w io.Writer = os.Stderr
	cleanup := func() {}
	if cfg.Logfile != "" {
		f, err := os.OpenFile(cfg.Logfile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening logfile %s: %w", cfg.Logfile, err)
		}
		w = f
		cleanup = func() { _ = f.Close() }
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})))
	return cleanup, nil
}

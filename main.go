package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/streamlot/streamlot/auctionhouse"
	"github.com/streamlot/streamlot/auctionhouse/auction"
	"github.com/streamlot/streamlot/auctionhouse/catalog"
	"github.com/streamlot/streamlot/auctionhouse/database"
	"github.com/streamlot/streamlot/auctionhouse/database/repositories"
	"github.com/streamlot/streamlot/auctionhouse/logger"
	"github.com/streamlot/streamlot/server"
)

var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	path := flag.String("config", "config.toml", "path to config")
	flag.Parse()

	cfg, err := auctionhouse.LoadConfig(*path)
	if err != nil {
		slog.Error("Failed to load configuration", slog.Any("error", err))
		os.Exit(-1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(logger.Options{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: cfg.Log.AddSource,
	})))

	slog.Info("Starting streamlot auction service",
		slog.String("version", version),
		slog.String("commit", commit))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	dbStartTime := time.Now()
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		slog.Error("Database connection failed",
			slog.String("error", err.Error()),
			slog.Duration("attempted_for", time.Since(dbStartTime)))
		os.Exit(-1)
	}
	defer db.Close()

	slog.Info("Database connected successfully",
		slog.String("database", cfg.DB.Database),
		slog.Duration("took", time.Since(dbStartTime)))

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize database schema", slog.String("error", err.Error()))
		os.Exit(-1)
	}

	var notifier *auction.Notifier
	if cfg.Redis.Addr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer redisClient.Close()

		if err := redisClient.Ping(ctx).Err(); err != nil {
			slog.Warn("Redis unreachable, events will be log-only",
				slog.String("addr", cfg.Redis.Addr),
				slog.String("error", err.Error()))
			notifier = auction.NewNotifier(nil, cfg.Redis.Channel)
		} else {
			notifier = auction.NewNotifier(redisClient, cfg.Redis.Channel)
			slog.Info("Redis event publisher connected", slog.String("addr", cfg.Redis.Addr))
		}
	} else {
		notifier = auction.NewNotifier(nil, cfg.Redis.Channel)
	}

	policy, err := cfg.Engine.Policy()
	if err != nil {
		slog.Error("Invalid engine configuration", slog.String("error", err.Error()))
		os.Exit(-1)
	}

	repo := repositories.NewAuctionRepository(db.BunDB())
	directory := catalog.NewDirectory(db.BunDB())
	manager := auction.NewManager(repo, directory, directory, notifier, policy)

	scheduler := auction.NewScheduler(manager, repo, cfg.Engine.SweepInterval())
	manager.SetScheduler(scheduler)

	if err := scheduler.Recover(ctx); err != nil {
		slog.Error("Failed to recover auction timers", slog.String("error", err.Error()))
		os.Exit(-1)
	}
	scheduler.Start()

	srv := server.New(server.Config{
		Addr:       cfg.Server.Addr,
		RateLimit:  cfg.Server.RateLimit,
		RateWindow: cfg.Server.RateWindow(),
	}, manager, repo)

	runCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		slog.Info("HTTP server listening", slog.String("addr", cfg.Server.Addr))
		return srv.Listen()
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("Shutting down...")
		scheduler.Shutdown()
		return srv.Shutdown()
	})

	if err := g.Wait(); err != nil {
		slog.Error("Service exited with error", slog.String("error", err.Error()))
		os.Exit(-1)
	}
	slog.Info("Shutdown complete")
}

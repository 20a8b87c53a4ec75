package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"autobid/internal/config"
	"autobid/internal/db"
	"autobid/internal/logger"
	"autobid/internal/repository"
	"autobid/internal/service"
)

// lifecycle opens auctions whose start date passed and settles auctions whose
// end date passed. Without an interval it makes a single pass and exits, which
// suits cron; with one it keeps running.
func main() {
	cfg := config.Load()
	logger.SetLevel(cfg.LogLevel)

	interval := flag.Duration("interval", cfg.LifecycleInterval, "repeat every interval (0 runs once)")
	flag.Parse()

	dsn := cfg.MySQLDSN
	if cfg.DBDriver == db.DriverSQLite {
		dsn = cfg.SQLitePath
	}
	gormDB, err := db.Open(cfg.DBDriver, dsn)
	if err != nil {
		logger.Fatal("database init failed", map[string]any{"driver": cfg.DBDriver, "error": err.Error()})
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.Fatal("migration failed", map[string]any{"error": err.Error()})
	}

	svc := service.NewLifecycleService(repository.NewAuctionRepository(gormDB))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *interval <= 0 {
		changed, err := svc.AdvanceDue(ctx, time.Now().UTC())
		if err != nil {
			logger.Fatal("lifecycle pass failed", map[string]any{"changed": changed, "error": err.Error()})
		}
		logger.Info("lifecycle pass complete", map[string]any{"changed": changed})
		return
	}

	logger.Info("lifecycle runner started", map[string]any{"interval": interval.String()})
	service.RunLifecycle(ctx, svc, *interval)
	logger.Info("lifecycle runner stopped", nil)
}

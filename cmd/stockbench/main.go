// Command stockbench runs a configurable churn workload against storehouse
// and reports whether every entity and component value was accounted for.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/TheBitDrifter/storehouse"
	"github.com/TheBitDrifter/storehouse/internal/config"
	"github.com/TheBitDrifter/storehouse/internal/workload"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	path := flag.String("config", "", "path to a TOML workload file (defaults are used when empty)")
	flag.Parse()

	cfg := config.Defaults()
	if *path != "" {
		loaded, err := config.Load(*path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer log.Sync()

	storehouse.Config.SetLogger(log.Named("storehouse"))
	if cfg.Workload.TableCapacity > 0 {
		storehouse.Config.SetInitialTableCapacity(cfg.Workload.TableCapacity)
	}
	if cfg.Workload.SparseCapacity > 0 {
		storehouse.Config.SetInitialSparseCapacity(cfg.Workload.SparseCapacity)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("workload starting",
		zap.Int("workers", cfg.Workload.Workers),
		zap.Int("entities", cfg.Workload.Entities),
		zap.Int("regions", cfg.Workload.Regions),
		zap.Int("rounds", cfg.Workload.Rounds),
		zap.Int("components", len(cfg.Components)),
	)
	start := time.Now()
	results, err := workload.Run(ctx, cfg, log)
	if err != nil {
		return err
	}

	var moved, transferred int
	for _, res := range results {
		log.Info("worker result",
			zap.Int("worker", res.Worker),
			zap.Int("spawned", res.Spawned),
			zap.Int("moved", res.Moved),
			zap.Int("transferred", res.Transferred),
			zap.Int("replaced", res.Replaced),
			zap.Int("despawned", res.Despawned),
			zap.Int("dropped", res.Dropped),
		)
		moved += res.Moved
		transferred += res.Transferred
	}
	log.Info("workload finished",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("moved", moved),
		zap.Int("transferred", transferred),
	)
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

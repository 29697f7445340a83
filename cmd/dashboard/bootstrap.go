package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"launchdash/pkg/config"
	"launchdash/pkg/launch"
	"launchdash/pkg/logger"
	"launchdash/pkg/metrics"
	"launchdash/pkg/parser"
	"launchdash/pkg/source"
)

// bootstrap loads config, builds the logger and reads the dataset
func bootstrap(ctx context.Context) (*config.AppConfig, *logger.Logger, *launch.Dataset, error) {
	// 1. Load config
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// 2. Initialize logger
	l, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Environment: cfg.Environment,
		ServiceName: cfg.ServiceName,
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	// 3. Load dataset
	src := source.New(cfg.Dataset.Location, cfg.Dataset.FetchTimeout)
	raw, err := src.Load(ctx)
	if err != nil {
		l.Error("failed to load dataset", err, zap.String("source", src.Name()))
		return nil, nil, nil, err
	}

	records, err := parser.ParseLaunchRecords(raw)
	if err != nil {
		l.Error("failed to parse dataset", err, zap.String("source", src.Name()))
		return nil, nil, nil, err
	}

	ds, err := launch.NewDataset(records)
	if err != nil {
		l.Error("invalid dataset", err, zap.String("source", src.Name()))
		return nil, nil, nil, err
	}
	metrics.DatasetRecords.Set(float64(ds.Len()))

	l.Info("dataset loaded",
		zap.String("source", src.Name()),
		zap.Int("records", ds.Len()),
		zap.Strings("sites", ds.Sites()))

	return cfg, l, ds, nil
}

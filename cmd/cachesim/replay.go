package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/oriys/cachesim/internal/cache"
	"github.com/oriys/cachesim/internal/config"
	"github.com/spf13/cobra"
)

func replayCmd() *cobra.Command {
	var logPath string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "recompute per-kind hit/miss stats from a performance log",
		Long:  "Replay a CSV performance log written by `run` and print the per-kind hit/miss tally, without re-running the trace. Uses the configured cache backend to memoize repeated lookups against the same log.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.DefaultConfig()
			if configFile != "" {
				var err error
				cfg, err = config.LoadFromFile(configFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
			}
			config.LoadFromEnv(cfg)

			backend, err := newCacheBackend(cfg.Cache)
			if err != nil {
				return err
			}
			defer backend.Close()

			statsCache := cache.NewStatsCache(backend, cfg.Cache.TTL)
			stats, err := statsCache.MissStats(context.Background(), logPath)
			if err != nil {
				return fmt.Errorf("replay performance log: %w", err)
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(stats)
		},
	}

	cmd.Flags().StringVar(&logPath, "log", "", "path to a performance log written by `run`")
	cmd.MarkFlagRequired("log")

	return cmd
}

func newCacheBackend(cfg config.CacheConfig) (cache.Cache, error) {
	switch cfg.Backend {
	case "", "memory":
		return cache.NewInMemoryCache(), nil
	case "redis":
		return cache.NewRedisCache(cache.RedisCacheConfig{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
		}), nil
	default:
		return nil, fmt.Errorf("replay: unknown cache backend %q", cfg.Backend)
	}
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/oriys/cachesim/internal/catalog"
	"github.com/oriys/cachesim/internal/config"
	"github.com/oriys/cachesim/internal/eventsink"
	"github.com/oriys/cachesim/internal/scheduler"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// sweepCmd compares several eviction policies against the same catalog
// and trace in one invocation. Each policy gets its own Scheduler and
// Pool — nothing is shared between them, so they are driven
// concurrently via errgroup rather than one after another.
func sweepCmd() *cobra.Command {
	var (
		catalogPath string
		tracePath   string
		policies    string
		memCapacity int
		logDir      string
		runID       string
		numFuncs    int
	)

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "replay a trace against several eviction policies concurrently",
		Long:  "Run the same catalog and trace through one independent Scheduler per named policy, in parallel, and report each policy's cost summary side by side.",
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

			if cmd.Flags().Changed("mem-capacity") {
				cfg.Pool.MemCapacity = memCapacity
			}
			if cmd.Flags().Changed("log-dir") {
				cfg.Run.LogDir = logDir
			}
			if cmd.Flags().Changed("run-id") {
				cfg.Run.RunID = runID
			}
			if cfg.Run.RunID == "" || cfg.Run.RunID == "run" {
				cfg.Run.RunID = uuid.NewString()
			}

			names := strings.Split(policies, ",")
			for i := range names {
				names[i] = strings.TrimSpace(names[i])
			}

			specs, err := catalog.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			events, err := catalog.LoadTrace(tracePath, specs)
			if err != nil {
				return err
			}

			g, _ := errgroup.WithContext(context.Background())
			results := make([]*runSummary, len(names))

			for i, name := range names {
				i, name := i, name
				g.Go(func() error {
					logPath := eventsink.LogPath(cfg.Run.LogDir, name, numFuncs, cfg.Pool.MemCapacity, cfg.Run.RunID)
					sink, err := eventsink.NewCSVSink(logPath)
					if err != nil {
						return fmt.Errorf("policy %s: open performance log: %w", name, err)
					}
					defer sink.Close()

					sched, err := scheduler.New(name, cfg.Pool.MemCapacity,
						scheduler.WithSink(sink),
						scheduler.WithOverhead(cfg.Policy.ProviderOverheadBase, cfg.Policy.ProviderOverheadPct),
						scheduler.WithRandSeed(cfg.Policy.RandSeed),
					)
					if err != nil {
						return fmt.Errorf("policy %s: %w", name, err)
					}

					for _, ev := range events {
						if err := sched.Invoke(ev.Spec, ev.Time); err != nil {
							return fmt.Errorf("policy %s: invoke %s@%v: %w", name, ev.Spec.Kind, ev.Time, err)
						}
					}

					summary := summarizeRun(sched, specs, cfg.Policy.ProviderOverheadBase, cfg.Policy.ProviderOverheadPct)
					summary.RunID = cfg.Run.RunID
					summary.Policy = name
					summary.MemCapacity = cfg.Pool.MemCapacity
					summary.LogPath = logPath
					results[i] = summary
					return nil
				})
			}

			if err := g.Wait(); err != nil {
				return err
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(results)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to the function catalog YAML file")
	cmd.Flags().StringVar(&tracePath, "trace", "", "path to the invocation trace YAML file")
	cmd.Flags().StringVar(&policies, "policies", "RAND,LEAST_USED,MAX_MEM,CLOUD21", "comma-separated list of policies to compare")
	cmd.Flags().IntVar(&memCapacity, "mem-capacity", 0, "pool memory capacity")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory to write each policy's performance log to")
	cmd.Flags().StringVar(&runID, "run-id", "", "unique run id embedded in the log filenames")
	cmd.Flags().IntVar(&numFuncs, "num-funcs", 0, "number of distinct function kinds, embedded in the log filenames")
	cmd.MarkFlagRequired("catalog")
	cmd.MarkFlagRequired("trace")

	return cmd
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oriys/cachesim/internal/catalog"
	"github.com/oriys/cachesim/internal/config"
	"github.com/oriys/cachesim/internal/cost"
	"github.com/oriys/cachesim/internal/domain"
	"github.com/oriys/cachesim/internal/eventsink"
	"github.com/oriys/cachesim/internal/logging"
	"github.com/oriys/cachesim/internal/metrics"
	"github.com/oriys/cachesim/internal/observability"
	"github.com/oriys/cachesim/internal/scheduler"
	"github.com/oriys/cachesim/internal/store"
	"github.com/spf13/cobra"
)

func runCmd() *cobra.Command {
	var (
		catalogPath string
		tracePath   string
		policyName  string
		memCapacity int
		logDir      string
		runID       string
		label       string
		numFuncs    int
		pgDSN       string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "replay a trace against the container pool simulator",
		Long:  "Load a function catalog and an invocation trace, drive them through a Scheduler under the named eviction policy, and write the CSV performance log plus a cost summary.",
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

			if cmd.Flags().Changed("policy") {
				cfg.Policy.Name = policyName
			}
			if cmd.Flags().Changed("mem-capacity") {
				cfg.Pool.MemCapacity = memCapacity
			}
			if cmd.Flags().Changed("log-dir") {
				cfg.Run.LogDir = logDir
			}
			if cmd.Flags().Changed("run-id") {
				cfg.Run.RunID = runID
			}
			if cmd.Flags().Changed("label") {
				cfg.Run.Label = label
			}
			if cmd.Flags().Changed("pg-dsn") {
				cfg.Store.DSN = pgDSN
				cfg.Store.Enabled = true
			}
			if cfg.Run.RunID == "" || cfg.Run.RunID == "run" {
				cfg.Run.RunID = uuid.NewString()
			}

			logging.InitStructured(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)

			ctx := context.Background()
			if err := observability.Init(ctx, observability.Config{
				Enabled:     cfg.Observability.Tracing.Enabled,
				Exporter:    cfg.Observability.Tracing.Exporter,
				Endpoint:    cfg.Observability.Tracing.Endpoint,
				ServiceName: cfg.Observability.Tracing.ServiceName,
				SampleRate:  cfg.Observability.Tracing.SampleRate,
			}); err != nil {
				return fmt.Errorf("init tracing: %w", err)
			}
			defer observability.Shutdown(ctx)

			specs, err := catalog.LoadCatalog(catalogPath)
			if err != nil {
				return err
			}
			events, err := catalog.LoadTrace(tracePath, specs)
			if err != nil {
				return err
			}

			logPath := eventsink.LogPath(cfg.Run.LogDir, cfg.Policy.Name, numFuncs, cfg.Pool.MemCapacity, cfg.Run.RunID)
			sink, err := eventsink.NewCSVSink(logPath)
			if err != nil {
				return fmt.Errorf("open performance log: %w", err)
			}
			defer sink.Close()

			var promMetrics *metrics.PrometheusMetrics
			if cfg.Observability.Metrics.Enabled {
				promMetrics = metrics.InitPrometheus(cfg.Observability.Metrics.Namespace)
			}

			sched, err := scheduler.New(cfg.Policy.Name, cfg.Pool.MemCapacity,
				scheduler.WithSink(sink),
				scheduler.WithOverhead(cfg.Policy.ProviderOverheadBase, cfg.Policy.ProviderOverheadPct),
				scheduler.WithRandSeed(cfg.Policy.RandSeed),
			)
			if err != nil {
				return fmt.Errorf("construct scheduler: %w", err)
			}

			ctx, span := observability.StartSpan(ctx, "cachesim.run",
				observability.AttrPolicy.String(cfg.Policy.Name))
			defer span.End()

			for _, ev := range events {
				if err := sched.Invoke(ev.Spec, ev.Time); err != nil {
					observability.SetSpanError(span, err)
					return fmt.Errorf("invoke %s@%v: %w", ev.Spec.Kind, ev.Time, err)
				}
				if promMetrics != nil {
					p := sched.Pool()
					promMetrics.SetPoolGauges(p.MemUsed(), p.MemCapacity(), p.Len())
				}
			}
			observability.SetSpanOK(span)

			summary := summarizeRun(sched, specs, cfg.Policy.ProviderOverheadBase, cfg.Policy.ProviderOverheadPct)
			summary.RunID = cfg.Run.RunID
			summary.Policy = cfg.Policy.Name
			summary.MemCapacity = cfg.Pool.MemCapacity
			summary.LogPath = logPath

			if cfg.Store.Enabled {
				pg, err := store.NewPostgresStore(ctx, cfg.Store.DSN)
				if err != nil {
					return fmt.Errorf("connect run-history store: %w", err)
				}
				defer pg.Close()
				if err := pg.SaveRun(ctx, store.RunRecord{
					RunID:          cfg.Run.RunID,
					Label:          cfg.Run.Label,
					Policy:         cfg.Policy.Name,
					MemCapacity:    cfg.Pool.MemCapacity,
					Hits:           summary.totalHits,
					Misses:         summary.totalMisses,
					CapacityMisses: summary.totalCapacityMisses,
					Evictions:      summary.totalEvictions,
					FinishedAt:     time.Now(),
				}); err != nil {
					return fmt.Errorf("persist run record: %w", err)
				}
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(summary)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "path to the function catalog YAML file")
	cmd.Flags().StringVar(&tracePath, "trace", "", "path to the invocation trace YAML file")
	cmd.Flags().StringVar(&policyName, "policy", "", "eviction policy: RAND, LEAST_USED, MAX_MEM, CLOUD21")
	cmd.Flags().IntVar(&memCapacity, "mem-capacity", 0, "pool memory capacity")
	cmd.Flags().StringVar(&logDir, "log-dir", "", "directory to write the performance log to")
	cmd.Flags().StringVar(&runID, "run-id", "", "unique run id embedded in the log filename")
	cmd.Flags().StringVar(&label, "label", "", "human-readable run label")
	cmd.Flags().IntVar(&numFuncs, "num-funcs", 0, "number of distinct function kinds, embedded in the log filename")
	cmd.Flags().StringVar(&pgDSN, "pg-dsn", "", "Postgres DSN for run-history persistence")
	cmd.MarkFlagRequired("catalog")
	cmd.MarkFlagRequired("trace")

	return cmd
}

type runSummary struct {
	RunID          string             `json:"run_id"`
	Policy         string             `json:"policy"`
	MemCapacity    int                `json:"mem_capacity"`
	LogPath        string             `json:"log_path,omitempty"`
	Kinds          []*cost.KindCostSummary `json:"kinds"`
	TotalCost      float64            `json:"total_cost"`

	totalHits           int64
	totalMisses         int64
	totalCapacityMisses int64
	totalEvictions      int64
}

func summarizeRun(sched *scheduler.Scheduler, specs map[domain.Kind]domain.FunctionSpec, overheadBase, overheadPct float64) *runSummary {
	calc := cost.NewDefaultCalculator()
	stats := make([]cost.RunStats, 0, len(specs))

	summary := &runSummary{}
	for kind, spec := range specs {
		hits := sched.Hits(kind)
		misses := sched.Misses(kind)
		capMisses := sched.CapacityMisses(kind)
		evictions := sched.Evictions(kind)
		if hits == 0 && misses == 0 && capMisses == 0 {
			continue
		}

		stats = append(stats, cost.RunStats{
			Kind:           string(kind),
			Hits:           hits,
			Misses:         misses,
			CapacityMisses: capMisses,
			MemSize:        spec.MemSize,
			WarmTime:       spec.WarmTime,
			ColdProcTime:   spec.ColdProcTime(overheadBase, overheadPct),
		})

		summary.totalHits += hits
		summary.totalMisses += misses
		summary.totalCapacityMisses += capMisses
		summary.totalEvictions += evictions
	}

	report := calc.Summarize(stats)
	summary.Kinds = report.Kinds
	summary.TotalCost = report.TotalCost
	return summary
}

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/bobsim/datawash/pkg/config"
	"github.com/bobsim/datawash/pkg/metrics"
	"github.com/bobsim/datawash/pkg/pipeline"
	"github.com/bobsim/datawash/pkg/profile"
	"github.com/bobsim/datawash/pkg/schema"
	"github.com/bobsim/datawash/pkg/store"
)

var (
	version = "0.1.0-dev"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "", "Path to runtime config (.yaml, .toml or .json)")
	dataset := flag.String("dataset", "all", "Dataset kind to process, comma separated, or \"all\"")
	periodFlag := flag.String("period", "", "Period to process (YYYYMM or YYYYMMDD); defaults to the previous month")
	schedule := flag.String("schedule", "", "Cron spec; when set, run the previous month on every firing instead of once")
	metricsAddr := flag.String("metrics-addr", "", "Serve Prometheus metrics on this address")
	showProfile := flag.Bool("profile", false, "Print a profile of every persisted table")
	flag.Parse()

	if *showVersion {
		fmt.Println("datawash", version)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	if *schedule != "" {
		cfg.Schedule = *schedule
	}
	if *metricsAddr != "" {
		cfg.Metrics.Addr = *metricsAddr
	}

	logger, err := newLogger(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	defer func() { _ = logger.Sync() }()

	reg := schema.Default()
	if cfg.Registry != "" {
		if reg, err = schema.Load(cfg.Registry); err != nil {
			logger.Fatal("load registry", zap.String("path", cfg.Registry), zap.Error(err))
		}
	}
	kinds, err := parseKinds(reg, *dataset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	rec, err := metrics.New()
	if err != nil {
		logger.Fatal("metrics", zap.Error(err))
	}
	st := store.NewFS(cfg.Store.Root, store.CSV{Encoding: cfg.Store.Encoding, Delimiter: cfg.Delimiter()})
	orch := pipeline.New(reg, st, pipeline.WithLogger(logger), pipeline.WithMetrics(rec))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Addr != "" {
		srv := serveMetrics(cfg.Metrics.Addr, rec, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	runOnce := func(p schema.Period) bool {
		ok := true
		for _, out := range orch.ProcessAll(ctx, kinds, p, cfg.Parallel) {
			if !out.OK() {
				ok = false
				continue
			}
			if *showProfile {
				fmt.Printf("%s %s -> %s\n", out.Dataset, out.Period, out.Key)
				fmt.Print(profile.Of(out.Frame, 5).ReportText())
			}
		}
		return ok
	}

	if cfg.Schedule == "" {
		p := schema.MonthOf(time.Now()).Previous()
		if *periodFlag != "" {
			if p, err = schema.ParsePeriod(*periodFlag); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
		}
		if !runOnce(p) {
			os.Exit(1)
		}
		return
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Schedule, func() {
		runOnce(schema.MonthOf(time.Now()).Previous())
	}); err != nil {
		logger.Fatal("invalid schedule", zap.String("schedule", cfg.Schedule), zap.Error(err))
	}
	c.Start()
	logger.Info("scheduler started", zap.String("schedule", cfg.Schedule), zap.Int("datasets", len(kinds)))
	<-ctx.Done()
	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}

// parseKinds resolves the -dataset flag against the registry.
func parseKinds(reg *schema.Registry, s string) ([]schema.Kind, error) {
	if s == "" || s == "all" {
		return reg.Kinds(), nil
	}
	var kinds []schema.Kind
	for _, part := range strings.Split(s, ",") {
		k := schema.Kind(strings.TrimSpace(part))
		if _, err := reg.Dataset(k); err != nil {
			return nil, err
		}
		kinds = append(kinds, k)
	}
	return kinds, nil
}

func serveMetrics(addr string, rec *metrics.Recorder, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rec.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server", zap.Error(err))
		}
	}()
	return srv
}

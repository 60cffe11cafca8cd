package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/stvn101/carbonintelligence/core/apicache"
	"github.com/stvn101/carbonintelligence/core/cache"
	"github.com/stvn101/carbonintelligence/core/calccache"
	"github.com/stvn101/carbonintelligence/core/config"
	"github.com/stvn101/carbonintelligence/core/health"
	"github.com/stvn101/carbonintelligence/core/logger"
	"github.com/stvn101/carbonintelligence/core/server"
	cachemetrics "github.com/stvn101/carbonintelligence/integration/metrics/prometheus"
)

type appConfig struct {
	Env       string `env:"APP_ENV" envDefault:"development"`
	LogLevel  string `env:"LOG_LEVEL"`
	LogFormat string `env:"LOG_FORMAT"`
	Namespace string `env:"METRICS_NAMESPACE" envDefault:"carbon"`

	Server server.Config
	Cache  cache.Config
	API    apicache.Config
	Calc   calccache.Config
}

func main() {
	var cfg appConfig
	config.MustLoad(&cfg)

	log := newLogger(cfg)
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("reportcache stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("reportcache stopped")
}

func run(ctx context.Context, cfg appConfig, log *slog.Logger) error {
	general, err := cache.NewFromConfig[string, []byte](cfg.Cache,
		cache.WithName("general"),
		cache.WithLogger(log),
		cache.WithEvictCallback(func(key string, _ []byte) {
			log.Debug("general cache evicted", logger.Key("key", key))
		}),
	)
	if err != nil {
		return err
	}

	responses, err := apicache.NewFromConfig[[]byte](cfg.API, cache.WithLogger(log))
	if err != nil {
		return err
	}

	results, err := calccache.NewFromConfig[float64](cfg.Calc, cache.WithLogger(log))
	if err != nil {
		return err
	}

	janitors := []*cache.Janitor{
		cache.NewJanitor(general, cache.WithCleanupInterval(cfg.Cache.CleanupInterval), cache.WithJanitorLogger(log)),
		cache.NewJanitor(responses, cache.WithCleanupInterval(cfg.API.CleanupInterval), cache.WithJanitorLogger(log)),
		cache.NewJanitor(results, cache.WithCleanupInterval(cfg.Calc.CleanupInterval), cache.WithJanitorLogger(log)),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	col, err := cachemetrics.Register(reg, cfg.Namespace, general, responses, results)
	if err != nil {
		return err
	}
	col.AddJanitor(general.Name(), janitors[0])
	col.AddJanitor(responses.Name(), janitors[1])
	col.AddJanitor(results.Name(), janitors[2])

	checks := make([]func(context.Context) error, 0, len(janitors))
	for _, j := range janitors {
		checks = append(checks, j.Healthcheck)
	}

	mux := http.NewServeMux()
	mux.Handle("GET /metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	mux.HandleFunc("GET /health/live", health.Liveness)
	mux.Handle("GET /health/ready", health.Readiness(log, checks...))
	mux.HandleFunc("GET /ping", health.NoContent)

	srv, err := server.NewFromConfig(cfg.Server, server.WithLogger(log))
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	for _, j := range janitors {
		g.Go(j.Run(ctx))
	}
	g.Go(srv.Run(ctx, mux))

	return g.Wait()
}

// newLogger starts from the APP_ENV preset and applies LOG_LEVEL and LOG_FORMAT
// on top when set.
func newLogger(cfg appConfig) *slog.Logger {
	var opts []logger.Option
	switch strings.ToLower(cfg.Env) {
	case "production":
		opts = append(opts, logger.WithProduction("reportcache"))
	case "staging":
		opts = append(opts, logger.WithStaging("reportcache"))
	default:
		opts = append(opts, logger.WithDevelopment("reportcache"))
	}

	if cfg.LogLevel != "" {
		var level slog.Level
		if err := level.UnmarshalText([]byte(cfg.LogLevel)); err == nil {
			opts = append(opts, logger.WithLevel(level))
		}
	}

	switch strings.ToLower(cfg.LogFormat) {
	case "json":
		opts = append(opts, logger.WithJSONFormatter())
	case "text":
		opts = append(opts, logger.WithTextFormatter())
	}

	return logger.New(opts...)
}

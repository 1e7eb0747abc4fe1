// Command subsync-import loads a CRM customer export, normalizes it, and
// writes the surviving rows into the configured destination.
//
// The binary keeps the CLI layer thin: it loads the pipeline config,
// optionally initializes a metrics backend, and hands off to the
// streaming run. It depends only on storage-agnostic interfaces and
// never imports database drivers directly.
package main

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	"github.com/Krishneshvar/subsync-import/internal/config"
	"github.com/Krishneshvar/subsync-import/internal/logger"
	"github.com/Krishneshvar/subsync-import/internal/metrics"
	"github.com/Krishneshvar/subsync-import/internal/metrics/prompush"

	// register all storage backends with the factory; the config picks
	// which one a run actually uses.
	_ "github.com/Krishneshvar/subsync-import/internal/storage/all"
)

func main() {
	var (
		cfgPath        string
		metricsBackend string
		pushGatewayURL string
		validate       bool
		debug          bool
	)

	flag.StringVar(&cfgPath, "config", "configs/pipelines/customers_mysql.json", "pipeline config JSON path")
	flag.StringVar(&metricsBackend, "metrics-backend", "none", "metrics backend to use (pushgateway, none)")
	flag.StringVar(&pushGatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides env PUSHGATEWAY_URL)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	flag.BoolVar(&debug, "debug", false, "enable debug logs")
	flag.Parse()

	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	log := logger.New(debug).With().Str("run_id", uuid.NewString()).Logger()

	f, err := os.Open(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfgPath).Msg("open config")
	}
	var p config.Pipeline
	err = json.NewDecoder(f).Decode(&p)
	f.Close()
	if err != nil {
		log.Fatal().Err(err).Str("path", cfgPath).Msg("decode config")
	}

	issues := config.ValidatePipeline(p)
	for _, iss := range issues {
		ev := log.Warn()
		if iss.Severity == config.SeverityError {
			ev = log.Error()
		}
		ev.Str("path", iss.Path).Msg(iss.Message)
	}
	if config.HasError(issues) {
		log.Fatal().Str("config", cfgPath).Msg("configuration is invalid")
	}
	if validate {
		log.Info().Str("config", cfgPath).Msg("configuration is valid")
		return
	}

	initMetrics(log, p, metricsBackend, pushGatewayURL)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Warn().Err(err).Msg("metrics flush")
		}
	}()

	ctx := context.Background()
	start := time.Now()

	log.Info().
		Str("job", p.Job).
		Str("source", p.Source.Kind).
		Str("parser", p.Parser.Kind).
		Str("storage", p.Storage.Kind).
		Msg("pipeline starting")

	if err := run(ctx, log, p); err != nil {
		log.Fatal().Err(err).Msg("run failed")
	}

	log.Info().
		Str("elapsed", time.Since(start).Truncate(time.Millisecond).String()).
		Msg("completed")
}

// initMetrics resolves the metrics backend from flag and environment and
// installs it. An init failure keeps the nop backend rather than aborting
// the import.
func initMetrics(log zerolog.Logger, p config.Pipeline, backendName, gatewayURL string) {
	if backendName == "" {
		backendName = os.Getenv("METRICS_BACKEND")
	}
	switch backendName {
	case "pushgateway":
		if gatewayURL == "" {
			gatewayURL = os.Getenv("PUSHGATEWAY_URL")
		}
		if gatewayURL == "" {
			gatewayURL = "http://localhost:9091"
		}
		jobName := p.Job
		if jobName == "" {
			jobName = "subsync-import"
		}
		b, err := prompush.NewBackend(jobName, gatewayURL)
		if err != nil {
			log.Warn().Err(err).Msg("metrics: pushgateway init failed; metrics disabled")
			return
		}
		log.Info().Str("url", gatewayURL).Str("job", jobName).Msg("metrics: pushgateway enabled")
		metrics.SetBackend(b)

	case "", "none":
		// nop backend remains

	default:
		log.Warn().Str("backend", backendName).Msg("metrics: unknown backend; metrics disabled")
	}
}

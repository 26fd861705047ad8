package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ChanSentinel/internal/collector"
	"ChanSentinel/internal/config"
	"ChanSentinel/internal/notifier"
	"ChanSentinel/internal/report"
	"ChanSentinel/internal/scheduler"
)

const mockBars = 240

func main() {
	if err := config.LoadEnvFile(); err != nil {
		log.Fatal().Err(err).Msg("load .env")
	}

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	setupLogging(cfg.Log.Level, cfg.Log.Format)
	log.Info().Str("config", cfgPath).Msg("ChanSentinel starting")

	detail, err := report.ParseDetail(cfg.Output.Detail)
	if err != nil {
		log.Fatal().Err(err).Msg("output detail")
	}

	src := newSource(cfg)
	log.Info().Str("source", src.Name()).Str("symbol", cfg.DataSource.Symbol).Msg("data source ready")
	col := collector.NewCollector(src, cfg.DataSource.Symbol, cfg.AnalysisParams())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cfg.Schedule.Cron == "" {
		if err := runOnce(ctx, col, cfg.Output.Path, report.Options{Detail: detail, IncludeBars: cfg.Output.IncludeBars}); err != nil {
			log.Fatal().Err(err).Msg("analysis failed")
		}
		return
	}

	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
	sched := scheduler.NewScheduler(ctx, col, tn)
	if cfg.Output.Path != "" {
		opts := report.Options{Detail: detail, IncludeBars: cfg.Output.IncludeBars}
		sched.OnRun = func(run *collector.Run) {
			if err := writeReport(run, cfg.Output.Path, opts); err != nil {
				log.Error().Err(err).Str("run_id", run.ID).Msg("write report")
			}
		}
	}
	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatal().Err(err).Msg("register cron task")
	}
	sched.Start()
	defer sched.Stop()

	if tn.Enabled() {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("Telegram polling started")
	} else {
		log.Warn().Msg("Telegram not configured, alerts disabled")
	}

	if cfg.Schedule.RunOnStart {
		log.Info().Msg("run_on_start enabled, executing analysis now")
		go sched.RunNow()
	}

	log.Info().Str("cron", cfg.Schedule.Cron).Msg("ChanSentinel is running. Press Ctrl+C to stop.")
	<-ctx.Done()
	log.Info().Msg("shutdown signal received, stopping...")
}

func setupLogging(level, format string) {
	if format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		log.Warn().Str("level", level).Msg("invalid log level, using info")
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func newSource(cfg *config.Config) collector.Source {
	switch cfg.DataSource.Type {
	case "file":
		return collector.NewFileSource(cfg.DataSource.Path)
	case "http":
		return collector.NewHTTPSource(cfg.DataSource.URL, cfg.Proxy)
	default:
		return collector.NewMockSource(100, mockBars)
	}
}

func runOnce(ctx context.Context, col *collector.Collector, path string, opts report.Options) error {
	run, err := col.Collect(ctx)
	if err != nil {
		return err
	}
	return writeReport(run, path, opts)
}

// writeReport writes the run's report to path, or to stdout when path is empty.
func writeReport(run *collector.Run, path string, opts report.Options) error {
	rep := report.Build(run.Result, report.Meta{
		RunID:      run.ID,
		Symbol:     run.Symbol,
		Source:     run.Source,
		AnalyzedAt: run.StartedAt,
		Duration:   run.Duration,
	}, opts)

	if path == "" {
		return rep.WriteJSON(os.Stdout)
	}
	if err := rep.SaveFile(path); err != nil {
		return err
	}
	log.Info().Str("path", path).Str("run_id", run.ID).Msg("report written")
	return nil
}

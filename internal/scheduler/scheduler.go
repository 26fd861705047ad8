package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"ChanSentinel/internal/collector"
	"ChanSentinel/internal/model"
	"ChanSentinel/internal/notifier"
)

// maxAlertPoints bounds how many trade points a single alert lists.
const maxAlertPoints = 5

// Notifier delivers formatted messages.
type Notifier interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
	Enabled() bool
}

// Scheduler re-runs the analysis on a cron schedule and alerts on trade
// points newer than the last alert. Runs are serialised.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Notifier
	Ctx       context.Context

	// OnRun, when set, receives every successful run.
	OnRun func(*collector.Run)

	mu        sync.Mutex
	lastAlert time.Time
	lastRun   *collector.Run
	logger    zerolog.Logger
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, n Notifier) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Notifier:  n,
		Ctx:       ctx,
		logger:    log.With().Str("component", "scheduler").Logger(),
	}
}

// Register adds the analysis task under the given cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.analysisTask); err != nil {
		return fmt.Errorf("register analysis task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// RunNow executes the analysis task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.analysisTask()
}

// LastRun returns the most recent successful run, or nil.
func (s *Scheduler) LastRun() *collector.Run {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *Scheduler) analysisTask() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.logger.Info().Msg("running analysis task")
	run, err := s.Collector.Collect(s.Ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("analysis failed")
		s.trySend(fmt.Sprintf("❌ 缠论分析失败: %v", err))
		return
	}
	s.lastRun = run
	if s.OnRun != nil {
		s.OnRun(run)
	}

	base := run.Result.Levels[0]
	points := latestAfter(base.TradePoints, pointTime, s.lastAlert, maxAlertPoints)
	nested := latestAfter(run.Result.Nested, nestedTime, s.lastAlert, maxAlertPoints)
	if len(points) == 0 && len(nested) == 0 {
		s.logger.Info().Str("run_id", run.ID).Msg("no new trade points")
		return
	}

	msg := notifier.FormatAnalysisReport(run.Symbol, run.Result, points, nested, run.StartedAt)
	s.trySend(msg)

	for _, p := range points {
		if p.Time.After(s.lastAlert) {
			s.lastAlert = p.Time
		}
	}
	for _, np := range nested {
		if np.Time.After(s.lastAlert) {
			s.lastAlert = np.Time
		}
	}
	s.logger.Info().Str("run_id", run.ID).Int("points", len(points)).Int("nested", len(nested)).
		Time("last_alert", s.lastAlert).Msg("alert sent")
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	switch command {
	case "立即分析", "/analyze":
		s.mu.Lock()
		defer s.mu.Unlock()
		run, err := s.Collector.Collect(s.Ctx)
		if err != nil {
			return fmt.Sprintf("❌ 缠论分析失败: %v", err)
		}
		s.lastRun = run
		base := run.Result.Levels[0]
		return notifier.FormatAnalysisReport(run.Symbol, run.Result,
			tail(base.TradePoints, maxAlertPoints), run.Result.Nested, run.StartedAt)
	case "查看状态", "/status":
		run := s.LastRun()
		if run == nil {
			return "尚未运行分析"
		}
		return fmt.Sprintf("📦 <b>%s</b> | 运行 %s\n%s", run.Symbol, run.StartedAt.Format("2006-01-02 15:04"),
			notifier.FormatLevelSummary(run.Result))
	case "查看买卖点", "/points":
		run := s.LastRun()
		if run == nil {
			return "尚未运行分析"
		}
		points := tail(run.Result.Levels[0].TradePoints, 10)
		if len(points) == 0 {
			return "暂无买卖点"
		}
		var msg string
		for _, p := range points {
			msg += notifier.FormatTradePoint(p) + "\n"
		}
		return msg
	default:
		return "可用命令:\n• 立即分析 /analyze\n• 查看状态 /status\n• 查看买卖点 /points"
	}
}

func (s *Scheduler) trySend(text string) {
	if !s.Notifier.Enabled() {
		s.logger.Debug().Msg("notifier disabled, skipping message")
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.logger.Error().Err(err).Msg("send notification")
	}
}

// latestAfter returns the elements stamped after since, keeping the latest n.
func latestAfter[T any](xs []T, at func(T) time.Time, since time.Time, n int) []T {
	var out []T
	for _, x := range xs {
		if at(x).After(since) {
			out = append(out, x)
		}
	}
	return tail(out, n)
}

func tail[T any](xs []T, n int) []T {
	if len(xs) > n {
		return xs[len(xs)-n:]
	}
	return xs
}

func pointTime(p model.TradePoint) time.Time        { return p.Time }
func nestedTime(p model.NestedTradePoint) time.Time { return p.Time }

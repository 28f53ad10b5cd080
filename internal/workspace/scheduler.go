package workspace

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultReloadTimeout = 30 * time.Second

// Scheduler reloads a workspace on a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	ws      *Workspace
	cron    *cron.Cron
	logger  *slog.Logger
	timeout time.Duration
}

// NewScheduler registers a reload of ws on schedule. timeout bounds each reload;
// zero means 30s.
func NewScheduler(ws *Workspace, schedule cron.Schedule, timeout time.Duration) *Scheduler {
	if timeout <= 0 {
		timeout = defaultReloadTimeout
	}
	s := &Scheduler{ws: ws, logger: ws.logger, timeout: timeout}

	clog := cronLogger{s.logger}
	s.cron = cron.New(
		cron.WithLogger(clog),
		cron.WithChain(cron.Recover(clog), cron.SkipIfStillRunning(clog)),
	)
	s.cron.Schedule(schedule, cron.FuncJob(s.run))

	return s
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	if _, err := s.ws.Reload(ctx); err != nil {
		s.logger.ErrorContext(ctx, "scheduled reload failed", slog.String("error", err.Error()))
	}
}

// Start runs the scheduler in the background.
func (s *Scheduler) Start(context.Context) error {
	s.cron.Start()
	s.logger.Info("reload scheduler started", slog.Time("next", s.Next()))
	return nil
}

// Stop waits for a running reload to finish or ctx to end.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Next returns the time of the next scheduled reload.
func (s *Scheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now())
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	l *slog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}

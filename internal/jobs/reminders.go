// Package jobs ежедневная рассылка напоминаний по расписанию cron.
package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	DefaultSpec       = "0 8 * * *" // каждый день в 08:00 UTC
	DefaultRunTimeout = 5 * time.Minute
)

// Config параметры рассылки
type Config struct {
	Spec       string
	RunTimeout time.Duration
}

// ReminderScheduler запускает рассылку напоминаний по cron-расписанию
// Запуски не перекрываются: если предыдущий ещё идёт, очередной пропускается
type ReminderScheduler struct {
	cron    *cron.Cron
	sender  ReminderSender
	timeout time.Duration
	logger  Logger

	ctx    context.Context
	cancel context.CancelFunc
}

// NewReminderScheduler создает планировщик; cron-выражение проверяется сразу
func NewReminderScheduler(cfg Config, sender ReminderSender, logger Logger) (*ReminderScheduler, error) {
	if strings.TrimSpace(cfg.Spec) == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = DefaultRunTimeout
	}

	cronLogger := cronLogAdapter{logger: logger}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		cron.WithLogger(cronLogger),
	)

	s := &ReminderScheduler{
		cron:    c,
		sender:  sender,
		timeout: cfg.RunTimeout,
		logger:  logger,
	}
	s.ctx, s.cancel = context.WithCancel(context.Background())

	if _, err := c.AddFunc(cfg.Spec, s.run); err != nil {
		s.cancel()
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSpec, cfg.Spec, err)
	}

	return s, nil
}

// Start запускает планировщик в фоне
func (s *ReminderScheduler) Start() {
	s.cron.Start()
	s.logger.Info("ReminderScheduler: started, next run at %s", s.Next().Format(time.RFC3339))
}

// Stop останавливает планировщик и прерывает текущий запуск
// Возвращает контекст, который завершается, когда запущенная рассылка закончилась
func (s *ReminderScheduler) Stop() context.Context {
	done := s.cron.Stop()
	s.cancel()
	s.logger.Info("ReminderScheduler: stopped")
	return done
}

// Next время следующего запуска
func (s *ReminderScheduler) Next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	if !entries[0].Next.IsZero() {
		return entries[0].Next
	}
	return entries[0].Schedule.Next(time.Now().UTC())
}

// RunOnce выполняет одну рассылку вне расписания
func (s *ReminderScheduler) RunOnce(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	result, err := s.sender.Execute(ctx)
	if err != nil {
		if result != nil {
			s.logger.Error("Reminders: sweep for %s interrupted after %d/%d sent: %v",
				result.Date.Format("2006-01-02"), result.Sent, result.Total, err)
		} else {
			s.logger.Error("Reminders: sweep failed: %v", err)
		}
		return err
	}

	s.logger.Info("Reminders: sweep for %s done in %s: total=%d, sent=%d, failed=%d",
		result.Date.Format("2006-01-02"), time.Since(started).Round(time.Millisecond),
		result.Total, result.Sent, result.Failed)
	return nil
}

func (s *ReminderScheduler) run() {
	_ = s.RunOnce(s.ctx)
}

// cronLogAdapter переводит key-value логи cron в printf-стиль
type cronLogAdapter struct {
	logger Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	// cron пишет в Info каждое пробуждение; интересны только пропуски запусков
	if msg == "skip" {
		a.logger.Warn("Reminders: previous sweep still running, run skipped%s", formatKV(keysAndValues))
	}
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error("Reminders: cron %s: %v%s", msg, err, formatKV(keysAndValues))
}

func formatKV(keysAndValues []interface{}) string {
	var b strings.Builder
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fmt.Fprintf(&b, " %v=%v", keysAndValues[i], keysAndValues[i+1])
	}
	return b.String()
}

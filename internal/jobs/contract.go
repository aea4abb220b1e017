package jobs

import (
	"context"

	"github.com/m04kA/SMC-DentalService/internal/usecase/send_reminders"
)

// ReminderSender рассылка напоминаний о приёмах на сегодня
type ReminderSender interface {
	Execute(ctx context.Context) (*send_reminders.Result, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

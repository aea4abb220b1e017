package send_reminders

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	ListPendingByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
}

// Notifier отправка напоминаний
type Notifier interface {
	NotifyReminder(ctx context.Context, appointment *domain.Appointment) error
}

// MetricsRecorder учёт напоминаний (*metrics.Metrics)
type MetricsRecorder interface {
	ObserveReminder(result string)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время в UTC
func (p *RealTimeProvider) Now() time.Time {
	return time.Now().UTC()
}

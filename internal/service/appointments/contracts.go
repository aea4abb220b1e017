package appointments

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, pred filter.Predicate[*domain.Appointment]) ([]*domain.Appointment, error)
	ListPage(ctx context.Context, pred filter.Predicate[*domain.Appointment], page domain.Page) ([]*domain.Appointment, int, error)
	Update(ctx context.Context, appointment *domain.Appointment, expected domain.AppointmentStatus) error
}

// Notifier уведомления о смене статуса
type Notifier interface {
	NotifyAttended(ctx context.Context, appointment *domain.Appointment) error
	NotifyCancelled(ctx context.Context, appointment *domain.Appointment) error
}

// MetricsRecorder учёт мутаций (*metrics.Metrics)
type MetricsRecorder interface {
	ObserveMutation(mutation, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
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

package book_appointment

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/availability"
	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *domain.Appointment) (*domain.Appointment, error)
}

// DentistRepository интерфейс репозитория стоматологов
type DentistRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Dentist, error)
	ListSchedule(ctx context.Context, dentistID int64) ([]domain.ScheduleEntry, error)
}

// TreatmentRepository интерфейс репозитория процедур
type TreatmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Treatment, error)
}

// PatientRepository интерфейс репозитория пациентов
type PatientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
}

// AvailabilityChecker проверка свободного слота (*availability.Validator)
type AvailabilityChecker interface {
	Check(ctx context.Context, req availability.Request) (*availability.Result, error)
}

// CacheInvalidator инвалидация кэша по политике мутаций (*cache.Coordinator)
type CacheInvalidator interface {
	Apply(ctx context.Context, m cache.Mutation, id int64) []cache.Invalidation
}

// Notifier уведомление о созданной записи
type Notifier interface {
	NotifyBooked(ctx context.Context, appointment *domain.Appointment) error
}

// MetricsRecorder учёт мутаций (*metrics.Metrics)
type MetricsRecorder interface {
	ObserveMutation(mutation, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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

package dentists

import (
	"context"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
)

// DentistRepository интерфейс репозитория стоматологов и их расписаний
type DentistRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Dentist, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Dentist, error)
	List(ctx context.Context, pred filter.Predicate[*domain.Dentist]) ([]*domain.Dentist, error)
	Deactivate(ctx context.Context, id int64) error
	ListSchedule(ctx context.Context, dentistID int64) ([]domain.ScheduleEntry, error)
	AddScheduleEntry(ctx context.Context, entry domain.ScheduleEntry) (domain.ScheduleEntry, error)
	RemoveScheduleEntry(ctx context.Context, dentistID, entryID int64) error
	ClearSchedule(ctx context.Context, dentistID int64) (int64, error)
}

// MetricsRecorder учёт мутаций (*metrics.Metrics)
type MetricsRecorder interface {
	ObserveMutation(mutation, result string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

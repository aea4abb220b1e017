package app

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// AppointmentRepository полный набор операций над записями на приём
type AppointmentRepository interface {
	Create(ctx context.Context, a *domain.Appointment) (*domain.Appointment, error)
	GetByID(ctx context.Context, id int64) (*domain.Appointment, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Appointment, error)
	List(ctx context.Context, pred filter.Predicate[*domain.Appointment]) ([]*domain.Appointment, error)
	ListPage(ctx context.Context, pred filter.Predicate[*domain.Appointment], page domain.Page) ([]*domain.Appointment, int, error)
	ListPendingByDentistAndDate(ctx context.Context, dentistID int64, date time.Time) ([]*domain.Appointment, error)
	ListPendingByDate(ctx context.Context, date time.Time) ([]*domain.Appointment, error)
	Update(ctx context.Context, a *domain.Appointment, expected domain.AppointmentStatus) error
}

// DentistRepository стоматологи и их недельные расписания
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

// TreatmentRepository каталог процедур
type TreatmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Treatment, error)
	List(ctx context.Context, pred filter.Predicate[*domain.Treatment]) ([]*domain.Treatment, error)
}

// PatientRepository источник снимка данных пациента
type PatientRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Patient, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier все события записей для внешнего сервиса уведомлений
type Notifier interface {
	NotifyBooked(ctx context.Context, a *domain.Appointment) error
	NotifyAttended(ctx context.Context, a *domain.Appointment) error
	NotifyCancelled(ctx context.Context, a *domain.Appointment) error
	NotifyRescheduled(ctx context.Context, a *domain.Appointment, prevDate time.Time, prevStart types.TimeString) error
	NotifyReminder(ctx context.Context, a *domain.Appointment) error
}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

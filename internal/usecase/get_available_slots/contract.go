package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей на приём
type AppointmentRepository interface {
	// ListPendingByDentistAndDate ожидающие приёмы стоматолога на дату
	ListPendingByDentistAndDate(ctx context.Context, dentistID int64, date time.Time) ([]*domain.Appointment, error)
}

// DentistRepository интерфейс репозитория стоматологов
type DentistRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Dentist, error)
	ListSchedule(ctx context.Context, dentistID int64) ([]domain.ScheduleEntry, error)
}

// TreatmentRepository интерфейс репозитория процедур
type TreatmentRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Treatment, error)
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

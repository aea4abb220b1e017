package availability

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// AppointmentReader источник приёмов, блокирующих слоты
type AppointmentReader interface {
	// ListPendingByDentistAndDate ожидающие приёмы стоматолога на дату
	ListPendingByDentistAndDate(ctx context.Context, dentistID int64, date time.Time) ([]*domain.Appointment, error)
}

// TreatmentReader источник длительности процедур
type TreatmentReader interface {
	GetByID(ctx context.Context, treatmentID int64) (*domain.Treatment, error)
}

package availability

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// Request кандидат на запись
type Request struct {
	DentistID   int64
	Date        time.Time
	StartTime   types.TimeString
	TreatmentID int64

	// ExcludeAppointmentID приём, который переносится: он не конфликтует сам с собой
	ExcludeAppointmentID *int64
}

// Result результат проверки
type Result struct {
	Available bool
	Proposed  Interval
	Conflicts []*domain.Appointment
}

// Err возвращает ErrSlotUnavailable, если слот занят
func (r *Result) Err() error {
	if r.Available {
		return nil
	}
	ids := make([]int64, len(r.Conflicts))
	for i, a := range r.Conflicts {
		ids[i] = a.ID
	}
	return fmt.Errorf("%w: %s overlaps appointments %v", ErrSlotUnavailable, r.Proposed, ids)
}

// Validator проверяет, свободен ли слот стоматолога
//
// Проверка носит рекомендательный характер: запись в хранилище повторяет её
// в сериализуемой транзакции, а гонку одинаковых слотов ловит уникальный индекс
type Validator struct {
	appointments AppointmentReader
	treatments   TreatmentReader
}

// NewValidator создает валидатор
func NewValidator(appointments AppointmentReader, treatments TreatmentReader) *Validator {
	return &Validator{
		appointments: appointments,
		treatments:   treatments,
	}
}

// Check решает, можно ли записаться на слот
func (v *Validator) Check(ctx context.Context, req Request) (*Result, error) {
	if req.DentistID <= 0 || req.TreatmentID <= 0 || req.Date.IsZero() {
		return nil, fmt.Errorf("%w: dentist=%d treatment=%d date=%s",
			ErrInvalidRequest, req.DentistID, req.TreatmentID, req.Date.Format(domain.DateFormat))
	}

	durations := make(map[int64]int)

	// Шаг 1: Длительность процедуры и интервал кандидата
	duration, err := v.duration(ctx, durations, req.TreatmentID)
	if err != nil {
		return nil, err
	}

	proposed, err := NewInterval(req.StartTime, duration)
	if err != nil {
		return nil, err
	}

	// Шаг 2: Ожидающие приёмы стоматолога на эту дату
	existing, err := v.appointments.ListPendingByDentistAndDate(ctx, req.DentistID, req.Date)
	if err != nil {
		return nil, fmt.Errorf("availability: Check - list pending appointments: %w", err)
	}

	// Шаг 3: Сравниваем интервалы
	result := &Result{Available: true, Proposed: proposed}
	for _, a := range existing {
		if !a.BlocksSlot() {
			continue
		}
		if req.ExcludeAppointmentID != nil && a.ID == *req.ExcludeAppointmentID {
			continue
		}

		d, err := v.duration(ctx, durations, a.TreatmentID)
		if err != nil {
			return nil, err
		}

		start, err := a.StartTime.Minutes()
		if err != nil {
			return nil, fmt.Errorf("availability: Check - appointment %d: %w", a.ID, err)
		}

		if proposed.Overlaps(Interval{Start: start, End: start + d}) {
			result.Available = false
			result.Conflicts = append(result.Conflicts, a)
		}
	}

	return result, nil
}

// duration длительность процедуры с мемоизацией в пределах одного вызова
func (v *Validator) duration(ctx context.Context, memo map[int64]int, treatmentID int64) (int, error) {
	if d, ok := memo[treatmentID]; ok {
		return d, nil
	}

	treatment, err := v.treatments.GetByID(ctx, treatmentID)
	if err != nil {
		return 0, fmt.Errorf("availability: Check - get treatment %d: %w", treatmentID, err)
	}

	memo[treatmentID] = treatment.DurationMinutes
	return treatment.DurationMinutes, nil
}

package book_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/workschedule"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PatientID <= 0 {
		return fmt.Errorf("%w: patientID must be positive", ErrInvalidInput)
	}

	if req.DentistID <= 0 {
		return fmt.Errorf("%w: dentistID must be positive", ErrInvalidInput)
	}

	if req.TreatmentID <= 0 {
		return fmt.Errorf("%w: treatmentID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if req.StartTime.IsZero() {
		return fmt.Errorf("%w: startTime is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	if req.Amount != nil && *req.Amount < 0 {
		return fmt.Errorf("%w: amount must not be negative", ErrInvalidInput)
	}

	return nil
}

// validateNotInPast проверяет, что слот ещё не начался
func validateNotInPast(date time.Time, start types.TimeString, now time.Time) error {
	at, err := start.On(domain.DateOnly(date))
	if err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	// Слот, начинающийся в текущую минуту, ещё доступен
	if at.Before(now.UTC().Truncate(time.Minute)) {
		return fmt.Errorf("%w: %s %s", ErrDateInPast, date.Format(domain.DateFormat), start)
	}
	return nil
}

// validateWorkingHours проверяет, что слот лежит в рабочем окне стоматолога на этот день недели
func validateWorkingHours(schedule []domain.ScheduleEntry, date time.Time, start types.TimeString, durationMinutes int) error {
	weekday := domain.WeekdayOf(date)

	window, ok := workschedule.ForWeekday(schedule, weekday)
	if !ok {
		return fmt.Errorf("%w: %s", ErrDentistNotWorking, weekday)
	}

	covered, err := workschedule.Covers(window, start, durationMinutes)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !covered {
		return fmt.Errorf("%w: %s for %d minutes, window %s-%s",
			ErrOutsideWorkingHours, start, durationMinutes, window.StartTime, window.EndTime)
	}

	return nil
}

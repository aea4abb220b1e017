package reschedule_appointment

import (
	"fmt"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/workschedule"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentID must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	if err := req.StartTime.Validate(); err != nil {
		return fmt.Errorf("%w: invalid startTime format: %v", ErrInvalidInput, err)
	}

	return nil
}

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
		return fmt.Errorf("%w: %s-%s", ErrOutsideWorkingHours, window.StartTime, window.EndTime)
	}

	return nil
}

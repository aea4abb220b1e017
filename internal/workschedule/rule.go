package workschedule

import (
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// Validate проверяет новое рабочее окно стоматолога относительно уже существующих
//
// Правила проверяются по порядку, возвращается первая нарушенная:
//  1. конец строго позже начала
//  2. длительность окна не меньше domain.MinScheduleSpanMinutes
//  3. у стоматолога нет другого окна в этот день недели
func Validate(entry domain.ScheduleEntry, existing []domain.ScheduleEntry) error {
	if _, ok := domain.ParseWeekday(string(entry.Weekday)); !ok {
		return fmt.Errorf("%w: %q", ErrInvalidWeekday, entry.Weekday)
	}

	start, end, err := bounds(entry.StartTime, entry.EndTime)
	if err != nil {
		return err
	}

	if end <= start {
		return fmt.Errorf("%w: %s-%s", ErrEndBeforeStart, entry.StartTime, entry.EndTime)
	}

	if end-start < domain.MinScheduleSpanMinutes {
		return fmt.Errorf("%w: %s-%s is %d minutes", ErrSpanTooShort, entry.StartTime, entry.EndTime, end-start)
	}

	for _, e := range existing {
		if e.DentistID == entry.DentistID && e.Weekday == entry.Weekday && e.ID != entry.ID {
			return fmt.Errorf("%w: %s", ErrDuplicateWeekday, entry.Weekday)
		}
	}

	return nil
}

// Covers возвращает true, если интервал [start, start+duration) целиком лежит в рабочем окне
func Covers(entry domain.ScheduleEntry, start types.TimeString, durationMinutes int) (bool, error) {
	from, to, err := bounds(entry.StartTime, entry.EndTime)
	if err != nil {
		return false, err
	}

	slotStart, err := start.Minutes()
	if err != nil {
		return false, fmt.Errorf("%w: start %q", ErrInvalidTime, start)
	}

	return slotStart >= from && slotStart+durationMinutes <= to, nil
}

// ForWeekday возвращает окно на указанный день недели
func ForWeekday(entries []domain.ScheduleEntry, day domain.Weekday) (domain.ScheduleEntry, bool) {
	for _, e := range entries {
		if e.Weekday == day {
			return e, true
		}
	}
	return domain.ScheduleEntry{}, false
}

func bounds(start, end types.TimeString) (int, int, error) {
	if start == types.EndOfDay {
		return 0, 0, fmt.Errorf("%w: start %q", ErrInvalidTime, start)
	}
	from, err := start.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: start %q", ErrInvalidTime, start)
	}
	to, err := end.Minutes()
	if err != nil {
		return 0, 0, fmt.Errorf("%w: end %q", ErrInvalidTime, end)
	}
	return from, to, nil
}

package models

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

var (
	// ErrInvalidWeekday возвращается при некорректном дне недели
	ErrInvalidWeekday = errors.New("invalid weekday")

	// ErrSearchTermTooLong возвращается для слишком длинной строки поиска
	ErrSearchTermTooLong = errors.New("search term is too long")
)

// ListRequest фильтр стоматологов; nil - без ограничения
type ListRequest struct {
	Specialization *string
	Name           *string
	LicenseNumber  *string
	Active         *bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.DentistFilter, error) {
	for _, term := range []*string{r.Specialization, r.Name} {
		if term != nil && len([]rune(*term)) > domain.MaxSearchTermLength {
			return domain.DentistFilter{}, fmt.Errorf("%w: %d characters max", ErrSearchTermTooLong, domain.MaxSearchTermLength)
		}
	}

	return domain.DentistFilter{
		Specialization: r.Specialization,
		Name:           r.Name,
		LicenseNumber:  r.LicenseNumber,
		Active:         r.Active,
	}, nil
}

// ScheduleEntryRequest новое рабочее окно
type ScheduleEntryRequest struct {
	Weekday   string // "monday".."sunday"
	StartTime string // "HH:MM"
	EndTime   string // "HH:MM"
}

// ToDomain конвертирует request в рабочее окно стоматолога
func (r *ScheduleEntryRequest) ToDomain(dentistID int64) (domain.ScheduleEntry, error) {
	weekday, ok := domain.ParseWeekday(r.Weekday)
	if !ok {
		return domain.ScheduleEntry{}, fmt.Errorf("%w: %q", ErrInvalidWeekday, r.Weekday)
	}

	start, err := types.NewTimeStringFromString(r.StartTime)
	if err != nil {
		return domain.ScheduleEntry{}, fmt.Errorf("startTime: %w", err)
	}

	end, err := types.NewTimeStringFromString(r.EndTime)
	if err != nil {
		return domain.ScheduleEntry{}, fmt.Errorf("endTime: %w", err)
	}

	return domain.ScheduleEntry{
		DentistID: dentistID,
		Weekday:   weekday,
		StartTime: start,
		EndTime:   end,
	}, nil
}

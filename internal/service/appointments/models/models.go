package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")

	// ErrInvalidSex возвращается при некорректном значении пола
	ErrInvalidSex = errors.New("invalid sex")

	// ErrInvertedDateRange возвращается, когда StartDate позже EndDate
	ErrInvertedDateRange = errors.New("start date is after end date")

	// ErrSearchTermTooLong возвращается для слишком длинной строки поиска
	ErrSearchTermTooLong = errors.New("search term is too long")
)

// Request модели

// ListRequest фильтр списка записей; nil - без ограничения
type ListRequest struct {
	PatientID      *int64
	DentistID      *int64
	TreatmentID    *int64
	Status         *string // "pending", "attended", "cancelled", "rescheduled"
	Statuses       []string
	StartDate      *time.Time
	EndDate        *time.Time
	Sex            *string // "M" или "F"
	PatientName    *string
	DocumentNumber *string
}

// PageRequest фильтр и параметры страницы
type PageRequest struct {
	ListRequest
	Limit  int // 0 - размер страницы по умолчанию
	Offset int
}

// CancelRequest запрос на отмену приёма
type CancelRequest struct {
	Reason string
}

// ToDomainFilter конвертирует request в domain фильтр
// Перевёрнутый период - ошибка, а не пустой результат
func (r *ListRequest) ToDomainFilter() (domain.AppointmentFilter, error) {
	f := domain.AppointmentFilter{
		PatientID:      r.PatientID,
		DentistID:      r.DentistID,
		TreatmentID:    r.TreatmentID,
		StartDate:      r.StartDate,
		EndDate:        r.EndDate,
		PatientName:    r.PatientName,
		DocumentNumber: r.DocumentNumber,
	}

	if r.StartDate != nil && r.EndDate != nil && domain.DateOnly(*r.StartDate).After(domain.DateOnly(*r.EndDate)) {
		return f, fmt.Errorf("%w: %s > %s", ErrInvertedDateRange,
			r.StartDate.Format(domain.DateFormat), r.EndDate.Format(domain.DateFormat))
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return f, err
		}
		f.Status = &status
	}

	for _, s := range r.Statuses {
		status, err := ToDomainStatus(s)
		if err != nil {
			return f, err
		}
		f.Statuses = append(f.Statuses, status)
	}

	if r.Sex != nil {
		sex := domain.Sex(*r.Sex)
		if sex != domain.SexMale && sex != domain.SexFemale {
			return f, fmt.Errorf("%w: %q", ErrInvalidSex, *r.Sex)
		}
		f.Sex = &sex
	}

	if r.PatientName != nil && len([]rune(*r.PatientName)) > domain.MaxSearchTermLength {
		return f, fmt.Errorf("%w: patient name", ErrSearchTermTooLong)
	}

	return f, nil
}

// ToDomainStatus конвертирует строку в статус с валидацией
func ToDomainStatus(s string) (domain.AppointmentStatus, error) {
	status, ok := domain.ParseAppointmentStatus(s)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, s)
	}
	return status, nil
}


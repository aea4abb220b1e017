package models

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// ErrSearchTermTooLong возвращается для слишком длинной строки поиска
var ErrSearchTermTooLong = errors.New("search term is too long")

// ListRequest фильтр каталога процедур
type ListRequest struct {
	Name            *string
	TreatmentTypeID *int64
	Active          *bool
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListRequest) ToDomainFilter() (domain.TreatmentFilter, error) {
	if r.Name != nil && len([]rune(*r.Name)) > domain.MaxSearchTermLength {
		return domain.TreatmentFilter{}, fmt.Errorf("%w: %d characters max", ErrSearchTermTooLong, domain.MaxSearchTermLength)
	}

	return domain.TreatmentFilter{
		Name:            r.Name,
		TreatmentTypeID: r.TreatmentTypeID,
		Active:          r.Active,
	}, nil
}

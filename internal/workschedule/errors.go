package workschedule

import (
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

var (
	ErrInvalidTime      = fmt.Errorf("%w: workschedule: invalid time", domain.ErrValidation)
	ErrInvalidWeekday   = fmt.Errorf("%w: workschedule: invalid weekday", domain.ErrValidation)
	ErrEndBeforeStart   = fmt.Errorf("%w: workschedule: end time must be after start time", domain.ErrValidation)
	ErrSpanTooShort     = fmt.Errorf("%w: workschedule: working window must be at least 8 hours", domain.ErrValidation)
	ErrDuplicateWeekday = fmt.Errorf("%w: workschedule: dentist already has a schedule for this weekday", domain.ErrValidation)
)

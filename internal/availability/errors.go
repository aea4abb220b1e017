package availability

import (
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

var (
	ErrInvalidRequest   = fmt.Errorf("%w: availability: invalid request", domain.ErrValidation)
	ErrInvalidStartTime = fmt.Errorf("%w: availability: invalid start time", domain.ErrValidation)
	ErrInvalidDuration  = fmt.Errorf("%w: availability: treatment duration must be positive", domain.ErrValidation)
	ErrSlotOverflowsDay = fmt.Errorf("%w: availability: slot must end before midnight", domain.ErrValidation)

	// ErrSlotUnavailable слот пересекается с ожидающим приёмом того же стоматолога
	ErrSlotUnavailable = fmt.Errorf("%w: availability: slot is not available", domain.ErrConflict)
)

package jobs

import (
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// ErrInvalidSpec возвращается при некорректном cron-выражении
var ErrInvalidSpec = fmt.Errorf("%w: jobs: invalid cron spec", domain.ErrValidation)

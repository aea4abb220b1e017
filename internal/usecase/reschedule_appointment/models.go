package reschedule_appointment

import (
	"time"

	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// Request модель запроса на перенос приёма
type Request struct {
	AppointmentID int64            // ID записи
	Date          time.Time        // Новая дата (без времени)
	StartTime     types.TimeString // Новое время начала
}

package book_appointment

import (
	"time"

	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// Request модель запроса на запись к стоматологу
type Request struct {
	PatientID   int64            // ID пациента
	DentistID   int64            // ID стоматолога
	TreatmentID int64            // ID процедуры
	Date        time.Time        // Дата приёма (без времени)
	StartTime   types.TimeString // Время начала (например, "09:40")
	Amount      *float64         // Стоимость; если не указана - стоимость процедуры
}

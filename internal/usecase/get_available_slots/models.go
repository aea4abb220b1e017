package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// Config параметры генерации слотов
type Config struct {
	StepMinutes             int // шаг сетки слотов; 0 - длительность процедуры
	MinBookingNoticeMinutes int // минимальный запас до начала слота на сегодня
	AdvanceBookingDays      int // на сколько дней вперёд можно записаться; 0 - без ограничения
}

// Request модель запроса на получение свободных слотов
type Request struct {
	DentistID   int64     // ID стоматолога
	TreatmentID int64     // ID процедуры (определяет длительность)
	Date        time.Time // Дата (без времени)
}

// Response модель ответа со списком свободных слотов
type Response struct {
	Date            time.Time
	DentistID       int64
	TreatmentID     int64
	DurationMinutes int
	Slots           []types.TimeString // Время начала свободных слотов по возрастанию
}

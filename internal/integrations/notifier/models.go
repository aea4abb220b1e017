package notifier

import (
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// EventType тип события записи на приём
type EventType string

const (
	EventBooked      EventType = "appointment.booked"
	EventAttended    EventType = "appointment.attended"
	EventCancelled   EventType = "appointment.cancelled"
	EventRescheduled EventType = "appointment.rescheduled"
	EventReminder    EventType = "appointment.reminder"
)

// Event событие для внешнего сервиса уведомлений
// Сервис уведомлений сам форматирует и отправляет сообщения
type Event struct {
	ID         string    `json:"event_id"`
	Type       EventType `json:"event_type"`
	OccurredAt time.Time `json:"occurred_at"`

	AppointmentID int64   `json:"appointment_id"`
	DentistID     int64   `json:"dentist_id"`
	TreatmentID   int64   `json:"treatment_id"`
	PatientID     int64   `json:"patient_id"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	Amount        float64 `json:"amount"`
	Status        string  `json:"status"`
	PatientName   string  `json:"patient_name"`

	CancellationReason *string `json:"cancellation_reason,omitempty"`

	// Только для переноса: прежние дата и время
	PreviousDate      *string `json:"previous_date,omitempty"`
	PreviousStartTime *string `json:"previous_start_time,omitempty"`
}

func newEvent(id string, eventType EventType, a *domain.Appointment, at time.Time) Event {
	return Event{
		ID:                 id,
		Type:               eventType,
		OccurredAt:         at.UTC(),
		AppointmentID:      a.ID,
		DentistID:          a.DentistID,
		TreatmentID:        a.TreatmentID,
		PatientID:          a.PatientID,
		Date:               a.Date.Format(domain.DateFormat),
		StartTime:          a.StartTime.String(),
		Amount:             a.Amount,
		Status:             string(a.Status),
		PatientName:        a.Patient.FullName(),
		CancellationReason: a.CancellationReason,
	}
}

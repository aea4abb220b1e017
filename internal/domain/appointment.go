package domain

import (
	"strings"
	"time"

	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// AppointmentStatus статус записи на приём
type AppointmentStatus string

const (
	StatusPending     AppointmentStatus = "pending"
	StatusAttended    AppointmentStatus = "attended"
	StatusCancelled   AppointmentStatus = "cancelled"
	StatusRescheduled AppointmentStatus = "rescheduled"
)

// Sex пол пациента
type Sex string

const (
	SexMale   Sex = "M"
	SexFemale Sex = "F"
)

// PatientSnapshot данные пациента, скопированные в момент записи
// Не обновляются при изменении профиля пациента - история приёмов остаётся неизменной
type PatientSnapshot struct {
	FirstName      string
	MiddleName     *string
	LastName       string
	SecondLastName *string
	DocumentType   string
	DocumentNumber string
	Sex            Sex
	BirthDate      time.Time
}

// FullName полное имя пациента
func (p PatientSnapshot) FullName() string {
	parts := []string{p.FirstName}
	if p.MiddleName != nil && *p.MiddleName != "" {
		parts = append(parts, *p.MiddleName)
	}
	parts = append(parts, p.LastName)
	if p.SecondLastName != nil && *p.SecondLastName != "" {
		parts = append(parts, *p.SecondLastName)
	}
	return strings.Join(parts, " ")
}

// Appointment запись пациента на приём к стоматологу
type Appointment struct {
	ID          int64
	DentistID   int64
	TreatmentID int64
	PatientID   int64 // аккаунт пациента, сделавший запись
	Date        time.Time
	StartTime   types.TimeString
	Amount      float64
	Status      AppointmentStatus

	// Денормализованные данные пациента
	Patient PatientSnapshot

	CancellationReason *string
	CancelledAt        *time.Time
	AttendedAt         *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsPending возвращает true, если приём ещё ожидается
func (a *Appointment) IsPending() bool {
	return a.Status == StatusPending
}

// IsTerminal возвращает true, если статус больше не может измениться
func (a *Appointment) IsTerminal() bool {
	return !a.IsPending()
}

// BlocksSlot возвращает true, если запись занимает слот стоматолога
// Только ожидающие приёмы блокируют пересекающиеся слоты
func (a *Appointment) BlocksSlot() bool {
	return a.Status == StatusPending
}

// Clone возвращает глубокую копию записи
func (a *Appointment) Clone() *Appointment {
	if a == nil {
		return nil
	}
	c := *a
	c.Patient.MiddleName = cloneString(a.Patient.MiddleName)
	c.Patient.SecondLastName = cloneString(a.Patient.SecondLastName)
	c.CancellationReason = cloneString(a.CancellationReason)
	c.CancelledAt = cloneTime(a.CancelledAt)
	c.AttendedAt = cloneTime(a.AttendedAt)
	return &c
}

// AllStatuses все допустимые статусы
var AllStatuses = []AppointmentStatus{
	StatusPending,
	StatusAttended,
	StatusCancelled,
	StatusRescheduled,
}

// ParseAppointmentStatus конвертирует строку в статус с валидацией
func ParseAppointmentStatus(s string) (AppointmentStatus, bool) {
	status := AppointmentStatus(strings.ToLower(strings.TrimSpace(s)))
	for _, valid := range AllStatuses {
		if status == valid {
			return status, true
		}
	}
	return "", false
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

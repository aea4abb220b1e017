package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// LifecycleEvent событие жизненного цикла записи на приём
type LifecycleEvent string

const (
	EventBook       LifecycleEvent = "book"
	EventAttend     LifecycleEvent = "attend"
	EventCancel     LifecycleEvent = "cancel"
	EventReschedule LifecycleEvent = "reschedule"
)

var (
	// ErrInvalidTransition переход статуса недопустим (приём уже завершён или отменён)
	ErrInvalidTransition = fmt.Errorf("%w: appointment lifecycle: invalid status transition", ErrConflict)

	// ErrCancellationReasonRequired причина отмены обязательна
	ErrCancellationReasonRequired = fmt.Errorf("%w: appointment lifecycle: cancellation reason is required", ErrValidation)

	// ErrCancellationReasonTooLong причина отмены превышает допустимую длину
	ErrCancellationReasonTooLong = fmt.Errorf("%w: appointment lifecycle: cancellation reason is too long", ErrValidation)
)

// transitions таблица переходов: (текущий статус, событие) -> новый статус
// Перенос не меняет статус - меняются только дата и время ожидающего приёма
// Ни один переход не обратим: из attended/cancelled/rescheduled выхода нет
var transitions = map[AppointmentStatus]map[LifecycleEvent]AppointmentStatus{
	StatusPending: {
		EventAttend:     StatusAttended,
		EventCancel:     StatusCancelled,
		EventReschedule: StatusPending,
	},
}

// NextStatus возвращает статус после события или ErrInvalidTransition
func NextStatus(from AppointmentStatus, event LifecycleEvent) (AppointmentStatus, error) {
	if event == EventBook {
		if from != "" {
			return "", fmt.Errorf("%w: %s on existing appointment with status %s", ErrInvalidTransition, event, from)
		}
		return StatusPending, nil
	}

	next, ok := transitions[from][event]
	if !ok {
		return "", fmt.Errorf("%w: %s from status %s", ErrInvalidTransition, event, from)
	}
	return next, nil
}

// CanTransition возвращает true, если событие допустимо в текущем статусе
func CanTransition(from AppointmentStatus, event LifecycleEvent) bool {
	_, err := NextStatus(from, event)
	return err == nil
}

// Attend отмечает приём как состоявшийся
func (a *Appointment) Attend(at time.Time) error {
	next, err := NextStatus(a.Status, EventAttend)
	if err != nil {
		return err
	}
	a.Status = next
	a.AttendedAt = &at
	return nil
}

// Cancel отменяет приём с обязательной причиной
func (a *Appointment) Cancel(reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrCancellationReasonRequired
	}
	if len([]rune(reason)) > MaxCancellationReasonLength {
		return ErrCancellationReasonTooLong
	}

	next, err := NextStatus(a.Status, EventCancel)
	if err != nil {
		return err
	}
	a.Status = next
	a.CancellationReason = &reason
	a.CancelledAt = &at
	return nil
}

// Reschedule переносит ожидающий приём на новую дату и время
func (a *Appointment) Reschedule(date time.Time, start types.TimeString) error {
	next, err := NextStatus(a.Status, EventReschedule)
	if err != nil {
		return err
	}
	a.Status = next
	a.Date = date
	a.StartTime = start
	return nil
}

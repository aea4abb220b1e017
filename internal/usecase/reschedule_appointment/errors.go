package reschedule_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: reschedule_appointment: invalid input data", domain.ErrValidation)

	// ErrDateInPast возвращается при переносе на прошедшие дату или время
	ErrDateInPast = fmt.Errorf("%w: reschedule_appointment: new date is in the past", domain.ErrValidation)

	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = fmt.Errorf("%w: reschedule_appointment: appointment not found", domain.ErrNotFound)

	// ErrNotPending возвращается, когда приём уже состоялся или отменён
	ErrNotPending = fmt.Errorf("%w: reschedule_appointment: only pending appointments can be rescheduled", domain.ErrConflict)

	// ErrDentistInactive возвращается, когда стоматолог деактивирован
	ErrDentistInactive = fmt.Errorf("%w: reschedule_appointment: dentist is inactive", domain.ErrValidation)

	// ErrDentistNotWorking возвращается, когда у стоматолога нет рабочего окна в этот день недели
	ErrDentistNotWorking = fmt.Errorf("%w: reschedule_appointment: dentist does not work on this weekday", domain.ErrValidation)

	// ErrOutsideWorkingHours возвращается, когда новый слот выходит за рабочее окно
	ErrOutsideWorkingHours = fmt.Errorf("%w: reschedule_appointment: slot is outside working hours", domain.ErrValidation)

	// ErrSlotNotAvailable возвращается, когда новый слот пересекается с другим приёмом
	ErrSlotNotAvailable = fmt.Errorf("%w: reschedule_appointment: slot is not available", domain.ErrConflict)

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	ErrStoreUnavailable = fmt.Errorf("%w: reschedule_appointment: store unavailable", domain.ErrTransientStore)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("reschedule_appointment: internal error")
)

// storeError переводит ошибку хранилища в ошибку usecase с сохранением вида
func storeError(what string, err error) error {
	switch {
	case errors.Is(err, domain.ErrTransientStore), dbmetrics.Classify(err) == dbmetrics.ClassTransient:
		return fmt.Errorf("%w: %s: %v", ErrStoreUnavailable, what, err)
	case errors.Is(err, domain.ErrConflict), dbmetrics.Classify(err) == dbmetrics.ClassConflict:
		return fmt.Errorf("%w: %s: %v", ErrSlotNotAvailable, what, err)
	default:
		return fmt.Errorf("%w: %s: %v", ErrInternal, what, err)
	}
}

package book_appointment

import (
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/dbmetrics"
)

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = fmt.Errorf("%w: book_appointment: invalid input data", domain.ErrValidation)

	// ErrDateInPast возвращается при попытке записаться на прошедшие дату или время
	ErrDateInPast = fmt.Errorf("%w: book_appointment: appointment date is in the past", domain.ErrValidation)

	// ErrDentistNotFound возвращается, когда стоматолог не найден
	ErrDentistNotFound = fmt.Errorf("%w: book_appointment: dentist not found", domain.ErrNotFound)

	// ErrDentistInactive возвращается, когда стоматолог деактивирован
	ErrDentistInactive = fmt.Errorf("%w: book_appointment: dentist is inactive", domain.ErrValidation)

	// ErrDentistNotWorking возвращается, когда у стоматолога нет рабочего окна в этот день недели
	ErrDentistNotWorking = fmt.Errorf("%w: book_appointment: dentist does not work on this weekday", domain.ErrValidation)

	// ErrOutsideWorkingHours возвращается, когда слот выходит за рабочее окно стоматолога
	ErrOutsideWorkingHours = fmt.Errorf("%w: book_appointment: slot is outside working hours", domain.ErrValidation)

	// ErrTreatmentNotFound возвращается, когда процедура не найдена
	ErrTreatmentNotFound = fmt.Errorf("%w: book_appointment: treatment not found", domain.ErrNotFound)

	// ErrTreatmentInactive возвращается, когда процедура недоступна для записи
	ErrTreatmentInactive = fmt.Errorf("%w: book_appointment: treatment is inactive", domain.ErrValidation)

	// ErrPatientNotFound возвращается, когда пациент не найден
	ErrPatientNotFound = fmt.Errorf("%w: book_appointment: patient not found", domain.ErrNotFound)

	// ErrSlotNotAvailable возвращается, когда слот пересекается с другим приёмом стоматолога
	ErrSlotNotAvailable = fmt.Errorf("%w: book_appointment: slot is not available", domain.ErrConflict)

	// ErrStoreUnavailable возвращается при временной недоступности хранилища
	ErrStoreUnavailable = fmt.Errorf("%w: book_appointment: store unavailable", domain.ErrTransientStore)

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("book_appointment: internal error")
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

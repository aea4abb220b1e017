package reschedule_appointment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/availability"
	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// UseCase use case переноса ожидающего приёма
type UseCase struct {
	appointmentRepo AppointmentRepository
	dentistRepo     DentistRepository
	treatmentRepo   TreatmentRepository
	validator       AvailabilityChecker
	cache           CacheInvalidator
	notifier        Notifier
	metrics         MetricsRecorder
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	dentistRepo DentistRepository,
	treatmentRepo TreatmentRepository,
	validator AvailabilityChecker,
	cacheInvalidator CacheInvalidator,
	notifier Notifier,
	metrics MetricsRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		dentistRepo:     dentistRepo,
		treatmentRepo:   treatmentRepo,
		validator:       validator,
		cache:           cacheInvalidator,
		notifier:        notifier,
		metrics:         metrics,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute переносит приём на новые дату и время
// Сам переносимый приём не считается конфликтом, поэтому перенос на тот же слот допустим
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("Reschedule: appointment=%d, date=%s, time=%s",
		req.AppointmentID, req.Date.Format(domain.DateFormat), req.StartTime)

	result, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.ObserveMutation(string(cache.MutationReschedule), resultLabel(err))
		return nil, err
	}

	uc.metrics.ObserveMutation(string(cache.MutationReschedule), "ok")
	return result, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("Reschedule: validation failed: %v", err)
		return nil, err
	}

	// 2. Новый слот не может быть в прошлом
	if err := validateNotInPast(req.Date, req.StartTime, uc.timeProvider.Now().UTC()); err != nil {
		uc.logger.Warn("Reschedule: %v", err)
		return nil, err
	}

	var (
		result    *domain.Appointment
		prevDate  time.Time
		prevStart types.TimeString
	)

	// 3. Проверка и обновление в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 3.1. Блокируем запись и проверяем, что её ещё можно переносить
		appointment, err := uc.appointmentRepo.GetByIDForUpdate(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("Reschedule: appointment id=%d not found", req.AppointmentID)
				return fmt.Errorf("%w: id=%d", ErrAppointmentNotFound, req.AppointmentID)
			}
			uc.logger.Error("Reschedule: failed to lock appointment id=%d: %v", req.AppointmentID, err)
			return storeError("failed to lock appointment", err)
		}
		if !domain.CanTransition(appointment.Status, domain.EventReschedule) {
			uc.logger.Warn("Reschedule: appointment id=%d has status %s", appointment.ID, appointment.Status)
			return fmt.Errorf("%w: id=%d status=%s: %w", ErrNotPending, appointment.ID, appointment.Status, domain.ErrInvalidTransition)
		}

		// 3.2. Длительность процедуры для проверки рабочего окна
		treatment, err := uc.treatmentRepo.GetByID(txCtx, appointment.TreatmentID)
		if err != nil {
			uc.logger.Error("Reschedule: failed to get treatment id=%d: %v", appointment.TreatmentID, err)
			return storeError("failed to get treatment", err)
		}

		// 3.3. Блокируем стоматолога, как при записи
		dentist, err := uc.dentistRepo.GetByIDForUpdate(txCtx, appointment.DentistID)
		if err != nil {
			uc.logger.Error("Reschedule: failed to lock dentist id=%d: %v", appointment.DentistID, err)
			return storeError("failed to lock dentist", err)
		}
		if !dentist.Active {
			uc.logger.Warn("Reschedule: dentist id=%d is inactive", dentist.ID)
			return fmt.Errorf("%w: id=%d", ErrDentistInactive, dentist.ID)
		}

		schedule, err := uc.dentistRepo.ListSchedule(txCtx, dentist.ID)
		if err != nil {
			uc.logger.Error("Reschedule: failed to get schedule of dentist id=%d: %v", dentist.ID, err)
			return storeError("failed to get schedule", err)
		}
		if err := validateWorkingHours(schedule, req.Date, req.StartTime, treatment.DurationMinutes); err != nil {
			uc.logger.Warn("Reschedule: %v", err)
			return err
		}

		// 3.4. Пересечения с другими ожидающими приёмами, кроме переносимого
		check, err := uc.validator.Check(txCtx, availability.Request{
			DentistID:            appointment.DentistID,
			Date:                 req.Date,
			StartTime:            req.StartTime,
			TreatmentID:          appointment.TreatmentID,
			ExcludeAppointmentID: &appointment.ID,
		})
		if err != nil {
			if kind := domain.Kind(err); kind == domain.ErrValidation || kind == domain.ErrNotFound {
				uc.logger.Warn("Reschedule: availability check rejected request: %v", err)
				return err
			}
			uc.logger.Error("Reschedule: availability check failed: %v", err)
			return storeError("availability check failed", err)
		}
		if !check.Available {
			uc.logger.Warn("Reschedule: slot not available: %v", check.Err())
			return fmt.Errorf("%w: %v", ErrSlotNotAvailable, check.Err())
		}

		// 3.5. Меняем дату и время, статус остаётся pending
		prevDate, prevStart = appointment.Date, appointment.StartTime
		expected := appointment.Status
		if err := appointment.Reschedule(req.Date, req.StartTime); err != nil {
			return fmt.Errorf("%w: %w", ErrNotPending, err)
		}

		if err := uc.appointmentRepo.Update(txCtx, appointment, expected); err != nil {
			uc.logger.Error("Reschedule: failed to update appointment id=%d: %v", appointment.ID, err)
			return storeError("failed to update appointment", err)
		}

		result = appointment
		return nil
	})

	if err != nil {
		if domain.Kind(err) == nil && !errors.Is(err, ErrInternal) {
			return nil, storeError("transaction failed", err)
		}
		return nil, err
	}

	uc.logger.Info("Reschedule: appointment id=%d moved from %s %s to %s %s", result.ID,
		prevDate.Format(domain.DateFormat), prevStart, result.Date.Format(domain.DateFormat), result.StartTime)

	// 4. Сбрасываем кэш и уведомляем после фиксации
	uc.cache.Apply(ctx, cache.MutationReschedule, result.ID)

	if err := uc.notifier.NotifyRescheduled(ctx, result, prevDate, prevStart); err != nil {
		uc.logger.Warn("Reschedule: failed to notify about appointment id=%d: %v", result.ID, err)
	}

	return result, nil
}

// resultLabel метка результата для метрик
func resultLabel(err error) string {
	switch domain.Kind(err) {
	case domain.ErrValidation:
		return "validation"
	case domain.ErrConflict:
		return "conflict"
	case domain.ErrNotFound:
		return "not_found"
	case domain.ErrTransientStore:
		return "unavailable"
	default:
		return "error"
	}
}

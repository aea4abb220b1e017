package book_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/availability"
	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// UseCase use case записи пациента на приём
type UseCase struct {
	appointmentRepo AppointmentRepository
	dentistRepo     DentistRepository
	treatmentRepo   TreatmentRepository
	patientRepo     PatientRepository
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
	patientRepo PatientRepository,
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
		patientRepo:     patientRepo,
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

// Execute выполняет запись на приём
// Проверка слота и вставка идут в одной сериализуемой транзакции под блокировкой строки стоматолога
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	uc.logger.Info("Book: patient=%d, dentist=%d, treatment=%d, date=%s, time=%s",
		req.PatientID, req.DentistID, req.TreatmentID, req.Date.Format(domain.DateFormat), req.StartTime)

	result, err := uc.execute(ctx, req)
	if err != nil {
		uc.metrics.ObserveMutation(string(cache.MutationBook), resultLabel(err))
		return nil, err
	}

	uc.metrics.ObserveMutation(string(cache.MutationBook), "ok")
	return result, nil
}

func (uc *UseCase) execute(ctx context.Context, req *Request) (*domain.Appointment, error) {
	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("Book: validation failed: %v", err)
		return nil, err
	}

	// 2. Запись в прошлое недопустима
	now := uc.timeProvider.Now().UTC()
	if err := validateNotInPast(req.Date, req.StartTime, now); err != nil {
		uc.logger.Warn("Book: %v", err)
		return nil, err
	}

	// 3. Пациент - источник снимка данных
	patient, err := uc.patientRepo.GetByID(ctx, req.PatientID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("Book: patient id=%d not found", req.PatientID)
			return nil, fmt.Errorf("%w: id=%d", ErrPatientNotFound, req.PatientID)
		}
		uc.logger.Error("Book: failed to get patient id=%d: %v", req.PatientID, err)
		return nil, storeError("failed to get patient", err)
	}

	// 4. Процедура - длительность и стоимость
	treatment, err := uc.treatmentRepo.GetByID(ctx, req.TreatmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("Book: treatment id=%d not found", req.TreatmentID)
			return nil, fmt.Errorf("%w: id=%d", ErrTreatmentNotFound, req.TreatmentID)
		}
		uc.logger.Error("Book: failed to get treatment id=%d: %v", req.TreatmentID, err)
		return nil, storeError("failed to get treatment", err)
	}
	if !treatment.Active {
		uc.logger.Warn("Book: treatment id=%d is inactive", req.TreatmentID)
		return nil, fmt.Errorf("%w: id=%d", ErrTreatmentInactive, req.TreatmentID)
	}

	var result *domain.Appointment

	// 5. Проверка и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 5.1. Блокируем стоматолога: параллельные записи к нему ждут окончания транзакции
		dentist, err := uc.dentistRepo.GetByIDForUpdate(txCtx, req.DentistID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				uc.logger.Warn("Book: dentist id=%d not found", req.DentistID)
				return fmt.Errorf("%w: id=%d", ErrDentistNotFound, req.DentistID)
			}
			uc.logger.Error("Book: failed to lock dentist id=%d: %v", req.DentistID, err)
			return storeError("failed to lock dentist", err)
		}
		if !dentist.Active {
			uc.logger.Warn("Book: dentist id=%d is inactive", req.DentistID)
			return fmt.Errorf("%w: id=%d", ErrDentistInactive, req.DentistID)
		}

		// 5.2. Слот должен лежать в рабочем окне стоматолога
		schedule, err := uc.dentistRepo.ListSchedule(txCtx, req.DentistID)
		if err != nil {
			uc.logger.Error("Book: failed to get schedule of dentist id=%d: %v", req.DentistID, err)
			return storeError("failed to get schedule", err)
		}
		if err := validateWorkingHours(schedule, req.Date, req.StartTime, treatment.DurationMinutes); err != nil {
			uc.logger.Warn("Book: %v", err)
			return err
		}

		// 5.3. Проверяем пересечения с ожидающими приёмами
		check, err := uc.validator.Check(txCtx, availability.Request{
			DentistID:   req.DentistID,
			Date:        req.Date,
			StartTime:   req.StartTime,
			TreatmentID: req.TreatmentID,
		})
		if err != nil {
			if kind := domain.Kind(err); kind == domain.ErrValidation || kind == domain.ErrNotFound {
				uc.logger.Warn("Book: availability check rejected request: %v", err)
				return err
			}
			uc.logger.Error("Book: availability check failed: %v", err)
			return storeError("availability check failed", err)
		}
		if !check.Available {
			uc.logger.Warn("Book: slot not available: %v", check.Err())
			return fmt.Errorf("%w: %v", ErrSlotNotAvailable, check.Err())
		}

		// 5.4. Создаем запись со снимком данных пациента
		amount := treatment.Cost
		if req.Amount != nil {
			amount = *req.Amount
		}

		status, err := domain.NextStatus("", domain.EventBook)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInternal, err)
		}

		appointment := &domain.Appointment{
			DentistID:   req.DentistID,
			TreatmentID: req.TreatmentID,
			PatientID:   req.PatientID,
			Date:        req.Date,
			StartTime:   req.StartTime,
			Amount:      amount,
			Status:      status,
			Patient:     patient.Snapshot(),
		}

		created, err := uc.appointmentRepo.Create(txCtx, appointment)
		if err != nil {
			uc.logger.Error("Book: failed to create appointment: %v", err)
			return storeError("failed to create appointment", err)
		}

		result = created
		return nil
	})

	if err != nil {
		if domain.Kind(err) == nil && !errors.Is(err, ErrInternal) {
			// Ошибка фиксации транзакции (например, конфликт сериализации)
			return nil, storeError("transaction failed", err)
		}
		return nil, err
	}

	uc.logger.Info("Book: successfully created appointment id=%d", result.ID)

	// 6. Сбрасываем кэш и уведомляем только после фиксации
	uc.cache.Apply(ctx, cache.MutationBook, result.ID)

	if err := uc.notifier.NotifyBooked(ctx, result); err != nil {
		uc.logger.Warn("Book: failed to notify about appointment id=%d: %v", result.ID, err)
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

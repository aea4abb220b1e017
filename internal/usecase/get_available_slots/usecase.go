package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/availability"
	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/workschedule"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// UseCase use case для получения свободных слотов стоматолога на дату
type UseCase struct {
	appointmentRepo AppointmentRepository
	dentistRepo     DentistRepository
	treatmentRepo   TreatmentRepository
	config          Config
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	dentistRepo DentistRepository,
	treatmentRepo TreatmentRepository,
	config Config,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		dentistRepo:     dentistRepo,
		treatmentRepo:   treatmentRepo,
		config:          config,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case получения свободных слотов
// Слоты ориентировочные: запись всё равно повторяет проверку в транзакции
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: dentist=%d, treatment=%d, date=%s",
		req.DentistID, req.TreatmentID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем дату относительно текущего времени
	now := uc.timeProvider.Now().UTC()
	if err := validateDate(req.Date, now, uc.config.AdvanceBookingDays); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем стоматолога
	dentist, err := uc.dentistRepo.GetByID(ctx, req.DentistID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailableSlots: dentist id=%d not found", req.DentistID)
			return nil, fmt.Errorf("%w: id=%d", ErrDentistNotFound, req.DentistID)
		}
		uc.logger.Error("GetAvailableSlots: failed to get dentist id=%d: %v", req.DentistID, err)
		return nil, storeError("failed to get dentist", err)
	}
	if !dentist.Active {
		return nil, fmt.Errorf("%w: id=%d", ErrDentistInactive, req.DentistID)
	}

	// 4. Получаем процедуру
	treatment, err := uc.treatmentRepo.GetByID(ctx, req.TreatmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			uc.logger.Warn("GetAvailableSlots: treatment id=%d not found", req.TreatmentID)
			return nil, fmt.Errorf("%w: id=%d", ErrTreatmentNotFound, req.TreatmentID)
		}
		uc.logger.Error("GetAvailableSlots: failed to get treatment id=%d: %v", req.TreatmentID, err)
		return nil, storeError("failed to get treatment", err)
	}
	if !treatment.Active {
		return nil, fmt.Errorf("%w: id=%d", ErrTreatmentInactive, req.TreatmentID)
	}

	response := &Response{
		Date:            req.Date,
		DentistID:       req.DentistID,
		TreatmentID:     req.TreatmentID,
		DurationMinutes: treatment.DurationMinutes,
		Slots:           []types.TimeString{},
	}

	// 5. Рабочее окно на этот день недели
	schedule, err := uc.dentistRepo.ListSchedule(ctx, req.DentistID)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get schedule: %v", err)
		return nil, storeError("failed to get schedule", err)
	}

	window, ok := workschedule.ForWeekday(schedule, domain.WeekdayOf(req.Date))
	if !ok {
		uc.logger.Info("GetAvailableSlots: dentist id=%d does not work on %s", req.DentistID, domain.WeekdayOf(req.Date))
		return response, nil
	}

	// 6. Занятые интервалы: ожидающие приёмы со своей длительностью
	busy, err := uc.busyIntervals(ctx, req)
	if err != nil {
		return nil, err
	}

	// 7. Для сегодняшней даты слоты не раньше текущего времени плюс запас
	notBefore := 0
	if isSameDay(req.Date, now) {
		current, _ := types.NewTimeString(now).Minutes()
		notBefore = current + uc.config.MinBookingNoticeMinutes
	}

	// 8. Генерируем свободные слоты
	slots, err := availability.FreeSlots(window.StartTime, window.EndTime,
		treatment.DurationMinutes, uc.config.StepMinutes, notBefore, busy)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate slots: %v", err)
		return nil, fmt.Errorf("%w: failed to generate slots: %v", ErrInternal, err)
	}
	response.Slots = slots

	uc.logger.Info("GetAvailableSlots: %d free slots for dentist=%d, date=%s",
		len(slots), req.DentistID, req.Date.Format(domain.DateFormat))

	return response, nil
}

func (uc *UseCase) busyIntervals(ctx context.Context, req *Request) ([]availability.Interval, error) {
	appointments, err := uc.appointmentRepo.ListPendingByDentistAndDate(ctx, req.DentistID, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get appointments: %v", err)
		return nil, storeError("failed to get appointments", err)
	}

	durations := make(map[int64]int)
	busy := make([]availability.Interval, 0, len(appointments))
	for _, a := range appointments {
		if !a.BlocksSlot() {
			continue
		}

		d, ok := durations[a.TreatmentID]
		if !ok {
			t, err := uc.treatmentRepo.GetByID(ctx, a.TreatmentID)
			if err != nil {
				uc.logger.Error("GetAvailableSlots: failed to get treatment id=%d: %v", a.TreatmentID, err)
				return nil, storeError("failed to get treatment", err)
			}
			d = t.DurationMinutes
			durations[a.TreatmentID] = d
		}

		interval, err := availability.NewInterval(a.StartTime, d)
		if err != nil {
			uc.logger.Warn("GetAvailableSlots: skip appointment id=%d: %v", a.ID, err)
			continue
		}
		busy = append(busy, interval)
	}

	return busy, nil
}

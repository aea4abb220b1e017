package send_reminders

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/SMC-DentalService/internal/domain"
)

// UseCase рассылка напоминаний о сегодняшних приёмах
type UseCase struct {
	appointmentRepo AppointmentRepository
	notifier        Notifier
	metrics         MetricsRecorder
	timeProvider    TimeProvider
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	notifier Notifier,
	metrics MetricsRecorder,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		notifier:        notifier,
		metrics:         metrics,
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute отправляет напоминание по каждому ожидающему приёму на сегодня
// Ошибка отправки одного напоминания не прерывает рассылку
func (uc *UseCase) Execute(ctx context.Context) (*Result, error) {
	now := uc.timeProvider.Now().UTC()
	today := domain.DateOnly(now)

	uc.logger.Info("SendReminders: date=%s", today.Format(domain.DateFormat))

	appointments, err := uc.appointmentRepo.ListPendingByDate(ctx, today)
	if err != nil {
		uc.logger.Error("SendReminders: failed to list appointments: %v", err)
		if errors.Is(err, domain.ErrTransientStore) {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("%w: failed to list appointments: %v", ErrInternal, err)
	}

	result := &Result{Date: today, Total: len(appointments)}
	for _, a := range appointments {
		if err := ctx.Err(); err != nil {
			uc.logger.Warn("SendReminders: interrupted after %d of %d: %v", result.Sent+result.Failed, result.Total, err)
			return result, err
		}

		if err := uc.notifier.NotifyReminder(ctx, a); err != nil {
			uc.logger.Warn("SendReminders: failed to notify appointment id=%d: %v", a.ID, err)
			uc.metrics.ObserveReminder("error")
			result.Failed++
			continue
		}

		uc.metrics.ObserveReminder("ok")
		result.Sent++
	}

	uc.logger.Info("SendReminders: sent=%d, failed=%d, total=%d", result.Sent, result.Failed, result.Total)
	return result, nil
}

// Package app собирает движок записи на приём из хранилища, кэша и уведомлений.
package app

import (
	"github.com/m04kA/SMC-DentalService/internal/availability"
	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/config"
	"github.com/m04kA/SMC-DentalService/internal/service/appointments"
	"github.com/m04kA/SMC-DentalService/internal/service/dentists"
	"github.com/m04kA/SMC-DentalService/internal/service/treatments"
	"github.com/m04kA/SMC-DentalService/internal/usecase/book_appointment"
	"github.com/m04kA/SMC-DentalService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-DentalService/internal/usecase/reschedule_appointment"
	"github.com/m04kA/SMC-DentalService/internal/usecase/send_reminders"
	"github.com/m04kA/SMC-DentalService/pkg/metrics"
)

// Engine операции записи на приём и чтения каталога
// Все мутации проходят через валидатор или жизненный цикл и сбрасывают кэш после фиксации
type Engine struct {
	Book         *book_appointment.UseCase
	Reschedule   *reschedule_appointment.UseCase
	Slots        *get_available_slots.UseCase
	Reminders    *send_reminders.UseCase
	Appointments *appointments.Service
	Dentists     *dentists.Service
	Treatments   *treatments.Service

	Cache *cache.Coordinator
}

// NewEngine создает движок; cacheCoordinator и collector могут быть nil
func NewEngine(
	storage Storage,
	cacheCoordinator *cache.Coordinator,
	notifier Notifier,
	collector *metrics.Metrics,
	cfg config.SchedulingConfig,
	logger Logger,
) *Engine {
	validator := availability.NewValidator(storage.Appointments, storage.Treatments)

	return &Engine{
		Book: book_appointment.NewUseCase(
			storage.Appointments,
			storage.Dentists,
			storage.Treatments,
			storage.Patients,
			validator,
			cacheCoordinator,
			notifier,
			collector,
			storage.TxManager,
			logger,
		),
		Reschedule: reschedule_appointment.NewUseCase(
			storage.Appointments,
			storage.Dentists,
			storage.Treatments,
			validator,
			cacheCoordinator,
			notifier,
			collector,
			storage.TxManager,
			logger,
		),
		Slots: get_available_slots.NewUseCase(
			storage.Appointments,
			storage.Dentists,
			storage.Treatments,
			get_available_slots.Config{
				StepMinutes:             cfg.SlotStepMinutes,
				MinBookingNoticeMinutes: cfg.MinBookingNoticeMinutes,
				AdvanceBookingDays:      cfg.AdvanceBookingDays,
			},
			logger,
		),
		Reminders: send_reminders.NewUseCase(storage.Appointments, notifier, collector, logger),
		Appointments: appointments.NewService(
			storage.Appointments,
			cacheCoordinator,
			notifier,
			collector,
			storage.TxManager,
			appointments.Config{
				DefaultPageLimit: cfg.DefaultPageLimit,
				MaxPageLimit:     cfg.MaxPageLimit,
			},
			logger,
		),
		Dentists:   dentists.NewService(storage.Dentists, cacheCoordinator, collector, storage.TxManager, logger),
		Treatments: treatments.NewService(storage.Treatments, cacheCoordinator, logger),
		Cache:      cacheCoordinator,
	}
}

// WithTimeProvider подменяет источник времени во всех операциях
func (e *Engine) WithTimeProvider(tp TimeProvider) *Engine {
	e.Book.WithTimeProvider(tp)
	e.Reschedule.WithTimeProvider(tp)
	e.Slots.WithTimeProvider(tp)
	e.Reminders.WithTimeProvider(tp)
	e.Appointments.WithTimeProvider(tp)
	return e
}

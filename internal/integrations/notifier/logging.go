package notifier

import (
	"context"
	"time"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

// Logging заглушка для окружений без Kafka: только пишет события в лог
type Logging struct {
	logger Logger
}

// NewLogging создает заглушку
func NewLogging(logger Logger) *Logging {
	return &Logging{logger: logger}
}

func (l *Logging) NotifyBooked(_ context.Context, a *domain.Appointment) error {
	l.logger.Info("NotifyBooked: appointment=%d dentist=%d %s %s", a.ID, a.DentistID, a.Date.Format(domain.DateFormat), a.StartTime)
	return nil
}

func (l *Logging) NotifyAttended(_ context.Context, a *domain.Appointment) error {
	l.logger.Info("NotifyAttended: appointment=%d", a.ID)
	return nil
}

func (l *Logging) NotifyCancelled(_ context.Context, a *domain.Appointment) error {
	l.logger.Info("NotifyCancelled: appointment=%d", a.ID)
	return nil
}

func (l *Logging) NotifyRescheduled(_ context.Context, a *domain.Appointment, prevDate time.Time, prevStart types.TimeString) error {
	l.logger.Info("NotifyRescheduled: appointment=%d from %s %s to %s %s",
		a.ID, prevDate.Format(domain.DateFormat), prevStart, a.Date.Format(domain.DateFormat), a.StartTime)
	return nil
}

func (l *Logging) NotifyReminder(_ context.Context, a *domain.Appointment) error {
	l.logger.Info("NotifyReminder: appointment=%d", a.ID)
	return nil
}

func (l *Logging) Close() error {
	return nil
}

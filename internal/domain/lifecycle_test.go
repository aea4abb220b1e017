package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/pkg/types"
)

func pendingAppointment() *Appointment {
	return &Appointment{
		ID:        1,
		Date:      time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		Status:    StatusPending,
	}
}

func TestNextStatus(t *testing.T) {
	tests := []struct {
		name    string
		from    AppointmentStatus
		event   LifecycleEvent
		want    AppointmentStatus
		wantErr bool
	}{
		{name: "book new", from: "", event: EventBook, want: StatusPending},
		{name: "book existing", from: StatusPending, event: EventBook, wantErr: true},
		{name: "attend pending", from: StatusPending, event: EventAttend, want: StatusAttended},
		{name: "cancel pending", from: StatusPending, event: EventCancel, want: StatusCancelled},
		{name: "reschedule keeps pending", from: StatusPending, event: EventReschedule, want: StatusPending},
		{name: "attend attended", from: StatusAttended, event: EventAttend, wantErr: true},
		{name: "attend cancelled", from: StatusCancelled, event: EventAttend, wantErr: true},
		{name: "cancel attended", from: StatusAttended, event: EventCancel, wantErr: true},
		{name: "cancel cancelled", from: StatusCancelled, event: EventCancel, wantErr: true},
		{name: "reschedule cancelled", from: StatusCancelled, event: EventReschedule, wantErr: true},
		{name: "reschedule attended", from: StatusAttended, event: EventReschedule, wantErr: true},
		{name: "attend rescheduled-away", from: StatusRescheduled, event: EventAttend, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextStatus(tt.from, tt.event)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				assert.ErrorIs(t, err, ErrConflict)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAppointment_AttendCancelledFailsAndKeepsStatus(t *testing.T) {
	appt := pendingAppointment()
	require.NoError(t, appt.Cancel("patient is sick", time.Now()))

	err := appt.Attend(time.Now())

	assert.True(t, errors.Is(err, ErrConflict))
	assert.Equal(t, StatusCancelled, appt.Status)
	assert.Nil(t, appt.AttendedAt)
}

func TestAppointment_CancelAttendedFailsAndKeepsStatus(t *testing.T) {
	appt := pendingAppointment()
	require.NoError(t, appt.Attend(time.Now()))

	err := appt.Cancel("too late", time.Now())

	assert.ErrorIs(t, err, ErrConflict)
	assert.Equal(t, StatusAttended, appt.Status)
	assert.Nil(t, appt.CancellationReason)
}

func TestAppointment_CancelRequiresReason(t *testing.T) {
	appt := pendingAppointment()

	err := appt.Cancel("   ", time.Now())

	assert.ErrorIs(t, err, ErrCancellationReasonRequired)
	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, StatusPending, appt.Status)
}

func TestAppointment_CancelStoresReason(t *testing.T) {
	appt := pendingAppointment()
	at := time.Date(2025, 5, 9, 12, 0, 0, 0, time.UTC)

	require.NoError(t, appt.Cancel(" patient asked ", at))

	assert.Equal(t, StatusCancelled, appt.Status)
	require.NotNil(t, appt.CancellationReason)
	assert.Equal(t, "patient asked", *appt.CancellationReason)
	assert.Equal(t, at, *appt.CancelledAt)
}

func TestAppointment_RescheduleMutatesInPlace(t *testing.T) {
	appt := pendingAppointment()
	newDate := time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

	require.NoError(t, appt.Reschedule(newDate, types.TimeString("11:30")))

	assert.Equal(t, StatusPending, appt.Status)
	assert.Equal(t, newDate, appt.Date)
	assert.Equal(t, types.TimeString("11:30"), appt.StartTime)
}

func TestKind(t *testing.T) {
	assert.Equal(t, ErrConflict, Kind(ErrInvalidTransition))
	assert.Equal(t, ErrValidation, Kind(ErrCancellationReasonRequired))
	assert.Nil(t, Kind(errors.New("other")))
}

package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/filter"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/appointment"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/dentist"
	"github.com/m04kA/SMC-DentalService/pkg/ptr"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

var monday = time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

func pending(dentistID int64, date time.Time, start string) *domain.Appointment {
	return &domain.Appointment{
		DentistID:   dentistID,
		TreatmentID: 1,
		PatientID:   1,
		Date:        date,
		StartTime:   types.TimeString(start),
		Status:      domain.StatusPending,
		Patient:     domain.PatientSnapshot{FirstName: "Ana", LastName: "Diaz", Sex: domain.SexFemale},
	}
}

func TestAppointments_CreateRejectsSecondPendingOnSameSlot(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(NewStore())

	first, err := repo.Create(ctx, pending(1, monday, "09:00"))
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	_, err = repo.Create(ctx, pending(1, monday, "09:00"))
	assert.ErrorIs(t, err, appointment.ErrSlotTaken)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// другой стоматолог и другое время не конфликтуют
	_, err = repo.Create(ctx, pending(2, monday, "09:00"))
	assert.NoError(t, err)
	_, err = repo.Create(ctx, pending(1, monday, "09:40"))
	assert.NoError(t, err)
}

func TestAppointments_GetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(NewStore())

	created, err := repo.Create(ctx, pending(1, monday, "09:00"))
	require.NoError(t, err)

	got, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	got.Status = domain.StatusCancelled

	again, err := repo.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, appointment.ErrAppointmentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestAppointments_UpdateGuardedByExpectedStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(NewStore())

	created, err := repo.Create(ctx, pending(1, monday, "09:00"))
	require.NoError(t, err)

	require.NoError(t, created.Attend(monday.Add(9*time.Hour)))
	require.NoError(t, repo.Update(ctx, created, domain.StatusPending))

	// вторая попытка с тем же ожидаемым статусом уже устарела
	err = repo.Update(ctx, created, domain.StatusPending)
	assert.ErrorIs(t, err, appointment.ErrStaleState)
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestAppointments_ListAndPage(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(NewStore())

	for _, start := range []string{"09:00", "10:00", "11:00"} {
		_, err := repo.Create(ctx, pending(1, monday, start))
		require.NoError(t, err)
	}
	_, err := repo.Create(ctx, pending(2, monday.AddDate(0, 0, 1), "09:00"))
	require.NoError(t, err)

	all, err := repo.List(ctx, filter.True[*domain.Appointment]())
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, int64(2), all[0].DentistID, "newest date first")
	assert.Equal(t, "11:00", all[1].StartTime.String())

	byDentist, err := repo.List(ctx, filter.Appointments(domain.AppointmentFilter{DentistID: ptr.Ptr(int64(1))}))
	require.NoError(t, err)
	assert.Len(t, byDentist, 3)

	page, total, err := repo.ListPage(ctx, filter.True[*domain.Appointment](), domain.Page{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	require.Len(t, page, 2)
	assert.Equal(t, all[2].ID, page[0].ID)

	empty, total, err := repo.ListPage(ctx, filter.True[*domain.Appointment](), domain.Page{Limit: 2, Offset: 10})
	require.NoError(t, err)
	assert.Equal(t, 4, total)
	assert.Empty(t, empty)
}

func TestAppointments_PendingByDentistAndDate(t *testing.T) {
	ctx := context.Background()
	repo := NewAppointmentRepository(NewStore())

	late, err := repo.Create(ctx, pending(1, monday, "15:00"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, pending(1, monday, "09:00"))
	require.NoError(t, err)
	cancelled, err := repo.Create(ctx, pending(1, monday, "12:00"))
	require.NoError(t, err)
	require.NoError(t, cancelled.Cancel("patient request", monday))
	require.NoError(t, repo.Update(ctx, cancelled, domain.StatusPending))

	items, err := repo.ListPendingByDentistAndDate(ctx, 1, monday)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "09:00", items[0].StartTime.String())
	assert.Equal(t, late.ID, items[1].ID)

	byDate, err := repo.ListPendingByDate(ctx, monday)
	require.NoError(t, err)
	assert.Len(t, byDate, 2)
}

func TestDentists_Schedule(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewDentistRepository(s)
	d := s.AddDentist(domain.Dentist{FullName: "Dr. House", Active: true})

	mon, err := repo.AddScheduleEntry(ctx, domain.ScheduleEntry{DentistID: d.ID, Weekday: domain.Monday, StartTime: "08:00", EndTime: "17:00"})
	require.NoError(t, err)
	_, err = repo.AddScheduleEntry(ctx, domain.ScheduleEntry{DentistID: d.ID, Weekday: domain.Sunday, StartTime: "08:00", EndTime: "17:00"})
	require.NoError(t, err)

	_, err = repo.AddScheduleEntry(ctx, domain.ScheduleEntry{DentistID: d.ID, Weekday: domain.Monday, StartTime: "09:00", EndTime: "18:00"})
	assert.ErrorIs(t, err, dentist.ErrWeekdayTaken)

	entries, err := repo.ListSchedule(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, domain.Monday, entries[0].Weekday)

	require.NoError(t, repo.RemoveScheduleEntry(ctx, d.ID, mon.ID))
	assert.ErrorIs(t, repo.RemoveScheduleEntry(ctx, d.ID, mon.ID), dentist.ErrScheduleEntryNotFound)

	removed, err := repo.ClearSchedule(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	entries, err = repo.ListSchedule(ctx, d.ID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDentists_Deactivate(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	repo := NewDentistRepository(s)
	d := s.AddDentist(domain.Dentist{FullName: "Dr. Who", Active: true})

	require.NoError(t, repo.Deactivate(ctx, d.ID))
	got, err := repo.GetByID(ctx, d.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)

	active, err := repo.List(ctx, filter.Dentists(domain.DentistFilter{Active: ptr.Ptr(true)}))
	require.NoError(t, err)
	assert.Empty(t, active)

	assert.ErrorIs(t, repo.Deactivate(ctx, 404), dentist.ErrDentistNotFound)
}

func TestTxManager_SerializesAndNests(t *testing.T) {
	s := NewStore()
	tx := NewTxManager(s)
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = tx.DoSerializable(context.Background(), func(ctx context.Context) error {
				v := counter
				// вложенная транзакция не блокируется повторно
				return tx.Do(ctx, func(context.Context) error {
					counter = v + 1
					return nil
				})
			})
		}()
	}
	wg.Wait()

	assert.Equal(t, 20, counter)
}

func TestReadsCounter(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	p := s.AddPatient(domain.Patient{FirstName: "Ana", LastName: "Diaz"})

	_, err := NewPatientRepository(s).GetByID(ctx, p.ID)
	require.NoError(t, err)
	_, err = NewTreatmentRepository(s).List(ctx, filter.True[*domain.Treatment]())
	require.NoError(t, err)

	assert.Equal(t, int64(2), s.Reads())
}

package book_appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/availability"
	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-DentalService/pkg/logger"
	"github.com/m04kA/SMC-DentalService/pkg/ptr"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

var monday = time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingNotifier struct {
	mu     sync.Mutex
	booked []int64
	err    error
}

func (n *recordingNotifier) NotifyBooked(_ context.Context, a *domain.Appointment) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.booked = append(n.booked, a.ID)
	return n.err
}

type recordingMetrics struct {
	mu      sync.Mutex
	results []string
}

func (m *recordingMetrics) ObserveMutation(_, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results = append(m.results, result)
}

type fixture struct {
	uc        *UseCase
	store     *memory.Store
	cache     *cache.Coordinator
	notifier  *recordingNotifier
	metrics   *recordingMetrics
	dentist   *domain.Dentist
	treatment *domain.Treatment
	patient   *domain.Patient
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewStore()
	appointments := memory.NewAppointmentRepository(store)
	dentists := memory.NewDentistRepository(store)
	treatments := memory.NewTreatmentRepository(store)

	f := &fixture{
		store:    store,
		cache:    cache.New(cache.Config{TTL: time.Minute, MaxEntries: 100}),
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{},
	}

	f.dentist = store.AddDentist(domain.Dentist{FullName: "Dr. Gomez", Active: true})
	f.treatment = store.AddTreatment(domain.Treatment{Name: "Cleaning", Cost: 50, DurationMinutes: 40, Active: true})
	f.patient = store.AddPatient(domain.Patient{
		FirstName:      "Ana",
		LastName:       "Diaz",
		DocumentType:   "passport",
		DocumentNumber: "X123",
		Sex:            domain.SexFemale,
	})
	_, err := dentists.AddScheduleEntry(context.Background(), domain.ScheduleEntry{
		DentistID: f.dentist.ID,
		Weekday:   domain.Monday,
		StartTime: "08:00",
		EndTime:   "17:00",
	})
	require.NoError(t, err)

	f.uc = NewUseCase(
		appointments,
		dentists,
		treatments,
		memory.NewPatientRepository(store),
		availability.NewValidator(appointments, treatments),
		f.cache,
		f.notifier,
		f.metrics,
		memory.NewTxManager(store),
		logger.Nop(),
	).WithTimeProvider(fixedClock{now: monday.Add(-24 * time.Hour)})

	return f
}

func (f *fixture) request(start string) *Request {
	return &Request{
		PatientID:   f.patient.ID,
		DentistID:   f.dentist.ID,
		TreatmentID: f.treatment.ID,
		Date:        monday,
		StartTime:   types.TimeString(start),
	}
}

func TestExecute_BooksAndSnapshotsPatient(t *testing.T) {
	f := newFixture(t)

	a, err := f.uc.Execute(context.Background(), f.request("09:00"))
	require.NoError(t, err)

	assert.NotZero(t, a.ID)
	assert.Equal(t, domain.StatusPending, a.Status)
	assert.Equal(t, 50.0, a.Amount, "amount defaults to treatment cost")
	assert.Equal(t, "Ana Diaz", a.Patient.FullName())
	assert.Equal(t, "X123", a.Patient.DocumentNumber)
	assert.Equal(t, []int64{a.ID}, f.notifier.booked)
	assert.Equal(t, []string{"ok"}, f.metrics.results)

	// снимок не меняется при изменении профиля
	changed := *f.patient
	changed.LastName = "Lopez"
	f.store.UpdatePatient(changed)

	stored, err := memory.NewAppointmentRepository(f.store).GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Diaz", stored.Patient.LastName)
}

func TestExecute_OverlapRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Execute(ctx, f.request("09:00"))
	require.NoError(t, err)

	// [09:20, 10:00) пересекается с [09:00, 09:40)
	_, err = f.uc.Execute(ctx, f.request("09:20"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)
	assert.ErrorIs(t, err, domain.ErrConflict)

	// Смежный слот свободен: интервалы полуоткрытые
	_, err = f.uc.Execute(ctx, f.request("09:40"))
	assert.NoError(t, err)

	// [08:30, 09:10) пересекается
	_, err = f.uc.Execute(ctx, f.request("08:30"))
	assert.ErrorIs(t, err, ErrSlotNotAvailable)

	assert.Equal(t, []string{"ok", "conflict", "ok", "conflict"}, f.metrics.results)
}

func TestExecute_CustomAmount(t *testing.T) {
	f := newFixture(t)
	req := f.request("10:00")
	req.Amount = ptr.Ptr(35.5)

	a, err := f.uc.Execute(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 35.5, a.Amount)
}

func TestExecute_Validation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"no patient", func(r *Request) { r.PatientID = 0 }, ErrInvalidInput},
		{"no dentist", func(r *Request) { r.DentistID = -1 }, ErrInvalidInput},
		{"no treatment", func(r *Request) { r.TreatmentID = 0 }, ErrInvalidInput},
		{"no date", func(r *Request) { r.Date = time.Time{} }, ErrInvalidInput},
		{"bad time", func(r *Request) { r.StartTime = "9am" }, ErrInvalidInput},
		{"negative amount", func(r *Request) { r.Amount = ptr.Ptr(-1.0) }, ErrInvalidInput},
		{"past date", func(r *Request) { r.Date = monday.AddDate(0, 0, -7) }, ErrDateInPast},
		{"sunday off", func(r *Request) { r.Date = monday.AddDate(0, 0, 6) }, ErrDentistNotWorking},
		{"before opening", func(r *Request) { r.StartTime = "07:30" }, ErrOutsideWorkingHours},
		{"runs past closing", func(r *Request) { r.StartTime = "16:40" }, ErrOutsideWorkingHours},
		{"unknown patient", func(r *Request) { r.PatientID = 999 }, ErrPatientNotFound},
		{"unknown dentist", func(r *Request) { r.DentistID = 999 }, ErrDentistNotFound},
		{"unknown treatment", func(r *Request) { r.TreatmentID = 999 }, ErrTreatmentNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := f.request("09:00")
			tt.mutate(req)

			_, err := f.uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestExecute_SameDayPastTime(t *testing.T) {
	f := newFixture(t)
	f.uc.WithTimeProvider(fixedClock{now: monday.Add(11 * time.Hour)})

	_, err := f.uc.Execute(context.Background(), f.request("10:00"))
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = f.uc.Execute(context.Background(), f.request("12:00"))
	assert.NoError(t, err)
}

func TestExecute_PastCheckUsesUTC(t *testing.T) {
	f := newFixture(t)
	// 14:00 UTC, по местному времени UTC-10 ещё 04:00
	f.uc.WithTimeProvider(fixedClock{now: monday.Add(14 * time.Hour).In(time.FixedZone("UTC-10", -10*60*60))})

	_, err := f.uc.Execute(context.Background(), f.request("12:00"))
	assert.ErrorIs(t, err, ErrDateInPast)

	_, err = f.uc.Execute(context.Background(), f.request("14:00"))
	assert.NoError(t, err, "slot starting in the current minute is still bookable")
}

func TestExecute_InactiveEntities(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	inactive := f.store.AddTreatment(domain.Treatment{Name: "Retired", DurationMinutes: 30})
	req := f.request("09:00")
	req.TreatmentID = inactive.ID
	_, err := f.uc.Execute(ctx, req)
	assert.ErrorIs(t, err, ErrTreatmentInactive)

	require.NoError(t, memory.NewDentistRepository(f.store).Deactivate(ctx, f.dentist.ID))
	_, err = f.uc.Execute(ctx, f.request("09:00"))
	assert.ErrorIs(t, err, ErrDentistInactive)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestExecute_InvalidatesAppointmentRegions(t *testing.T) {
	f := newFixture(t)
	listKey := cache.Query(cache.RegionAppointmentList, "dentist=1")
	pageKey := cache.Query(cache.RegionAppointmentPage, "limit=20")
	dentistKey := cache.ByID(cache.RegionDentistByID, f.dentist.ID)
	f.cache.Put(listKey, []int{})
	f.cache.Put(pageKey, []int{})
	f.cache.Put(dentistKey, f.dentist)

	_, err := f.uc.Execute(context.Background(), f.request("09:00"))
	require.NoError(t, err)

	_, ok := f.cache.Get(listKey)
	assert.False(t, ok)
	_, ok = f.cache.Get(pageKey)
	assert.False(t, ok)
	_, ok = f.cache.Get(dentistKey)
	assert.True(t, ok, "dentist regions are not affected by booking")
}

func TestExecute_FailedBookingKeepsCache(t *testing.T) {
	f := newFixture(t)
	listKey := cache.Query(cache.RegionAppointmentList, "all")
	f.cache.Put(listKey, []int{})

	_, err := f.uc.Execute(context.Background(), f.request("07:00"))
	require.Error(t, err)

	_, ok := f.cache.Get(listKey)
	assert.True(t, ok)
}

func TestExecute_NotifierFailureDoesNotFailBooking(t *testing.T) {
	f := newFixture(t)
	f.notifier.err = errors.New("kafka down")

	a, err := f.uc.Execute(context.Background(), f.request("09:00"))
	require.NoError(t, err)
	assert.NotZero(t, a.ID)
}

func TestExecute_ConcurrentBookingsOfSameSlot(t *testing.T) {
	f := newFixture(t)

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), f.request("11:00"))
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
			continue
		}
		assert.ErrorIs(t, err, domain.ErrConflict)
	}
	assert.Equal(t, 1, succeeded)
}

package appointments

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/cache"
	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/internal/infra/storage/memory"
	"github.com/m04kA/SMC-DentalService/internal/service/appointments/models"
	"github.com/m04kA/SMC-DentalService/pkg/logger"
	"github.com/m04kA/SMC-DentalService/pkg/ptr"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

var monday = time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

type recordingNotifier struct {
	attended  []int64
	cancelled []int64
	err       error
}

func (n *recordingNotifier) NotifyAttended(_ context.Context, a *domain.Appointment) error {
	n.attended = append(n.attended, a.ID)
	return n.err
}

func (n *recordingNotifier) NotifyCancelled(_ context.Context, a *domain.Appointment) error {
	n.cancelled = append(n.cancelled, a.ID)
	return n.err
}

type recordingMetrics struct {
	observed []string
}

func (m *recordingMetrics) ObserveMutation(mutation, result string) {
	m.observed = append(m.observed, mutation+":"+result)
}

type fixture struct {
	svc      *Service
	store    *memory.Store
	repo     *memory.AppointmentRepository
	cache    *cache.Coordinator
	notifier *recordingNotifier
	metrics  *recordingMetrics
}

func newFixture(t *testing.T, withCache bool) *fixture {
	t.Helper()

	store := memory.NewStore()
	f := &fixture{
		store:    store,
		repo:     memory.NewAppointmentRepository(store),
		notifier: &recordingNotifier{},
		metrics:  &recordingMetrics{},
	}
	if withCache {
		f.cache = cache.New(cache.Config{TTL: time.Hour, MaxEntries: 100})
	}

	f.svc = NewService(f.repo, f.cache, f.notifier, f.metrics, memory.NewTxManager(store),
		Config{DefaultPageLimit: 2, MaxPageLimit: 5}, logger.Nop()).
		WithTimeProvider(fixedClock{now: monday.Add(10 * time.Hour)})

	return f
}

func (f *fixture) seed(t *testing.T, dentistID int64, date time.Time, start, name string, sex domain.Sex) *domain.Appointment {
	t.Helper()
	a, err := f.repo.Create(context.Background(), &domain.Appointment{
		DentistID:   dentistID,
		TreatmentID: 1,
		PatientID:   1,
		Date:        date,
		StartTime:   types.TimeString(start),
		Status:      domain.StatusPending,
		Patient:     domain.PatientSnapshot{FirstName: name, LastName: "Perez", Sex: sex, DocumentNumber: "D-" + name},
	})
	require.NoError(t, err)
	return a
}

func TestGetByID(t *testing.T) {
	f := newFixture(t, true)
	a := f.seed(t, 1, monday, "09:00", "Ana", domain.SexFemale)

	got, err := f.svc.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)

	// изменение результата не портит кэш
	got.Status = domain.StatusCancelled
	again, err := f.svc.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, again.Status)

	_, err = f.svc.GetByID(context.Background(), 999)
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetByID(context.Background(), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_Filters(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, 1, monday, "09:00", "Ana", domain.SexFemale)
	f.seed(t, 1, monday, "10:00", "Luis", domain.SexMale)
	f.seed(t, 2, monday.AddDate(0, 0, 1), "09:00", "Mariana", domain.SexFemale)
	f.seed(t, 2, monday.AddDate(0, 0, 7), "09:00", "Jose", domain.SexMale)

	tests := []struct {
		name string
		req  models.ListRequest
		want int
	}{
		{"all", models.ListRequest{}, 4},
		{"dentist", models.ListRequest{DentistID: ptr.Ptr(int64(2))}, 2},
		{"sex", models.ListRequest{Sex: ptr.Ptr("F")}, 2},
		{"name substring", models.ListRequest{PatientName: ptr.Ptr("ANA")}, 2},
		{"blank name ignored", models.ListRequest{PatientName: ptr.Ptr("  ")}, 4},
		{"one day", models.ListRequest{StartDate: ptr.Ptr(monday), EndDate: ptr.Ptr(monday)}, 2},
		{"open end", models.ListRequest{StartDate: ptr.Ptr(monday.AddDate(0, 0, 1))}, 2},
		{"combined", models.ListRequest{DentistID: ptr.Ptr(int64(1)), Sex: ptr.Ptr("M"), Status: ptr.Ptr("pending")}, 1},
		{"document", models.ListRequest{DocumentNumber: ptr.Ptr("D-Jose")}, 1},
		{"status set", models.ListRequest{Statuses: []string{"attended", "cancelled"}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := tt.req
			items, err := f.svc.List(context.Background(), &req)
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestList_ValidationErrors(t *testing.T) {
	f := newFixture(t, true)

	_, err := f.svc.List(context.Background(), &models.ListRequest{
		StartDate: ptr.Ptr(monday.AddDate(0, 0, 1)),
		EndDate:   ptr.Ptr(monday),
	})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.svc.List(context.Background(), &models.ListRequest{Status: ptr.Ptr("lost")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.List(context.Background(), &models.ListRequest{Sex: ptr.Ptr("X")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = f.svc.List(context.Background(), &models.ListRequest{PatientName: ptr.Ptr(strings.Repeat("a", 101))})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestList_CachedUntilMutation(t *testing.T) {
	f := newFixture(t, true)
	a := f.seed(t, 1, monday, "09:00", "Ana", domain.SexFemale)
	req := &models.ListRequest{Status: ptr.Ptr("pending")}

	items, err := f.svc.List(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, items, 1)

	reads := f.store.Reads()
	_, err = f.svc.List(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, reads, f.store.Reads(), "second identical read is served from cache")

	_, err = f.svc.Cancel(context.Background(), a.ID, &models.CancelRequest{Reason: "sick"})
	require.NoError(t, err)

	// после мутации чтение не видит устаревший результат
	items, err = f.svc.List(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, items)

	got, err := f.svc.GetByID(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
}

func TestListPage(t *testing.T) {
	f := newFixture(t, true)
	for _, start := range []string{"09:00", "10:00", "11:00", "12:00", "13:00"} {
		f.seed(t, 1, monday, start, "Ana", domain.SexFemale)
	}

	first, err := f.svc.ListPage(context.Background(), &models.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, 5, first.Total)
	assert.Equal(t, 2, first.Limit)
	require.Len(t, first.Items, 2)
	assert.True(t, first.HasMore())
	assert.Equal(t, types.TimeString("13:00"), first.Items[0].StartTime)

	last, err := f.svc.ListPage(context.Background(), &models.PageRequest{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, last.Items, 1)
	assert.False(t, last.HasMore())

	tail, err := f.svc.ListPage(context.Background(), &models.PageRequest{Limit: 2, Offset: 3})
	require.NoError(t, err)
	assert.Len(t, tail.Items, 2)
	assert.False(t, tail.HasMore())

	// лимит вне диапазона отклоняется, а не обрезается
	_, err = f.svc.ListPage(context.Background(), &models.PageRequest{Limit: 6})
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = f.svc.ListPage(context.Background(), &models.PageRequest{Offset: -1})
	assert.ErrorIs(t, err, ErrInvalidPage)
	_, err = f.svc.ListPage(context.Background(), &models.PageRequest{ListRequest: models.ListRequest{
		StartDate: ptr.Ptr(monday), EndDate: ptr.Ptr(monday.AddDate(0, 0, -1)),
	}})
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

type readOnlyCounter struct {
	*memory.TxManager
	readOnly int
}

func (m *readOnlyCounter) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	m.readOnly++
	return m.TxManager.DoReadOnly(ctx, fn)
}

func TestListPage_ReadsInOneReadOnlyTransaction(t *testing.T) {
	f := newFixture(t, true)
	f.seed(t, 1, monday, "09:00", "Ana", domain.SexFemale)

	tx := &readOnlyCounter{TxManager: memory.NewTxManager(f.store)}
	svc := NewService(f.repo, f.cache, f.notifier, f.metrics, tx,
		Config{DefaultPageLimit: 2, MaxPageLimit: 5}, logger.Nop())

	for i := 0; i < 2; i++ {
		page, err := svc.ListPage(context.Background(), &models.PageRequest{})
		require.NoError(t, err)
		assert.Equal(t, 1, page.Total)
	}
	assert.Equal(t, 1, tx.readOnly, "second call is served from cache")
}

func TestAttend(t *testing.T) {
	f := newFixture(t, true)
	a := f.seed(t, 1, monday, "09:00", "Ana", domain.SexFemale)

	got, err := f.svc.Attend(context.Background(), a.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusAttended, got.Status)
	require.NotNil(t, got.AttendedAt)
	assert.Equal(t, []int64{a.ID}, f.notifier.attended)

	// повторная отметка и отмена после приёма недопустимы
	_, err = f.svc.Attend(context.Background(), a.ID)
	assert.ErrorIs(t, err, ErrCannotAttend)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = f.svc.Cancel(context.Background(), a.ID, &models.CancelRequest{Reason: "late"})
	assert.ErrorIs(t, err, ErrCannotCancel)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	assert.ErrorIs(t, err, domain.ErrConflict)

	assert.Equal(t, []string{"attend:ok", "attend:conflict", "cancel:conflict"}, f.metrics.observed)
}

func TestCancel(t *testing.T) {
	f := newFixture(t, true)
	a := f.seed(t, 1, monday, "09:00", "Ana", domain.SexFemale)

	_, err := f.svc.Cancel(context.Background(), a.ID, &models.CancelRequest{Reason: "  "})
	assert.ErrorIs(t, err, domain.ErrCancellationReasonRequired)

	_, err = f.svc.Cancel(context.Background(), a.ID, &models.CancelRequest{Reason: strings.Repeat("x", 501)})
	assert.ErrorIs(t, err, domain.ErrCancellationReasonTooLong)

	got, err := f.svc.Cancel(context.Background(), a.ID, &models.CancelRequest{Reason: "  feeling better "})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, got.Status)
	require.NotNil(t, got.CancellationReason)
	assert.Equal(t, "feeling better", *got.CancellationReason)
	assert.Equal(t, []int64{a.ID}, f.notifier.cancelled)

	_, err = f.svc.Cancel(context.Background(), 999, &models.CancelRequest{Reason: "x"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestMutation_NotifierFailureIsNotAnError(t *testing.T) {
	f := newFixture(t, true)
	f.notifier.err = errors.New("kafka down")
	a := f.seed(t, 1, monday, "09:00", "Ana", domain.SexFemale)

	_, err := f.svc.Attend(context.Background(), a.ID)
	assert.NoError(t, err)
}

func TestColdCacheGivesSameResults(t *testing.T) {
	cached := newFixture(t, true)
	cold := newFixture(t, false)
	for _, f := range []*fixture{cached, cold} {
		f.seed(t, 1, monday, "09:00", "Ana", domain.SexFemale)
		b := f.seed(t, 2, monday, "10:00", "Luis", domain.SexMale)
		_, err := f.svc.Cancel(context.Background(), b.ID, &models.CancelRequest{Reason: "moved"})
		require.NoError(t, err)
	}

	reqs := []models.ListRequest{
		{},
		{Status: ptr.Ptr("pending")},
		{Sex: ptr.Ptr("M")},
	}
	for _, req := range reqs {
		req := req
		for i := 0; i < 2; i++ {
			a, err := cached.svc.List(context.Background(), &req)
			require.NoError(t, err)
			b, err := cold.svc.List(context.Background(), &req)
			require.NoError(t, err)
			assert.Equal(t, summary(a), summary(b))
		}
	}
}

func summary(items []*domain.Appointment) []string {
	result := make([]string, len(items))
	for i, a := range items {
		result[i] = fmt.Sprintf("%d/%d/%s/%s", a.ID, a.DentistID, a.StartTime, a.Status)
	}
	return result
}

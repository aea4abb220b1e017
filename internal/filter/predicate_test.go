package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-DentalService/internal/domain"
	"github.com/m04kA/SMC-DentalService/pkg/ptr"
	"github.com/m04kA/SMC-DentalService/pkg/types"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleAppointments() []*domain.Appointment {
	return []*domain.Appointment{
		{
			ID: 1, DentistID: 10, TreatmentID: 100, PatientID: 1000,
			Date: day("2025-03-10"), StartTime: "09:00", Status: domain.StatusPending,
			Patient: domain.PatientSnapshot{FirstName: "Ana", LastName: "Pérez", DocumentNumber: "111", Sex: domain.SexFemale},
		},
		{
			ID: 2, DentistID: 10, TreatmentID: 101, PatientID: 1001,
			Date: day("2025-03-11"), StartTime: "10:00", Status: domain.StatusAttended,
			Patient: domain.PatientSnapshot{FirstName: "Luis", MiddleName: ptr.Ptr("Alberto"), LastName: "Gómez", DocumentNumber: "222", Sex: domain.SexMale},
		},
		{
			ID: 3, DentistID: 11, TreatmentID: 100, PatientID: 1000,
			Date: day("2025-03-12"), StartTime: "11:00", Status: domain.StatusCancelled,
			Patient: domain.PatientSnapshot{FirstName: "Ana", LastName: "Pérez", DocumentNumber: "111", Sex: domain.SexFemale},
		},
	}
}

func ids(items []*domain.Appointment) []int64 {
	result := make([]int64, 0, len(items))
	for _, a := range items {
		result = append(result, a.ID)
	}
	return result
}

func TestTrue_MatchesEverything(t *testing.T) {
	p := True[*domain.Appointment]()

	assert.True(t, p.IsTrue())
	assert.Len(t, Filter(sampleAppointments(), p), 3)

	sql, args, err := p.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "(1=1)", sql)
	assert.Empty(t, args)
}

func TestAnd_Identity(t *testing.T) {
	eq := Eq("a.dentist_id", ptr.Ptr(int64(10)), func(a *domain.Appointment) int64 { return a.DentistID })

	assert.True(t, And[*domain.Appointment]().IsTrue())

	combined := And(eq, True[*domain.Appointment]())
	sqlA, argsA, err := combined.ToSql()
	require.NoError(t, err)
	sqlB, argsB, err := eq.ToSql()
	require.NoError(t, err)

	assert.Equal(t, sqlB, sqlA)
	assert.Equal(t, argsB, argsA)
}

func TestAnd_Commutative(t *testing.T) {
	items := sampleAppointments()
	byDentist := Eq("a.dentist_id", ptr.Ptr(int64(10)), func(a *domain.Appointment) int64 { return a.DentistID })
	byTreatment := Eq("a.treatment_id", ptr.Ptr(int64(100)), func(a *domain.Appointment) int64 { return a.TreatmentID })

	left := Filter(items, And(byDentist, byTreatment))
	right := Filter(items, And(byTreatment, byDentist))

	assert.Equal(t, ids(left), ids(right))
	assert.Equal(t, []int64{1}, ids(left))
}

func TestAppointments_OmittingCriterionNeverShrinksResult(t *testing.T) {
	items := sampleAppointments()
	status := domain.StatusPending
	full := domain.AppointmentFilter{
		PatientID:   ptr.Ptr(int64(1000)),
		DentistID:   ptr.Ptr(int64(10)),
		Status:      &status,
		StartDate:   ptr.Ptr(day("2025-03-01")),
		EndDate:     ptr.Ptr(day("2025-03-31")),
		PatientName: ptr.Ptr("ana"),
	}

	withAll := Filter(items, Appointments(full))

	relaxed := []domain.AppointmentFilter{full, full, full, full, full, full}
	relaxed[0].PatientID = nil
	relaxed[1].DentistID = nil
	relaxed[2].Status = nil
	relaxed[3].StartDate = nil
	relaxed[4].EndDate = nil
	relaxed[5].PatientName = nil

	for i, f := range relaxed {
		got := Filter(items, Appointments(f))
		assert.GreaterOrEqual(t, len(got), len(withAll), "relaxed filter #%d", i)
		assert.Subset(t, ids(got), ids(withAll), "relaxed filter #%d", i)
	}
}

func TestAppointments_EmptyFilterReturnsAll(t *testing.T) {
	p := Appointments(domain.AppointmentFilter{})

	assert.True(t, p.IsTrue())
	assert.Len(t, Filter(sampleAppointments(), p), 3)
}

func TestAppointments_SingleCriteria(t *testing.T) {
	items := sampleAppointments()
	attended := domain.StatusAttended
	male := domain.SexMale

	tests := []struct {
		name   string
		filter domain.AppointmentFilter
		want   []int64
	}{
		{name: "patient", filter: domain.AppointmentFilter{PatientID: ptr.Ptr(int64(1000))}, want: []int64{1, 3}},
		{name: "dentist", filter: domain.AppointmentFilter{DentistID: ptr.Ptr(int64(11))}, want: []int64{3}},
		{name: "status", filter: domain.AppointmentFilter{Status: &attended}, want: []int64{2}},
		{name: "statuses", filter: domain.AppointmentFilter{Statuses: []domain.AppointmentStatus{domain.StatusPending, domain.StatusCancelled}}, want: []int64{1, 3}},
		{name: "date from", filter: domain.AppointmentFilter{StartDate: ptr.Ptr(day("2025-03-11"))}, want: []int64{2, 3}},
		{name: "date to inclusive", filter: domain.AppointmentFilter{EndDate: ptr.Ptr(day("2025-03-11"))}, want: []int64{1, 2}},
		{name: "sex", filter: domain.AppointmentFilter{Sex: &male}, want: []int64{2}},
		{name: "name case insensitive", filter: domain.AppointmentFilter{PatientName: ptr.Ptr("ALBERTO")}, want: []int64{2}},
		{name: "blank name ignored", filter: domain.AppointmentFilter{PatientName: ptr.Ptr("   ")}, want: []int64{1, 2, 3}},
		{name: "document", filter: domain.AppointmentFilter{DocumentNumber: ptr.Ptr("111")}, want: []int64{1, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Filter(items, Appointments(tt.filter))))
		})
	}
}

func TestAppointments_SQL(t *testing.T) {
	status := domain.StatusPending
	p := Appointments(domain.AppointmentFilter{
		DentistID:   ptr.Ptr(int64(10)),
		Status:      &status,
		StartDate:   ptr.Ptr(day("2025-03-01")),
		PatientName: ptr.Ptr("50%_off"),
	})

	sql, args, err := p.ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "a.dentist_id = ?")
	assert.Contains(t, sql, "a.status = ?")
	assert.Contains(t, sql, "a.appointment_date >= ?")
	assert.Contains(t, sql, "ILIKE ?")
	assert.Contains(t, args, int64(10))
	assert.Contains(t, args, domain.StatusPending)
	assert.Contains(t, args, "2025-03-01")
	assert.Contains(t, args, `%50\%\_off%`)
}

func TestIn_DeduplicatesValues(t *testing.T) {
	p := In("a.status", []domain.AppointmentStatus{domain.StatusPending, domain.StatusPending},
		func(a *domain.Appointment) domain.AppointmentStatus { return a.Status })

	sql, args, err := p.ToSql()
	require.NoError(t, err)
	assert.Equal(t, "a.status IN (?)", sql)
	assert.Len(t, args, 1)
}

func TestDentistsAndTreatments(t *testing.T) {
	dentists := []*domain.Dentist{
		{ID: 1, FullName: "Dr. House", Specialization: "Orthodontics", Active: true},
		{ID: 2, FullName: "Dr. Wilson", Specialization: "Endodontics", Active: false},
	}
	gotD := Filter(dentists, Dentists(domain.DentistFilter{Specialization: ptr.Ptr("odont"), Active: ptr.Ptr(true)}))
	require.Len(t, gotD, 1)
	assert.Equal(t, int64(1), gotD[0].ID)

	treatments := []*domain.Treatment{
		{ID: 1, Name: "Cleaning", TreatmentTypeID: 5, Active: true},
		{ID: 2, Name: "Deep cleaning", TreatmentTypeID: 6, Active: true},
	}
	gotT := Filter(treatments, Treatments(domain.TreatmentFilter{Name: ptr.Ptr("CLEAN"), TreatmentTypeID: ptr.Ptr(int64(6))}))
	require.Len(t, gotT, 1)
	assert.Equal(t, int64(2), gotT[0].ID)
}

func TestStartTimeIrrelevantToDateRange(t *testing.T) {
	a := &domain.Appointment{Date: time.Date(2025, 3, 10, 23, 30, 0, 0, time.UTC), StartTime: types.TimeString("23:30")}
	p := DateRange("a.appointment_date", ptr.Ptr(day("2025-03-10")), ptr.Ptr(day("2025-03-10")),
		func(a *domain.Appointment) time.Time { return a.Date })

	assert.True(t, p.Match(a))
}
